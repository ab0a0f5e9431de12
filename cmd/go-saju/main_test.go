package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/pillar"
	"github.com/zalando/go-keyring"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

const contacts = `BEGIN:VCARD
VERSION:4.0
FN:Reference
BDAY:1971-11-17T04:00:00
GENDER:M
END:VCARD
BEGIN:VCARD
VERSION:4.0
FN:Date Only
BDAY:20000101
END:VCARD
`

var reference = []string{"--year", "1971", "--month", "11", "--day", "17", "--hour", "4", "--gender", "M"}

func testCLI(fetcher *mockFetcher) (*cli, *bytes.Buffer) {
	var out bytes.Buffer
	c := newCLI(config.Settings{
		Port:          config.DefaultPort,
		Lang:          config.DefaultLanguage,
		BatchWorkers:  2,
		CalendarYears: 3,
	}, &out, io.Discard)
	c.setupLog = nil
	c.clock = fixedClock{time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)}
	if fetcher != nil {
		c.fetcher = fetcher
	}
	return c, &out
}

func execute(t *testing.T, c *cli, args ...string) error {
	t.Helper()
	root := newRootCmd(c)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c, out := testCLI(nil)
	err := execute(t, c, args...)
	return out.String(), err
}

func withArgs(cmd string, extra ...string) []string {
	return append(append([]string{cmd}, reference...), extra...)
}

func TestVersion(t *testing.T) {
	out, err := run(t, config.CmdVersion)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, config.AppName+" version "+config.Version))
	assert.Contains(t, out, "commit "+config.Commit)
	assert.Contains(t, out, "built "+config.Date)
}

func TestChartCommand(t *testing.T) {
	out, err := run(t, withArgs(config.CmdChart)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Four pillars: Sin-Hae Gi-Hae Byeong-O Gyeong-In (신해 기해 병오 경인)")
	assert.Contains(t, out, "Metal 25%")
	assert.Contains(t, out, "  Decade fortune 0-9: Mu-Sul")
	assert.NotContains(t, out, "!")
}

func TestChartCommand_Korean(t *testing.T) {
	out, err := run(t, withArgs(config.CmdChart, "--lang", "ko")...)
	require.NoError(t, err)
	assert.Contains(t, out, "신해 기해 병오 경인")
}

func TestChartCommand_JSON(t *testing.T) {
	out, err := run(t, withArgs(config.CmdChart, "--json")...)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "신해 기해 병오 경인", body["pillars"].(map[string]any)["fullText"])
	assert.NotContains(t, body, "curve")
}

func TestChartCommand_LowConfidence(t *testing.T) {
	out, err := run(t, config.CmdChart, "--year", "2024", "--month", "2", "--day", "4", "--hour", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "! Birth date is within a day")
}

func TestChartCommand_Errors(t *testing.T) {
	tests := map[string][]string{
		"missing day":  {config.CmdChart, "--year", "1971", "--month", "11"},
		"invalid date": {config.CmdChart, "--year", "2023", "--month", "2", "--day", "29"},
		"bad gender":   {config.CmdChart, "--year", "1971", "--month", "11", "--day", "17", "--gender", "x"},
		"bad dst":      {config.CmdChart, "--year", "1971", "--month", "11", "--day", "17", "--dst", "maybe"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestDaeunCommand(t *testing.T) {
	out, err := run(t, withArgs(config.CmdDaeun)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "Decade fortune 0-9: Mu-Sul (Backward)", lines[0])
	assert.Equal(t, "Decade fortune 50-59: Gye-Sa (Backward)", lines[5])
}

func TestDaeunCommand_RequiresGender(t *testing.T) {
	_, err := run(t, config.CmdDaeun, "--year", "1971", "--month", "11", "--day", "17")
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)
}

func TestSaeunCommand(t *testing.T) {
	out, err := run(t, config.CmdSaeun, "--from", "2026", "--to", "2027")
	require.NoError(t, err)
	assert.Equal(t, "Annual fortune 2026: Byeong-O\nAnnual fortune 2027: Jeong-Mi\n", out)

	// Defaults follow the clock and the configured number of years.
	out, err = run(t, config.CmdSaeun)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, "2028")

	_, err = run(t, config.CmdSaeun, "--from", "2030", "--to", "2020")
	assert.Error(t, err)
}

func TestCurveCommand(t *testing.T) {
	out, err := run(t, withArgs(config.CmdCurve)...)
	require.NoError(t, err)
	var curve []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &curve))
	assert.Len(t, curve, 5)

	again, err := run(t, withArgs(config.CmdCurve)...)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	seeded, err := run(t, withArgs(config.CmdCurve, "--seed", "42")...)
	require.NoError(t, err)
	seededAgain, err := run(t, withArgs(config.CmdCurve, "--seed", "42")...)
	require.NoError(t, err)
	assert.Equal(t, seeded, seededAgain)
	assert.NotEqual(t, out, seeded)
}

func TestCurveCommand_RequiresGender(t *testing.T) {
	_, err := run(t, config.CmdCurve, "--year", "1971", "--month", "11", "--day", "17")
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)
}

func TestCalendarCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fortune"+config.ExtICS)
	out, err := run(t, withArgs(config.CmdCalendar, "--from", "2026", "--to", "2026", "--reminder", "-P1D", "-o", path)...)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "Annual fortune 2026: Byeong-O")
	assert.Contains(t, ics, "BEGIN:VALARM")
}

func TestCalendarCommand_BadReminder(t *testing.T) {
	_, err := run(t, withArgs(config.CmdCalendar, "--reminder", "tomorrow")...)
	assert.Error(t, err)
}

func TestBatchCommand_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts"+config.ExtVCF)
	require.NoError(t, os.WriteFile(path, []byte(contacts), config.FilePermUserRW))

	out, err := run(t, config.CmdBatch, path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Reference", entries[0]["name"])
	assert.Equal(t, false, entries[1]["hourKnown"])

	out, err = run(t, config.CmdBatch, path, "--format", config.FormatICS, "--from", "2026", "--to", "2026")
	require.NoError(t, err)
	assert.Contains(t, out, "Reference: Annual fortune 2026: Byeong-O")
	assert.Contains(t, out, "Date Only: Annual fortune 2026: Byeong-O")

	_, err = run(t, config.CmdBatch, path, "--format", "xml")
	assert.ErrorContains(t, err, config.ErrFormat)
}

func TestBatchCommand_NoSource(t *testing.T) {
	_, err := run(t, config.CmdBatch)
	assert.ErrorContains(t, err, config.ErrSourceEmpty)
}

func TestBatchCommand_KeyringPassword(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, "alice", "s3cret"))

	f := new(mockFetcher)
	f.On("Fetch", mock.Anything, "https://dav.example.com/contacts", "alice", "s3cret").
		Return(io.NopCloser(strings.NewReader(contacts)), nil)

	c, out := testCLI(f)
	err := execute(t, c, config.CmdBatch, "--url", "https://dav.example.com/contacts", "--user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Reference")
	f.AssertExpectations(t)
}

func TestPassword(t *testing.T) {
	keyring.MockInit()
	assert.Equal(t, "given", password("bob", "given"))
	assert.Empty(t, password("", ""))
	assert.Empty(t, password("nobody", ""))
}

func TestRunMain_Failure(t *testing.T) {
	var stderr bytes.Buffer
	code := runMain([]string{config.CmdChart, "--no-such-flag"}, io.Discard, &stderr)
	assert.Equal(t, config.ExitCodeError, code)
	assert.Contains(t, stderr.String(), "no-such-flag")
}
