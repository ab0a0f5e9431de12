package engine_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/engine"
	"github.com/tartampluch/go-saju/internal/locale"
	"github.com/tartampluch/go-saju/internal/pillar"
)

var fixedNow = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func exporter(lang string) *engine.CalendarExporter {
	return &engine.CalendarExporter{
		Clock:      MockClock{CurrentTime: fixedNow},
		Translator: locale.New(lang),
	}
}

func chartOf(t *testing.T, m pillar.BirthMoment) engine.Chart {
	t.Helper()
	c, err := engine.BuildChart(m, engine.WithoutCurve())
	require.NoError(t, err)
	return c
}

func TestExport_SaeunAndDaeunEvents(t *testing.T) {
	ics, err := exporter("en").Export(chartOf(t, reference), 2020, 2031, "")
	require.NoError(t, err)
	s := string(ics)

	assert.True(t, strings.HasPrefix(s, "BEGIN:VCALENDAR"))
	assert.Equal(t, 12+2, strings.Count(s, "BEGIN:VEVENT"), "one annual event per year, decade events at ages 50 and 60")
	assert.Equal(t, 12, strings.Count(s, "CATEGORIES:"+config.CategorySaeun))
	assert.Equal(t, 2, strings.Count(s, "CATEGORIES:"+config.CategoryDaeun))

	assert.Contains(t, s, "SUMMARY:Annual fortune 2026: Byeong-O")
	assert.Contains(t, s, "DTSTART;VALUE=DATE:20260204")
	assert.Contains(t, s, "SUMMARY:Decade fortune 50-59: Gye-Sa")
	assert.Contains(t, s, "DTSTART;VALUE=DATE:20211117")
	assert.Contains(t, s, "DTSTAMP:20260101T100000Z")
	assert.NotContains(t, s, "BEGIN:VALARM")
}

func TestExport_CalendarName(t *testing.T) {
	for lang, want := range map[string]string{"en": "Fortune cycles", "ko": locale.New("ko").Msg(config.TKeyCalName, nil)} {
		t.Run(lang, func(t *testing.T) {
			data, err := exporter(lang).Export(chartOf(t, reference), 2026, 2026, "")
			require.NoError(t, err)

			// X- properties carry an explicit VALUE=TEXT parameter, so read the
			// value back instead of matching the raw line.
			cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
			require.NoError(t, err)
			name, err := cal.Props.Text(config.PropXWRCalName)
			require.NoError(t, err)
			assert.Equal(t, want, name)
			assert.Contains(t, string(data), "X-WR-CALNAME;VALUE=TEXT:"+want)
		})
	}
}

func TestExport_Korean(t *testing.T) {
	ics, err := exporter("ko").Export(chartOf(t, reference), 2026, 2026, "")
	require.NoError(t, err)
	assert.Contains(t, string(ics), "병오")
}

func TestExport_WithReminder(t *testing.T) {
	ics, err := exporter("en").Export(chartOf(t, reference), 2026, 2026, "-P1D")
	require.NoError(t, err)
	s := string(ics)

	assert.Contains(t, s, "BEGIN:VALARM")
	assert.Contains(t, s, "TRIGGER:-P1D")
	assert.Contains(t, s, "ACTION:DISPLAY")
}

func TestExport_InvalidReminder(t *testing.T) {
	_, err := exporter("en").Export(chartOf(t, reference), 2026, 2026, "tomorrow")
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)
}

func TestExport_InvalidRange(t *testing.T) {
	_, err := exporter("en").Export(chartOf(t, reference), 2030, 2020, "")
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)

	_, err = exporter("en").Export(chartOf(t, reference), 0, 2020, "")
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)
}

func TestExport_NothingBeforeBirth(t *testing.T) {
	baby := pillar.BirthMoment{Year: 2025, Month: 6, Day: 15, Hour: 9, Gender: pillar.Female}
	ics, err := exporter("en").Export(chartOf(t, baby), 2020, 2026, "")
	require.NoError(t, err)
	s := string(ics)

	assert.Equal(t, 3, strings.Count(s, "BEGIN:VEVENT"), "2025 and 2026 annual events plus the age-0 window")
	assert.NotContains(t, s, "DTSTART;VALUE=DATE:20240204")
	assert.Contains(t, s, "DTSTART;VALUE=DATE:20250615")
}

func TestExport_NoGenderOnlyAnnualEvents(t *testing.T) {
	m := reference
	m.Gender = ""
	ics, err := exporter("en").Export(chartOf(t, m), 2020, 2031, "")
	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(string(ics), "BEGIN:VEVENT"))
	assert.NotContains(t, string(ics), config.CategoryDaeun)
}

func TestExport_EmptyRangeReturnsStub(t *testing.T) {
	baby := pillar.BirthMoment{Year: 2025, Month: 6, Day: 15}
	ics, err := exporter("en").Export(chartOf(t, baby), 2000, 2010, "")
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(ics))
}

func TestExport_Deterministic(t *testing.T) {
	a, err := exporter("en").Export(chartOf(t, reference), 2020, 2030, "-PT1H")
	require.NoError(t, err)
	b, err := exporter("en").Export(chartOf(t, reference), 2020, 2030, "-PT1H")
	require.NoError(t, err)
	assert.Equal(t, a, b, "stable UIDs and stamps")
}

func TestExportAll_NamesAndDistinctUIDs(t *testing.T) {
	subjects := []engine.Subject{
		{Name: "Alice", Chart: chartOf(t, reference)},
		{Name: "Bob", Chart: chartOf(t, reference)},
	}
	ics, err := exporter("en").ExportAll(subjects, 2026, 2026, "")
	require.NoError(t, err)
	s := string(ics)

	assert.Contains(t, s, "SUMMARY:Alice: Annual fortune 2026: Byeong-O")
	assert.Contains(t, s, "SUMMARY:Bob: Annual fortune 2026: Byeong-O")

	uids := map[string]bool{}
	for _, line := range strings.Split(s, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			assert.False(t, uids[line], "duplicate %s", line)
			uids[line] = true
		}
	}
	assert.Len(t, uids, 2)
}

func TestExport_DefaultsToEnglish(t *testing.T) {
	e := &engine.CalendarExporter{Clock: MockClock{CurrentTime: fixedNow}}
	ics, err := e.Export(chartOf(t, reference), 2026, 2026, "")
	require.NoError(t, err)
	assert.Contains(t, string(ics), "Annual fortune 2026")
}
