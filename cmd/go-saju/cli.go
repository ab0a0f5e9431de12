package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/engine"
	"github.com/tartampluch/go-saju/internal/locale"
	"github.com/tartampluch/go-saju/internal/pillar"
	"github.com/zalando/go-keyring"
)

// cli holds what every command needs: settings, output streams and the
// injected collaborators.
type cli struct {
	settings config.Settings
	stdout   io.Writer
	stderr   io.Writer

	clock   engine.Clock
	fetcher engine.VCardFetcher

	// setupLog is swapped out in tests so no log file is created.
	setupLog  func(stderr io.Writer, debug bool) io.Closer
	logCloser io.Closer

	debug bool
	lang  string
}

func newCLI(settings config.Settings, stdout, stderr io.Writer) *cli {
	return &cli{
		settings: settings,
		stdout:   stdout,
		stderr:   stderr,
		clock:    engine.RealClock{},
		fetcher:  engine.NewHTTPFetcher(),
		setupLog: setupLogging,
	}
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close() // Best effort close
	}
}

func (c *cli) translator() *locale.Translator {
	return locale.New(c.lang)
}

// birthFlags are shared by every command that takes a birth moment.
type birthFlags struct {
	year, month, day int
	hour, minute     int
	gender           string
	lunar            bool
	dst              string
}

func (b *birthFlags) register(cmd *cobra.Command, required bool) {
	f := cmd.Flags()
	f.IntVar(&b.year, config.FlagYear, 0, config.FlagDescYear)
	f.IntVar(&b.month, config.FlagMonth, 0, config.FlagDescMonth)
	f.IntVar(&b.day, config.FlagDay, 0, config.FlagDescDay)
	f.IntVar(&b.hour, config.FlagHour, 0, config.FlagDescHour)
	f.IntVar(&b.minute, config.FlagMinute, 0, config.FlagDescMinute)
	f.StringVar(&b.gender, config.FlagGender, "", config.FlagDescGender)
	f.BoolVar(&b.lunar, config.FlagLunar, false, config.FlagDescLunar)
	f.StringVar(&b.dst, config.FlagDST, config.DSTAuto, config.FlagDescDST)
	if required {
		_ = cmd.MarkFlagRequired(config.FlagYear)
		_ = cmd.MarkFlagRequired(config.FlagMonth)
		_ = cmd.MarkFlagRequired(config.FlagDay)
	}
}

func (b *birthFlags) set() bool { return b.year != 0 }

func (b *birthFlags) moment() (pillar.BirthMoment, error) {
	m := pillar.BirthMoment{
		Year:    b.year,
		Month:   b.month,
		Day:     b.day,
		Hour:    b.hour,
		Minute:  b.minute,
		IsLunar: b.lunar,
	}
	if b.gender != "" {
		g, err := pillar.ParseGender(b.gender)
		if err != nil {
			return pillar.BirthMoment{}, err
		}
		m.Gender = g
	}
	override, err := engine.ParseDSTMode(b.dst)
	if err != nil {
		return pillar.BirthMoment{}, err
	}
	m.DSTOverride = override
	return m, nil
}

// yearRange resolves --from/--to, defaulting to the configured number of
// years starting with the current one.
func (c *cli) yearRange(from, to int) (int, int) {
	if from == 0 {
		from = c.clock.Now().Year()
	}
	if to == 0 {
		to = from + c.settings.CalendarYears - 1
	}
	return from, to
}

// password returns the explicit password, or the one stored in the OS
// keyring for user.
func password(user, explicit string) string {
	if explicit != "" || user == "" {
		return explicit
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, user,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompMain)
		return ""
	}
	return p
}

// writeOutput sends data to path, or to stdout when path is empty.
func (c *cli) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, config.FilePermPublic); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

func (c *cli) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return c.writeOutput(path, append(data, '\n'))
}
