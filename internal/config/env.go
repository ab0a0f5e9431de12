package config

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Settings holds the runtime options read from GO_SAJU_* environment
// variables. CLI flags take precedence over them.
type Settings struct {
	Port          string `env:"PORT" envDefault:"18080"`
	Lang          string `env:"LANG" envDefault:"en"`
	BatchWorkers  int    `env:"BATCH_WORKERS" envDefault:"4"`
	CalendarYears int    `env:"CALENDAR_YEARS" envDefault:"10"`
}

// LoadSettings parses the environment into Settings and normalizes the values.
func LoadSettings() (Settings, error) {
	return loadSettings(nil)
}

func loadSettings(environment map[string]string) (Settings, error) {
	var s Settings
	opts := env.Options{Prefix: EnvPrefix, Environment: environment}
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrEnv, err)
	}
	if err := ValidatePort(s.Port); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrEnv, err)
	}
	s.BatchWorkers = ClampWorkers(s.BatchWorkers)
	if s.CalendarYears < 1 {
		s.CalendarYears = DefaultCalendarYears
	}
	if s.Lang == "" {
		s.Lang = DefaultLanguage
	}
	return s, nil
}

// ValidatePort checks that port is a decimal TCP port number.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ClampWorkers bounds a worker count to [1, MaxBatchWorkers].
func ClampWorkers(n int) int {
	switch {
	case n < 1:
		return DefaultBatchWorkers
	case n > MaxBatchWorkers:
		return MaxBatchWorkers
	}
	return n
}
