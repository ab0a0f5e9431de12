package engine

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/dst"
	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/lifecurve"
	"github.com/tartampluch/go-saju/internal/pillar"
	"github.com/tartampluch/go-saju/internal/wuxing"
)

// Chart is a complete natal reading: the four pillars plus everything
// derived from them.
type Chart struct {
	Moment    pillar.BirthMoment `json:"moment"`
	Pillars   pillar.FourPillars `json:"pillars"`
	Clock     dst.Correction     `json:"clock"`
	Balance   wuxing.Balance     `json:"balance"`
	DayMaster wuxing.Element     `json:"dayMaster"`

	// Daeun and Curve are empty when the moment carries no gender.
	Daeun []fortune.Period `json:"daeun,omitempty"`
	Curve lifecurve.Curve  `json:"curve,omitempty"`

	// LowConfidence is set when the birth date lies within a day of a
	// solar-term threshold.
	LowConfidence bool `json:"lowConfidence"`
}

// HasFortune reports whether the fortune cycles were computed.
func (c Chart) HasFortune() bool { return len(c.Daeun) == fortune.PeriodCount }

type chartOptions struct {
	curve     []lifecurve.Option
	skipCurve bool
}

// ChartOption configures BuildChart.
type ChartOption func(*chartOptions)

// WithCurveOptions forwards options (such as jitter) to the life-curve generator.
func WithCurveOptions(opts ...lifecurve.Option) ChartOption {
	return func(o *chartOptions) { o.curve = append(o.curve, opts...) }
}

// WithoutCurve skips the life curve. Batch runs use it to keep output small.
func WithoutCurve() ChartOption {
	return func(o *chartOptions) { o.skipCurve = true }
}

// BuildChart validates m and computes the full chart. The chart is produced
// whole or not at all.
func BuildChart(m pillar.BirthMoment, opts ...ChartOption) (Chart, error) {
	var o chartOptions
	for _, opt := range opts {
		opt(&o)
	}

	d, err := pillar.Calculate(m)
	if err != nil {
		return Chart{}, err
	}

	chart := Chart{
		Moment:        m,
		Pillars:       d.Pillars,
		Clock:         d.Clock,
		Balance:       d.Pillars.Balance(),
		DayMaster:     d.Pillars.DayMaster(),
		LowConfidence: d.LowConfidence,
	}

	log := slog.With(config.LogKeyComponent, config.CompEngine)
	if chart.LowConfidence {
		log.Debug(config.MsgLowConfidence, config.LogKeyDOB, dateKey(m))
	}

	if m.Gender == "" {
		log.Debug(config.MsgChartBuilt, config.LogKeyPillars, chart.Pillars.FullText())
		return chart, nil
	}

	periods, err := fortune.Daeun(d.Pillars, m.Gender)
	if err != nil {
		return Chart{}, err
	}
	chart.Daeun = periods

	if !o.skipCurve {
		curve, err := lifecurve.Generate(lifecurve.Input{
			BirthYear: m.Year,
			Pillars:   d.Pillars,
			Daeun:     periods,
		}, o.curve...)
		if err != nil {
			return Chart{}, fmt.Errorf("%s: %w", config.ErrChart, err)
		}
		chart.Curve = curve
	}

	log.Debug(config.MsgChartBuilt,
		config.LogKeyPillars, chart.Pillars.FullText(),
		config.LogKeyDST, chart.Clock.OffsetMinutes,
	)
	return chart, nil
}

func dateKey(m pillar.BirthMoment) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month, m.Day)
}

// ParseDSTMode maps auto, on and off onto BirthMoment.DSTOverride.
func ParseDSTMode(mode string) (*bool, error) {
	switch mode {
	case "", config.DSTAuto:
		return nil, nil
	case config.DSTOn:
		v := true
		return &v, nil
	case config.DSTOff:
		v := false
		return &v, nil
	}
	return nil, &pillar.InputError{Field: "dst", Reason: config.ErrDSTMode}
}
