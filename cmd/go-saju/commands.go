package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/engine"
	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/lifecurve"
	"github.com/tartampluch/go-saju/internal/locale"
	"github.com/tartampluch/go-saju/internal/server"
	"github.com/tartampluch/go-saju/internal/wuxing"
)

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CmdRoot,
		Short:         "Four Pillars charts, fortune cycles and life curves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if c.setupLog != nil {
				c.logCloser = c.setupLog(c.stderr, c.debug)
			}
			logStartupInfo()
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	pf.StringVar(&c.lang, config.FlagLang, c.settings.Lang, config.FlagDescLang)

	root.AddCommand(
		newChartCmd(c),
		newDaeunCmd(c),
		newSaeunCmd(c),
		newCurveCmd(c),
		newCalendarCmd(c),
		newBatchCmd(c),
		newServeCmd(c),
		newVersionCmd(c),
	)
	return root
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			printVersion(c.stdout)
		},
	}
}

func newChartCmd(c *cli) *cobra.Command {
	var (
		birth  birthFlags
		asJSON bool
		output string
	)
	cmd := &cobra.Command{
		Use:   config.CmdChart,
		Short: "Compute the four pillars of a birth moment",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := birth.moment()
			if err != nil {
				return err
			}
			chart, err := engine.BuildChart(m, engine.WithoutCurve())
			if err != nil {
				return err
			}
			if asJSON {
				return c.writeJSON(output, chart)
			}
			return c.writeOutput(output, []byte(renderChart(c.translator(), chart)))
		},
	}
	birth.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	return cmd
}

func newDaeunCmd(c *cli) *cobra.Command {
	var (
		birth  birthFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   config.CmdDaeun,
		Short: "List the ten decade fortunes",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := birth.moment()
			if err != nil {
				return err
			}
			if err := m.RequireGender(); err != nil {
				return err
			}
			chart, err := engine.BuildChart(m, engine.WithoutCurve())
			if err != nil {
				return err
			}
			if asJSON {
				return c.writeJSON("", chart.Daeun)
			}
			tr := c.translator()
			var b strings.Builder
			for _, p := range chart.Daeun {
				fmt.Fprintf(&b, "%s (%s)\n", tr.DaeunSummary(p), tr.Direction(p.Direction))
			}
			return c.writeOutput("", []byte(b.String()))
		},
	}
	birth.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func newSaeunCmd(c *cli) *cobra.Command {
	var (
		from, to int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   config.CmdSaeun,
		Short: "List annual fortune pillars for a range of years",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			from, to := c.yearRange(from, to)
			if from < 1 || from > to {
				return fmt.Errorf("%s: %d..%d", config.ErrYearRange, from, to)
			}
			annuals := fortune.SaeunRange(from, to)
			if asJSON {
				return c.writeJSON("", annuals)
			}
			tr := c.translator()
			var b strings.Builder
			for _, a := range annuals {
				fmt.Fprintln(&b, tr.SaeunSummary(a))
			}
			return c.writeOutput("", []byte(b.String()))
		},
	}
	cmd.Flags().IntVar(&from, config.FlagFrom, 0, config.FlagDescFrom)
	cmd.Flags().IntVar(&to, config.FlagTo, 0, config.FlagDescTo)
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func newCurveCmd(c *cli) *cobra.Command {
	var (
		birth  birthFlags
		seed   int64
		jitter float64
		output string
	)
	cmd := &cobra.Command{
		Use:   config.CmdCurve,
		Short: "Generate the life curve as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := birth.moment()
			if err != nil {
				return err
			}
			if err := m.RequireGender(); err != nil {
				return err
			}
			var opts []engine.ChartOption
			if seed != 0 {
				opts = append(opts, engine.WithCurveOptions(
					lifecurve.WithJitter(rand.New(rand.NewSource(seed)), jitter)))
			}
			chart, err := engine.BuildChart(m, opts...)
			if err != nil {
				return err
			}
			return c.writeJSON(output, chart.Curve)
		},
	}
	birth.register(cmd, true)
	cmd.Flags().Int64Var(&seed, config.FlagSeed, 0, config.FlagDescSeed)
	cmd.Flags().Float64Var(&jitter, config.FlagJitter, config.DefaultCurveJitter, config.FlagDescJitter)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	return cmd
}

func newCalendarCmd(c *cli) *cobra.Command {
	var (
		birth    birthFlags
		from, to int
		reminder string
		output   string
	)
	cmd := &cobra.Command{
		Use:   config.CmdCalendar,
		Short: "Export annual and decade fortunes as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := birth.moment()
			if err != nil {
				return err
			}
			chart, err := engine.BuildChart(m, engine.WithoutCurve())
			if err != nil {
				return err
			}
			from, to := c.yearRange(from, to)
			exp := &engine.CalendarExporter{Clock: c.clock, Translator: c.translator()}
			data, err := exp.Export(chart, from, to, reminder)
			if err != nil {
				return err
			}
			return c.writeOutput(output, data)
		},
	}
	birth.register(cmd, true)
	addRangeFlags(cmd, &from, &to, &reminder)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	return cmd
}

func addRangeFlags(cmd *cobra.Command, from, to *int, reminder *string) {
	cmd.Flags().IntVar(from, config.FlagFrom, 0, config.FlagDescFrom)
	cmd.Flags().IntVar(to, config.FlagTo, 0, config.FlagDescTo)
	cmd.Flags().StringVar(reminder, config.FlagReminder, "", config.FlagDescReminder)
}

// sourceFlags select a vCard source for batch and serve.
type sourceFlags struct {
	url, user, pass string
	workers         int
}

func (s *sourceFlags) register(cmd *cobra.Command, defaultWorkers int) {
	f := cmd.Flags()
	f.StringVar(&s.url, config.FlagURL, "", config.FlagDescURL)
	f.StringVar(&s.user, config.FlagUser, "", config.FlagDescUser)
	f.StringVar(&s.pass, config.FlagPassword, "", config.FlagDescPassword)
	f.IntVar(&s.workers, config.FlagWorkers, defaultWorkers, config.FlagDescWorkers)
}

func (c *cli) runImport(ctx context.Context, path string, src sourceFlags) ([]engine.Entry, error) {
	im := &engine.Importer{
		Fetcher:      c.fetcher,
		Workers:      src.workers,
		ChartOptions: []engine.ChartOption{engine.WithoutCurve()},
	}
	return im.Run(ctx, engine.BatchConfig{
		LocalPath: path,
		WebURL:    src.url,
		WebUser:   src.user,
		WebPass:   password(src.user, src.pass),
	})
}

func newBatchCmd(c *cli) *cobra.Command {
	var (
		src      sourceFlags
		format   string
		from, to int
		reminder string
		output   string
	)
	cmd := &cobra.Command{
		Use:   config.CmdBatch + " [file.vcf]",
		Short: "Compute charts for every contact of a vCard file or URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != config.FormatJSON && format != config.FormatICS {
				return fmt.Errorf("%s: %q", config.ErrFormat, format)
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			entries, err := c.runImport(cmd.Context(), path, src)
			if err != nil {
				return err
			}
			if format == config.FormatJSON {
				return c.writeJSON(output, entries)
			}
			from, to := c.yearRange(from, to)
			exp := &engine.CalendarExporter{Clock: c.clock, Translator: c.translator()}
			data, err := exp.ExportAll(engine.Subjects(entries), from, to, reminder)
			if err != nil {
				return err
			}
			return c.writeOutput(output, data)
		},
	}
	src.register(cmd, c.settings.BatchWorkers)
	addRangeFlags(cmd, &from, &to, &reminder)
	cmd.Flags().StringVar(&format, config.FlagFormat, config.FormatJSON, config.FlagDescFormat)
	cmd.Flags().StringVarP(&output, config.FlagOutput, "o", "", config.FlagDescOutput)
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	var (
		birth    birthFlags
		src      sourceFlags
		file     string
		port     string
		reminder string
	)
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: "Serve the fortune calendar and chart API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			build := func(ctx context.Context) ([]byte, error) {
				var subjects []engine.Subject
				switch {
				case file != "" || src.url != "":
					entries, err := c.runImport(ctx, file, src)
					if err != nil {
						return nil, err
					}
					subjects = engine.Subjects(entries)
				case birth.set():
					m, err := birth.moment()
					if err != nil {
						return nil, err
					}
					chart, err := engine.BuildChart(m, engine.WithoutCurve())
					if err != nil {
						return nil, err
					}
					subjects = []engine.Subject{{Chart: chart}}
				}
				from, to := c.yearRange(0, 0)
				exp := &engine.CalendarExporter{Clock: c.clock, Translator: c.translator()}
				return exp.ExportAll(subjects, from, to, reminder)
			}

			// A bad feed source fails fast; later refreshes keep the last good copy.
			data, err := build(ctx)
			if err != nil {
				return err
			}
			srv := server.NewCalendarServer(port)
			srv.Update(data)

			go refreshFeed(ctx, srv, build, config.DefaultICalRefresh)
			return srv.Start(ctx)
		},
	}
	birth.register(cmd, false)
	src.register(cmd, c.settings.BatchWorkers)
	cmd.Flags().StringVar(&file, config.FlagFile, "", config.FlagDescFile)
	cmd.Flags().StringVar(&port, config.FlagPort, c.settings.Port, config.FlagDescPort)
	cmd.Flags().StringVar(&reminder, config.FlagReminder, "", config.FlagDescReminder)
	return cmd
}

// refreshFeed rebuilds the served calendar every interval so the projected
// year window follows the clock.
func refreshFeed(ctx context.Context, srv *server.CalendarServer, build func(context.Context) ([]byte, error), interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			slog.Info(config.MsgFeedRefresh, config.LogKeyComponent, config.CompMain)
			data, err := build(ctx)
			if err != nil {
				slog.Warn(config.MsgFeedFailed,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
				continue
			}
			srv.Update(data)
		}
	}
}

// renderChart formats a chart as plain text in the translator's language.
func renderChart(tr *locale.Translator, chart engine.Chart) string {
	var b strings.Builder

	names := make([]string, 0, 4)
	for _, p := range chart.Pillars.All() {
		names = append(names, tr.Pillar(p))
	}
	fmt.Fprintf(&b, "%s: %s (%s)\n", tr.Msg(config.TKeyLblPillars, nil), strings.Join(names, " "), chart.Pillars.FullText())

	parts := make([]string, 0, wuxing.ElementCount)
	for _, e := range wuxing.Elements {
		parts = append(parts, fmt.Sprintf("%s %d%%", tr.Element(e), chart.Balance.Of(e)))
	}
	fmt.Fprintf(&b, "%s: %s\n", tr.Msg(config.TKeyLblBalance, nil), strings.Join(parts, ", "))

	if len(chart.Daeun) > 0 {
		fmt.Fprintf(&b, "%s:\n", tr.Msg(config.TKeyLblDaeun, nil))
		for _, p := range chart.Daeun {
			fmt.Fprintf(&b, "  %s\n", tr.DaeunSummary(p))
		}
	}
	if chart.LowConfidence {
		fmt.Fprintf(&b, "! %s\n", tr.Msg(config.TKeyLblLowConf, nil))
	}
	return b.String()
}
