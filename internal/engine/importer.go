package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/pillar"
	"golang.org/x/sync/errgroup"
)

// kst is the zone birth times are expressed in.
var kst = time.FixedZone("KST", 9*60*60)

// defaultBirthHour is used when a BDAY carries no clock time.
const defaultBirthHour = 12

// BatchConfig selects the vCard source of a batch run. LocalPath wins over
// WebURL when both are set.
type BatchConfig struct {
	LocalPath string // Path to a .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Entry is one contact with a computed chart.
type Entry struct {
	Name string `json:"name"`
	// HourKnown is false when BDAY had no clock time; the hour pillar then
	// reflects noon and should not be trusted.
	HourKnown bool  `json:"hourKnown"`
	Chart     Chart `json:"chart"`
}

// Importer computes charts for every contact of a vCard stream.
type Importer struct {
	Fetcher VCardFetcher // Interface for network abstraction.
	Workers int          // Upper bound on charts computed in parallel.

	// ChartOptions are passed to every BuildChart call.
	ChartOptions []ChartOption
}

type pendingCard struct {
	name      string
	moment    pillar.BirthMoment
	hourKnown bool
}

// Run reads the configured source and returns one entry per contact whose
// birthday could be charted, in source order. Malformed cards, unusable
// dates and failed charts are logged and skipped.
func (im *Importer) Run(ctx context.Context, cfg BatchConfig) ([]Entry, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompImporter)
	source := cfg.LocalPath
	if source == "" {
		source = cfg.WebURL
	}
	log.InfoContext(ctx, config.MsgBatchStarted, config.LogKeySource, source)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	cards, total, err := readCards(ctx, reader)
	if err != nil {
		return nil, err
	}

	workers := config.ClampWorkers(im.Workers)
	results := make([]*Entry, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cards {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chart, err := BuildChart(c.moment, im.ChartOptions...)
			if err != nil {
				log.Warn(config.MsgSkippedChart,
					config.LogKeyName, c.name,
					config.LogKeyError, err,
				)
				return nil
			}
			results[i] = &Entry{Name: c.name, HourKnown: c.hourKnown, Chart: chart}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		if r != nil {
			entries = append(entries, *r)
		}
	}

	log.Info(config.MsgBatchDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, total),
			slog.Int(config.LogKeyFound, len(cards)),
			slog.Int(config.LogKeyCharts, len(entries)),
			slog.Int(config.LogKeyWorkers, workers),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return entries, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg BatchConfig) (io.ReadCloser, error) {
	switch {
	case cfg.LocalPath != "":
		return os.Open(cfg.LocalPath)
	case cfg.WebURL != "":
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, errors.New(config.ErrSourceEmpty)
	}
}

// readCards decodes the stream and keeps the cards with a usable birthday.
// It also returns the number of cards decoded.
func readCards(ctx context.Context, r io.Reader) ([]pendingCard, int, error) {
	decoder := vcard.NewDecoder(r)
	var cards []pendingCard
	total, failures := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, total, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery.
			// A reader that keeps failing would never reach EOF.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			failures++
			if failures >= config.MaxDecodeFailures {
				return nil, total, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			continue
		}
		failures = 0

		total++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := cardName(card)
		moment, hourKnown, err := parseBirth(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyName, name,
				config.LogKeyValue, bday.Value)
			continue
		}

		if g, ok := cardGender(card); ok {
			moment.Gender = g
		} else {
			slog.Debug(config.MsgNoGender,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyName, name)
		}

		cards = append(cards, pendingCard{name: name, moment: moment, hourKnown: hourKnown})
	}
	return cards, total, nil
}

// cardName prefers FN (Formatted) over N (Structured).
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

// cardGender maps the vCard 4 GENDER sex component onto a chart gender.
// Other, none and unknown have no fortune direction.
func cardGender(card vcard.Card) (pillar.Gender, bool) {
	if card.Get(config.VCardGender) == nil {
		return "", false
	}
	sex, _ := card.Gender()
	switch sex {
	case vcard.SexMale:
		return pillar.Male, true
	case vcard.SexFemale:
		return pillar.Female, true
	}
	return "", false
}

// parseBirth reads a vCard BDAY value into a birth moment in Korea Standard
// Time. Values with a zone are converted; values without a clock time get
// defaultBirthHour and hourKnown=false. Truncated dates without a year
// cannot be charted.
func parseBirth(value string) (m pillar.BirthMoment, hourKnown bool, err error) {
	zoned := []string{config.DateFormatRFC3339, config.DateFormatFullT}
	for _, f := range zoned {
		if t, err := time.Parse(f, value); err == nil {
			return momentOf(t.In(kst)), true, nil
		}
	}

	local := []string{
		config.DateFormatLocalT,
		config.DateFormatLocalHM,
		config.DateFormatBasicT,
		config.DateFormatBasicHM,
	}
	for _, f := range local {
		if t, err := time.ParseInLocation(f, value, kst); err == nil {
			return momentOf(t), true, nil
		}
	}

	for _, f := range []string{config.DateFormatFullDash, config.DateFormatFullBasic} {
		if t, err := time.ParseInLocation(f, value, kst); err == nil {
			m := momentOf(t)
			m.Hour = defaultBirthHour
			return m, false, nil
		}
	}

	return pillar.BirthMoment{}, false, errors.New(config.ErrDateParse)
}

func momentOf(t time.Time) pillar.BirthMoment {
	return pillar.BirthMoment{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// Subjects turns batch entries into calendar subjects.
func Subjects(entries []Entry) []Subject {
	out := make([]Subject, len(entries))
	for i, e := range entries {
		out[i] = Subject{Name: e.Name, Chart: e.Chart}
	}
	return out
}
