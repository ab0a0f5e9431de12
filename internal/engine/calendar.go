package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/locale"
	"github.com/tartampluch/go-saju/internal/pillar"
)

const (
	kindSaeun = "saeun"
	kindDaeun = "daeun"
)

// Subject is one person on a calendar. Name may be empty for a single chart.
type Subject struct {
	Name  string
	Chart Chart
}

// CalendarExporter renders fortune cycles as an iCalendar feed.
type CalendarExporter struct {
	Clock      Clock              // Interface for time mocking.
	Translator *locale.Translator // Event summaries; English when nil.
}

// Export renders one chart for the years [fromYear, toYear]. reminder is an
// ISO 8601 duration used as alarm trigger; empty disables alarms.
func (e *CalendarExporter) Export(chart Chart, fromYear, toYear int, reminder string) ([]byte, error) {
	return e.ExportAll([]Subject{{Chart: chart}}, fromYear, toYear, reminder)
}

// ExportAll renders several people into one calendar.
//
// Each subject gets an all-day annual-fortune event on the start of spring
// of every year they are alive in the range, and, when fortune cycles were
// computed, one decade-fortune event on the birthday anniversary at the
// start age of each window.
func (e *CalendarExporter) ExportAll(subjects []Subject, fromYear, toYear int, reminder string) ([]byte, error) {
	if fromYear < 1 || fromYear > toYear {
		return nil, fmt.Errorf("%s: %d..%d: %w", config.ErrYearRange, fromYear, toYear, pillar.ErrInvalidInput)
	}
	if reminder != "" {
		if err := validateTrigger(reminder); err != nil {
			return nil, err
		}
	}
	tr := e.Translator
	if tr == nil {
		tr = locale.New(config.DefaultLanguage)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, tr.Msg(config.TKeyCalName, nil))
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(e.Clock.Now().UTC())

	for _, s := range subjects {
		for _, ev := range createEvents(tr, s, fromYear, toYear, reminder) {
			ev.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	log := slog.With(config.LogKeyComponent, config.CompCalendar)

	// An empty VCALENDAR fails encoding; clients still expect a valid feed.
	if len(cal.Children) == 0 {
		log.Info(config.MsgGenSuccess, config.LogKeyEvents, 0)
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgGenSuccess,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeyFrom, fromYear,
		config.LogKeyTo, toYear,
	)
	return buf.Bytes(), nil
}

// createEvents builds the events of one subject. Nothing is generated for
// years before birth.
func createEvents(tr *locale.Translator, s Subject, fromYear, toYear int, reminder string) []*ical.Event {
	m := s.Chart.Moment
	uidBase := subjectUID(s)

	var events []*ical.Event
	for y := max(fromYear, m.Year); y <= toYear; y++ {
		summary := withName(s.Name, tr.SaeunSummary(fortune.Saeun(y)))
		date := time.Date(y, time.Month(pillar.SpringMonth), pillar.SpringDay, 0, 0, 0, 0, time.UTC)
		events = append(events, newEvent(uidBase, kindSaeun, y, config.CategorySaeun, summary, date, reminder))
	}

	if !s.Chart.HasFortune() {
		return events
	}
	for _, p := range s.Chart.Daeun {
		y := m.Year + p.StartAge
		if y < fromYear || y > toYear {
			continue
		}
		summary := withName(s.Name, tr.DaeunSummary(p))
		// time.Date moves Feb 29 to Mar 1 in common years.
		date := time.Date(y, time.Month(m.Month), m.Day, 0, 0, 0, 0, time.UTC)
		events = append(events, newEvent(uidBase, kindDaeun, y, config.CategoryDaeun, summary, date, reminder))
	}
	return events
}

func newEvent(uidBase, kind string, year int, category, summary string, date time.Time, reminder string) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, kind, year, config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, category)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(date)
	event.Props.Set(dtStartProp)

	if reminder != "" {
		addAlarm(event, reminder, summary)
	}
	return event
}

// subjectUID is stable across runs for the same person and birth moment.
func subjectUID(s Subject) string {
	m := s.Chart.Moment
	birth := fmt.Sprintf("%sT%02d:%02d", dateKey(m), m.Hour, m.Minute)
	input := fmt.Sprintf(config.FormatHashInput, s.Name, birth, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

func withName(name, summary string) string {
	if name == "" {
		return summary
	}
	return name + ": " + summary
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// validateTrigger rejects reminder values that are not ISO 8601 durations.
func validateTrigger(trigger string) error {
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = trigger
	if _, err := prop.Duration(); err != nil {
		return fmt.Errorf("%w: reminder %q is not an ISO 8601 duration: %v", pillar.ErrInvalidInput, trigger, err)
	}
	return nil
}
