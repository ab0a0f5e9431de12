package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tartampluch/go-saju/internal/config"
	"github.com/tartampluch/go-saju/internal/engine"
	"github.com/tartampluch/go-saju/internal/locale"
	"github.com/tartampluch/go-saju/internal/pillar"
	"github.com/tartampluch/go-saju/internal/wuxing"
)

// chartResponse pairs the raw chart with display strings in the requested
// language.
type chartResponse struct {
	Chart     engine.Chart `json:"chart"`
	Localized localized    `json:"localized"`
}

type localized struct {
	Lang      string            `json:"lang"`
	Pillars   []string          `json:"pillars"`
	DayMaster string            `json:"dayMaster"`
	Balance   map[string]int    `json:"balance"`
	Daeun     []string          `json:"daeun,omitempty"`
	Notes     []string          `json:"notes,omitempty"`
	Labels    map[string]string `json:"labels"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleChartRequest computes a chart from query parameters.
func (s *CalendarServer) handleChartRequest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	m, err := momentFromQuery(q)
	if err == nil {
		var chart engine.Chart
		chart, err = engine.BuildChart(m)
		if err == nil {
			lang := q.Get(config.QueryLang)
			if lang == "" {
				lang = r.Header.Get(config.HeaderAcceptLanguage)
			}
			writeJSON(w, http.StatusOK, chartResponse{Chart: chart, Localized: localize(locale.New(lang), chart)})
			return
		}
	}

	status := http.StatusInternalServerError
	if errors.Is(err, pillar.ErrInvalidInput) {
		status = http.StatusBadRequest
	}
	slog.Debug(config.MsgBadRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyStatus, status,
		config.LogKeyError, err,
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// momentFromQuery reads year, month and day (required) plus the optional
// hour, minute, gender, lunar and dst parameters.
func momentFromQuery(q url.Values) (pillar.BirthMoment, error) {
	var m pillar.BirthMoment
	var errs []error

	intParam := func(key string, dst *int, required bool) {
		v := q.Get(key)
		if v == "" {
			if required {
				errs = append(errs, &pillar.InputError{Field: key, Reason: "is required"})
			}
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, &pillar.InputError{Field: key, Reason: "must be an integer"})
			return
		}
		*dst = n
	}
	intParam(config.QueryYear, &m.Year, true)
	intParam(config.QueryMonth, &m.Month, true)
	intParam(config.QueryDay, &m.Day, true)
	intParam(config.QueryHour, &m.Hour, false)
	intParam(config.QueryMinute, &m.Minute, false)

	if v := q.Get(config.QueryGender); v != "" {
		g, err := pillar.ParseGender(v)
		if err != nil {
			errs = append(errs, err)
		}
		m.Gender = g
	}
	if v := q.Get(config.QueryLunar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, &pillar.InputError{Field: config.QueryLunar, Reason: "must be a boolean"})
		}
		m.IsLunar = b
	}
	override, err := engine.ParseDSTMode(q.Get(config.QueryDST))
	if err != nil {
		errs = append(errs, err)
	}
	m.DSTOverride = override

	return m, errors.Join(errs...)
}

func localize(tr *locale.Translator, c engine.Chart) localized {
	out := localized{
		Lang:      tr.Lang(),
		DayMaster: tr.Element(c.DayMaster),
		Balance:   make(map[string]int, len(c.Balance)),
		Labels: map[string]string{
			"pillars": tr.Msg(config.TKeyLblPillars, nil),
			"balance": tr.Msg(config.TKeyLblBalance, nil),
			"daeun":   tr.Msg(config.TKeyLblDaeun, nil),
		},
	}
	for _, p := range c.Pillars.All() {
		out.Pillars = append(out.Pillars, tr.Pillar(p))
	}
	for e, pct := range c.Balance {
		out.Balance[tr.Element(wuxing.Element(e))] = pct
	}
	for _, p := range c.Daeun {
		out.Daeun = append(out.Daeun, tr.DaeunSummary(p))
	}
	if c.LowConfidence {
		out.Notes = append(out.Notes, tr.Msg(config.TKeyLblLowConf, nil))
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
