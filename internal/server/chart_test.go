package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-saju/internal/config"
)

func getChart(t *testing.T, query string, header map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	srv := NewCalendarServer("0")
	req := httptest.NewRequest(http.MethodGet, config.RouteChart+"?"+query, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestChart_OK(t *testing.T) {
	w, body := getChart(t, "year=1971&month=11&day=17&hour=4&gender=M", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MimeJSON, w.Header().Get(config.HeaderContentType))

	chart := body["chart"].(map[string]any)
	assert.Equal(t, "신해 기해 병오 경인", chart["pillars"].(map[string]any)["fullText"])
	assert.Len(t, chart["daeun"], 10)
	assert.Len(t, chart["curve"], 5)

	loc := body["localized"].(map[string]any)
	assert.Equal(t, "en", loc["lang"])
	assert.Equal(t, []any{"Sin-Hae", "Gi-Hae", "Byeong-O", "Gyeong-In"}, loc["pillars"])
	assert.Equal(t, "Fire", loc["dayMaster"])
	assert.Equal(t, float64(25), loc["balance"].(map[string]any)["Metal"])
	assert.Equal(t, "Decade fortune 0-9: Mu-Sul", loc["daeun"].([]any)[0])
	assert.NotContains(t, loc, "notes")
}

func TestChart_Language(t *testing.T) {
	_, body := getChart(t, "year=1971&month=11&day=17&hour=4&lang=ko", nil)
	loc := body["localized"].(map[string]any)
	assert.Equal(t, "ko", loc["lang"])
	assert.Equal(t, "병오", loc["pillars"].([]any)[2])

	_, body = getChart(t, "year=1971&month=11&day=17&hour=4", map[string]string{config.HeaderAcceptLanguage: "ko-KR,ko;q=0.9"})
	assert.Equal(t, "ko", body["localized"].(map[string]any)["lang"])
}

func TestChart_GenderOptional(t *testing.T) {
	w, body := getChart(t, "year=1971&month=11&day=17&hour=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chart := body["chart"].(map[string]any)
	assert.Equal(t, "신해 기해 병오 경인", chart["pillars"].(map[string]any)["fullText"])
	assert.NotContains(t, chart, "daeun")
	assert.NotContains(t, chart, "curve")

	w, body = getChart(t, "year=1971&month=11&day=17&hour=4&gender=unknown", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, body, "chart")
}

func TestChart_LowConfidenceNote(t *testing.T) {
	w, body := getChart(t, "year=2024&month=2&day=4&hour=12", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["chart"].(map[string]any)["lowConfidence"])
	assert.Len(t, body["localized"].(map[string]any)["notes"], 1)
}

func TestChart_DSTOverride(t *testing.T) {
	_, auto := getChart(t, "year=1987&month=7&day=1&hour=11&minute=30", nil)
	_, off := getChart(t, "year=1987&month=7&day=1&hour=11&minute=30&dst=off", nil)

	clock := func(b map[string]any) map[string]any { return b["chart"].(map[string]any)["clock"].(map[string]any) }
	assert.Equal(t, true, clock(auto)["applied"])
	assert.Equal(t, float64(10), clock(auto)["hour"])
	assert.Equal(t, false, clock(off)["applied"])
	assert.Equal(t, float64(11), clock(off)["hour"])
}

func TestChart_BadRequest(t *testing.T) {
	tests := map[string]string{
		"missing day":    "year=1971&month=11",
		"not a number":   "year=abc&month=11&day=17",
		"month 13":       "year=1971&month=13&day=1",
		"impossible day": "year=2023&month=2&day=29",
		"gender":         "year=1971&month=11&day=17&gender=x",
		"lunar":          "year=1971&month=11&day=17&lunar=maybe",
		"dst":            "year=1971&month=11&day=17&dst=sometimes",
		"hour":           "year=1971&month=11&day=17&hour=25",
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			w, body := getChart(t, q, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, body["error"], "invalid input")
		})
	}
}

func TestHealth(t *testing.T) {
	srv := NewCalendarServer("0")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteHealth, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
