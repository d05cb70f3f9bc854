package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"gram-gold-watch/internal/history"
	"gram-gold-watch/internal/news"
	"gram-gold-watch/internal/quote"
	"gram-gold-watch/internal/service"
)

type fakeMetrics struct {
	lastRange string
	response  service.Metrics
}

func (f *fakeMetrics) Metrics(ctx context.Context, rangeKey string) service.Metrics {
	f.lastRange = rangeKey
	return f.response
}

type fakeHeadlines struct {
	payload news.Payload
}

func (f *fakeHeadlines) Get(ctx context.Context) news.Payload {
	return f.payload
}

func testEngine(metrics *fakeMetrics, headlines *fakeHeadlines) http.Handler {
	return NewEngine(NewHandler(metrics, headlines, zerolog.Nop()))
}

func TestGetMetricsDefaultsToDaily(t *testing.T) {
	metrics := &fakeMetrics{response: service.Metrics{
		Local:    service.Local{Status: quote.StatusLive},
		Global:   service.Global{History: history.NewHistory()},
		Analysis: service.Analysis{Signal: service.SignalTradeAcceptable},
	}}
	engine := testEngine(metrics, &fakeHeadlines{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if metrics.lastRange != "daily" {
		t.Fatalf("missing range should default to daily, got %q", metrics.lastRange)
	}

	var body struct {
		Local struct {
			Status string `json:"status"`
		} `json:"local"`
		Analysis struct {
			Signal string `json:"signal"`
		} `json:"analysis"`
		Global struct {
			History struct {
				Dates []string `json:"dates"`
			} `json:"history"`
		} `json:"global"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Local.Status != "live" {
		t.Fatalf("unexpected local status %q", body.Local.Status)
	}
	if body.Analysis.Signal != service.SignalTradeAcceptable {
		t.Fatalf("unexpected signal %q", body.Analysis.Signal)
	}
	if body.Global.History.Dates == nil {
		t.Fatal("history arrays must serialize as empty lists, not null")
	}
}

func TestGetMetricsPassesRangeKey(t *testing.T) {
	metrics := &fakeMetrics{response: service.Metrics{Global: service.Global{History: history.NewHistory()}}}
	engine := testEngine(metrics, &fakeHeadlines{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics?range=weekly", nil))

	if metrics.lastRange != "weekly" {
		t.Fatalf("expected weekly, got %q", metrics.lastRange)
	}
}

func TestGetNewsServesCachedPayload(t *testing.T) {
	headlines := &fakeHeadlines{payload: news.Payload{
		Status:        "live",
		National:      []news.Item{{Title: "başlık"}},
		International: []news.Item{},
		UpdatedAt:     "10:00:00",
	}}
	engine := testEngine(&fakeMetrics{}, headlines)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var payload news.Payload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "live" || len(payload.National) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	engine := testEngine(&fakeMetrics{}, &fakeHeadlines{})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
