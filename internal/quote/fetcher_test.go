package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func venueServer(t *testing.T, bid, ask string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><span data-socket-attr="bid">` + bid +
			`</span><span data-socket-attr="ask">` + ask + `</span></html>`))
	}))
}

func TestFetchBothVenuesLive(t *testing.T) {
	retail := venueServer(t, "2.900,00", "2.990,00")
	defer retail.Close()
	reference := venueServer(t, "2.950,00", "2.960,00")
	defer reference.Close()

	f := NewFetcher(FetcherOptions{
		RetailURL:    retail.URL,
		ReferenceURL: reference.URL,
		Timeout:      time.Second,
	}, noopLogger())

	snap := f.Fetch(context.Background())
	if !snap.Live() {
		t.Fatalf("expected live snapshot, got status %s", snap.Status)
	}
	if snap.Retail.Bid.String() != "2900" || snap.Retail.Ask.String() != "2990" {
		t.Fatalf("unexpected retail quote: %s/%s", snap.Retail.Bid, snap.Retail.Ask)
	}
	if snap.Reference.Bid.String() != "2950" || snap.Reference.Ask.String() != "2960" {
		t.Fatalf("unexpected reference quote: %s/%s", snap.Reference.Bid, snap.Reference.Ask)
	}
}

func TestFetchReferenceFailureDiscardsRetailSuccess(t *testing.T) {
	retail := venueServer(t, "2.900,00", "2.990,00")
	defer retail.Close()
	reference := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer reference.Close()

	f := NewFetcher(FetcherOptions{
		RetailURL:    retail.URL,
		ReferenceURL: reference.URL,
		Timeout:      time.Second,
	}, noopLogger())

	snap := f.Fetch(context.Background())
	if snap.Status != StatusOffline {
		t.Fatalf("expected offline status, got %s", snap.Status)
	}

	want := FallbackSnapshot()
	if !snap.Retail.Bid.Equal(want.Retail.Bid) || !snap.Retail.Ask.Equal(want.Retail.Ask) {
		t.Fatalf("partial retail success must be replaced by the fallback pair, got %s/%s",
			snap.Retail.Bid, snap.Retail.Ask)
	}
	if !snap.Reference.Bid.Equal(want.Reference.Bid) || !snap.Reference.Ask.Equal(want.Reference.Ask) {
		t.Fatalf("unexpected reference fallback: %s/%s", snap.Reference.Bid, snap.Reference.Ask)
	}
}

func TestFetchExtractionMissKeepsZeros(t *testing.T) {
	retail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><p>no quote spans here</p></html>`))
	}))
	defer retail.Close()
	reference := venueServer(t, "2.950,00", "2.960,00")
	defer reference.Close()

	f := NewFetcher(FetcherOptions{
		RetailURL:    retail.URL,
		ReferenceURL: reference.URL,
		Timeout:      time.Second,
	}, noopLogger())

	snap := f.Fetch(context.Background())
	if !snap.Live() {
		t.Fatalf("extraction miss is not a hard failure, got status %s", snap.Status)
	}
	if !snap.Retail.Bid.IsZero() || !snap.Retail.Ask.IsZero() {
		t.Fatalf("retail fields should remain zero on extraction miss, got %s/%s",
			snap.Retail.Bid, snap.Retail.Ask)
	}
}

func TestFetchTimeoutYieldsFallback(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	f := NewFetcher(FetcherOptions{
		RetailURL:    slow.URL,
		ReferenceURL: slow.URL,
		Timeout:      50 * time.Millisecond,
	}, noopLogger())

	snap := f.Fetch(context.Background())
	if snap.Status != StatusOffline {
		t.Fatalf("expected offline on timeout, got %s", snap.Status)
	}
}
