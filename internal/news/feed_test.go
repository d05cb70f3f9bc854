package news

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

const feedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item>
  <title>Gold climbs on rate cut bets</title>
  <link>https://example.com/a</link>
  <source url="https://example.com">Example Wire</source>
  <pubDate>Mon, 02 Jun 2025 09:30:00 GMT</pubDate>
</item>
<item>
  <title>Bullion steady</title>
  <link>https://example.com/b</link>
</item>
<item>
  <title>Third headline</title>
  <link>https://example.com/c</link>
</item>
</channel></rss>`

func TestFeedFetchParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Fatal("query parameter missing")
		}
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	f := NewFeedFetcher(FeedOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	items, err := f.Fetch(context.Background(), "gold", "en", "US", "US:en", 6)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Title != "Gold climbs on rate cut bets" {
		t.Fatalf("unexpected title: %s", items[0].Title)
	}
	if items[0].Published != "02 Jun 09:30" {
		t.Fatalf("pubDate should be reformatted, got %q", items[0].Published)
	}
	if items[1].Source != "" || items[1].Published != "" {
		t.Fatal("missing elements should yield empty fields")
	}
}

func TestFeedFetchHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	f := NewFeedFetcher(FeedOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	items, err := f.Fetch(context.Background(), "gold", "en", "US", "US:en", 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected limit of 2 items, got %d", len(items))
	}
}

func TestFeedFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFeedFetcher(FeedOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.Fetch(context.Background(), "gold", "en", "US", "US:en", 6); err == nil {
		t.Fatal("non-2xx should return an error")
	}
}

func TestFormatPubDateUnparseable(t *testing.T) {
	if got := formatPubDate("yesterday-ish"); got != "yesterday-ish" {
		t.Fatalf("unparseable pubDate should pass through, got %q", got)
	}
	if got := formatPubDate(""); got != "" {
		t.Fatalf("empty pubDate should stay empty, got %q", got)
	}
}
