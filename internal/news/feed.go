package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/mail"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Item is one headline entry.
type Item struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Published string `json:"published"`
	TitleTR   string `json:"title_tr,omitempty"`
}

// Payload is the full headline response served to clients.
type Payload struct {
	Status        string `json:"status"`
	National      []Item `json:"national"`
	International []Item `json:"international"`
	UpdatedAt     string `json:"updated_at"`
}

// FeedOptions parameterise the headline feed client.
type FeedOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// FeedFetcher retrieves dated headline items per query/locale pair.
type FeedFetcher struct {
	opts    FeedOptions
	client  *resty.Client
	logger  zerolog.Logger
	baseURL string
}

// NewFeedFetcher constructs the headline feed client.
func NewFeedFetcher(opts FeedOptions, logger zerolog.Logger) *FeedFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &FeedFetcher{
		opts:    opts,
		client:  client,
		logger:  logger.With().Str("component", "news_feed").Logger(),
		baseURL: opts.BaseURL,
	}
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	Source  string `xml:"source"`
	PubDate string `xml:"pubDate"`
}

// Fetch retrieves up to limit items for one query/locale pair.
func (f *FeedFetcher) Fetch(ctx context.Context, query, hl, gl, ceid string, limit int) ([]Item, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    query,
			"hl":   hl,
			"gl":   gl,
			"ceid": ceid,
		}).
		Get(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode())
	}

	var doc rssDocument
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]Item, 0, limit)
	for _, entry := range doc.Channel.Items {
		if limit > 0 && len(items) >= limit {
			break
		}
		items = append(items, Item{
			Title:     entry.Title,
			Link:      entry.Link,
			Source:    entry.Source,
			Published: formatPubDate(entry.PubDate),
		})
	}
	return items, nil
}

// formatPubDate reformats an RFC1123-style pubDate to a compact label,
// leaving the raw text in place when it does not parse.
func formatPubDate(pubDate string) string {
	if pubDate == "" {
		return ""
	}
	parsed, err := mail.ParseDate(pubDate)
	if err != nil {
		return pubDate
	}
	return parsed.Format("02 Jan 15:04")
}
