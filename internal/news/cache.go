package news

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Service assembles the full headline payload: national and international
// queries plus translated international titles.
type Service struct {
	feed       *FeedFetcher
	translator *Translator
	limit      int
	logger     zerolog.Logger
}

// NewService constructs the headline service.
func NewService(feed *FeedFetcher, translator *Translator, limit int, logger zerolog.Logger) *Service {
	if limit <= 0 {
		limit = 6
	}
	return &Service{
		feed:       feed,
		translator: translator,
		limit:      limit,
		logger:     logger.With().Str("component", "news_service").Logger(),
	}
}

// Refresh fetches both feeds and translates international titles. The
// error signals the caller to keep serving its previous payload.
func (s *Service) Refresh(ctx context.Context) (Payload, error) {
	payload := Payload{
		Status:        "live",
		National:      []Item{},
		International: []Item{},
	}

	national, err := s.feed.Fetch(ctx, "altın fiyatı OR gram altın OR ons altın", "tr", "TR", "TR:tr", s.limit)
	if err != nil {
		return Payload{}, err
	}
	payload.National = national

	international, err := s.feed.Fetch(ctx, "gold price OR bullion OR XAU", "en", "US", "US:en", s.limit)
	if err != nil {
		return Payload{}, err
	}
	for i := range international {
		translated := s.translator.Translate(ctx, international[i].Title)
		if translated != "" && translated != international[i].Title {
			international[i].TitleTR = translated
		}
	}
	payload.International = international

	payload.UpdatedAt = time.Now().Format("15:04:05")
	return payload, nil
}

// Refresher produces a fresh payload on cache misses.
type Refresher interface {
	Refresh(ctx context.Context) (Payload, error)
}

// Cache is the single-slot TTL cache in front of the headline service.
// The read-check-write sequence is guarded so concurrent misses trigger
// exactly one upstream refresh; its lifetime is the process lifetime.
type Cache struct {
	refresher Refresher
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	storedAt time.Time
	payload  Payload
	primed   bool
}

// NewCache constructs the cache.
func NewCache(refresher Refresher, ttl time.Duration, logger zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		refresher: refresher,
		ttl:       ttl,
		logger:    logger.With().Str("component", "news_cache").Logger(),
		now:       time.Now,
		payload: Payload{
			Status:        "offline",
			National:      []Item{},
			International: []Item{},
		},
	}
}

// Get returns the cached payload, refreshing it when the TTL has lapsed.
// A failed refresh re-serves the previous payload flagged offline; either
// way the slot's timestamp advances so the upstream is not hammered.
func (c *Cache) Get(ctx context.Context) Payload {
	c.mu.Lock()
	if c.primed && c.now().Sub(c.storedAt) < c.ttl {
		payload := c.payload
		c.mu.Unlock()
		return payload
	}
	c.mu.Unlock()

	result, _, _ := c.group.Do("news", func() (any, error) {
		c.mu.Lock()
		if c.primed && c.now().Sub(c.storedAt) < c.ttl {
			payload := c.payload
			c.mu.Unlock()
			return payload, nil
		}
		c.mu.Unlock()

		payload, err := c.refresher.Refresh(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("headline refresh failed, keeping previous payload")
			c.mu.Lock()
			payload = c.payload
			payload.Status = "offline"
			c.payload = payload
			c.storedAt = c.now()
			c.primed = true
			c.mu.Unlock()
			return payload, nil
		}

		c.mu.Lock()
		c.payload = payload
		c.storedAt = c.now()
		c.primed = true
		c.mu.Unlock()
		return payload, nil
	})

	return result.(Payload)
}
