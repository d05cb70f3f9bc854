package news

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// TranslatorOptions parameterise the translation collaborator.
type TranslatorOptions struct {
	BaseURL    string
	Timeout    time.Duration
	TargetLang string
}

// Translator memoizes translations keyed by exact source text for the
// process lifetime. Failures memoize an empty string so a broken upstream
// is asked about each text at most once.
type Translator struct {
	opts   TranslatorOptions
	client *resty.Client
	logger zerolog.Logger

	mu   sync.Mutex
	memo map[string]string
}

// NewTranslator constructs the translator.
func NewTranslator(opts TranslatorOptions, logger zerolog.Logger) *Translator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	if opts.TargetLang == "" {
		opts.TargetLang = "tr"
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return &Translator{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "translator").Logger(),
		memo:   make(map[string]string),
	}
}

// Translate returns the target-language rendering of text, or an empty
// string when the upstream call fails. Results are cached forever within
// the process.
func (t *Translator) Translate(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}

	t.mu.Lock()
	if cached, ok := t.memo[text]; ok {
		t.mu.Unlock()
		return cached
	}
	t.mu.Unlock()

	translated := t.fetch(ctx, text)

	t.mu.Lock()
	t.memo[text] = translated
	t.mu.Unlock()
	return translated
}

func (t *Translator) fetch(ctx context.Context, text string) string {
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     "auto",
			"tl":     t.opts.TargetLang,
			"dt":     "t",
			"q":      text,
		}).
		Get(t.opts.BaseURL)
	if err != nil {
		t.logger.Debug().Err(err).Msg("translation request failed")
		return ""
	}
	if resp.IsError() {
		t.logger.Debug().Int("status", resp.StatusCode()).Msg("translation request rejected")
		return ""
	}

	return parseSegments(resp.Body())
}

// parseSegments joins the first element of every segment in the provider's
// nested-array payload.
func parseSegments(body []byte) string {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil || len(outer) == 0 {
		return ""
	}

	var segments [][]any
	if err := json.Unmarshal(outer[0], &segments); err != nil {
		return ""
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if text, ok := segment[0].(string); ok {
			builder.WriteString(text)
		}
	}
	return builder.String()
}
