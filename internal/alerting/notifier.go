package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notification carries the alert context for one arbitrage sample.
type Notification struct {
	Timestamp    time.Time
	RetailBid    decimal.Decimal
	RetailAsk    decimal.Decimal
	ReferenceBid decimal.Decimal
	ReferenceAsk decimal.Decimal
	Margin       decimal.Decimal
	MarginPct    decimal.Decimal
	ThresholdPct decimal.Decimal
}

// Notifier delivers arbitrage alerts.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes alert messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *resty.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs the Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	client := resty.New()
	client.SetTimeout(timeout)

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify posts the rendered alert via the sendMessage endpoint.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	var result struct {
		OK bool `json:"ok"`
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": n.chatID,
			"text":    renderMessage(note),
		}).
		SetResult(&result).
		Post(url)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode())
	}
	if !result.OK {
		return fmt.Errorf("telegram returned ok=false")
	}

	n.logger.Info().Time("timestamp", note.Timestamp).
		Str("margin_pct", note.MarginPct.StringFixed(2)).
		Msg("alert sent (telegram)")
	return nil
}

func renderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString("[Gram Gold Arbitrage Alert]\n")
	builder.WriteString(fmt.Sprintf("Time: %s\n", note.Timestamp.Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("Retail: %s / %s\n", note.RetailBid.StringFixed(2), note.RetailAsk.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Reference: %s / %s\n", note.ReferenceBid.StringFixed(2), note.ReferenceAsk.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Margin: %s (%s%%, threshold %s%%)\n", note.Margin.StringFixed(2), note.MarginPct.StringFixed(2), note.ThresholdPct.StringFixed(2)))
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
