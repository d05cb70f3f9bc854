package arblog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gram-gold-watch/internal/quote"
)

// timestampLayout is the row timestamp format of the persisted log.
const timestampLayout = "2006-01-02 15:04:05"

var header = []string{"timestamp", "retail_bid", "retail_ask", "reference_bid", "reference_ask", "spread"}

// Record is one persisted arbitrage sample. Rows are append-only and never
// rewritten.
type Record struct {
	Timestamp    time.Time
	RetailBid    decimal.Decimal
	RetailAsk    decimal.Decimal
	ReferenceBid decimal.Decimal
	ReferenceAsk decimal.Decimal
	Spread       decimal.Decimal
}

// Log is the append-only persisted arbitrage log. Writes are rate-limited
// to one row per interval; the last-write timestamp is process state,
// lazily seeded from the file's last row. The whole check-and-append
// sequence runs under one lock so concurrent requests cannot both pass the
// rate-limit check.
type Log struct {
	path     string
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time

	mu          sync.Mutex
	lastWrite   time.Time
	initialized bool
}

// NewLog constructs the log around its backing file.
func NewLog(path string, interval time.Duration, logger zerolog.Logger) *Log {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Log{
		path:     path,
		interval: interval,
		logger:   logger.With().Str("component", "arbitrage_log").Logger(),
		now:      time.Now,
	}
}

// Record appends one sample derived from a live snapshot. Offline
// snapshots are never logged; calls inside the rate-limit interval are
// silently skipped.
func (l *Log) Record(snap quote.Snapshot) error {
	if !snap.Live() {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureFile(); err != nil {
		return err
	}

	if !l.initialized {
		l.lastWrite = l.lastRowTimestamp()
		l.initialized = true
	}

	now := l.now()
	if now.Sub(l.lastWrite) < l.interval {
		return nil
	}

	spread := snap.Reference.Ask.Sub(snap.Retail.Bid).Round(2)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open arbitrage log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	row := []string{
		now.Format(timestampLayout),
		snap.Retail.Bid.StringFixed(2),
		snap.Retail.Ask.StringFixed(2),
		snap.Reference.Bid.StringFixed(2),
		snap.Reference.Ask.StringFixed(2),
		spread.StringFixed(2),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("append arbitrage row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush arbitrage row: %w", err)
	}

	l.lastWrite = now
	l.logger.Debug().Str("spread", spread.StringFixed(2)).Msg("arbitrage sample recorded")
	return nil
}

func (l *Log) ensureFile() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}

	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("create arbitrage log: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write log header: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// lastRowTimestamp seeds the rate limiter from the persisted file. Any
// read or parse problem counts as "never written".
func (l *Log) lastRowTimestamp() time.Time {
	records, err := l.Records()
	if err != nil || len(records) == 0 {
		return time.Time{}
	}
	return records[len(records)-1].Timestamp
}

// Records loads every parseable row, sorted by ascending timestamp.
// Unreadable rows are skipped rather than failing the read.
func (l *Log) Records() ([]Record, error) {
	file, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read arbitrage log: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 6 {
			continue
		}
		record, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func parseRow(row []string) (Record, bool) {
	ts, err := time.ParseInLocation(timestampLayout, row[0], time.Local)
	if err != nil {
		return Record{}, false
	}

	values := make([]decimal.Decimal, 5)
	for i := 0; i < 5; i++ {
		value, err := decimal.NewFromString(row[i+1])
		if err != nil {
			return Record{}, false
		}
		values[i] = value
	}

	return Record{
		Timestamp:    ts,
		RetailBid:    values[0],
		RetailAsk:    values[1],
		ReferenceBid: values[2],
		ReferenceAsk: values[3],
		Spread:       values[4],
	}, true
}
