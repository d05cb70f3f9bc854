package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"gram-gold-watch/internal/arblog"
)

// Export renders the arbitrage log as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	records, err := a.newArbLog().Records()
	if err != nil {
		return err
	}

	records = filterWindow(records, opts.From, opts.To)
	if len(records) == 0 {
		a.Logger.Info().Msg("no records found for export window")
		return nil
	}

	downsampled := downsampleRecords(records, opts.MaxPoints)
	a.Logger.Info().Int("total", len(records)).Int("exported", len(downsampled)).Msg("exporting records")

	if opts.CSVPath != "" {
		if err := writeRecordsCSV(opts.CSVPath, downsampled); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeRecordsPNG(opts.PNGPath, downsampled); err != nil {
			return err
		}
	}

	return nil
}

func filterWindow(records []arblog.Record, from, to *time.Time) []arblog.Record {
	if from == nil && to == nil {
		return records
	}
	out := make([]arblog.Record, 0, len(records))
	for _, record := range records {
		if from != nil && record.Timestamp.Before(*from) {
			continue
		}
		if to != nil && record.Timestamp.After(*to) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func downsampleRecords(records []arblog.Record, max int) []arblog.Record {
	if max <= 0 || len(records) <= max {
		return records
	}

	result := make([]arblog.Record, 0, max)
	step := float64(len(records)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(records) {
			idx = len(records) - 1
		}
		result = append(result, records[idx])
	}
	return result
}

func writeRecordsCSV(path string, records []arblog.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"timestamp", "retail_bid", "retail_ask", "reference_bid", "reference_ask", "spread"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, record := range records {
		row := []string{
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.RetailBid.StringFixed(2),
			record.RetailAsk.StringFixed(2),
			record.ReferenceBid.StringFixed(2),
			record.ReferenceAsk.StringFixed(2),
			record.Spread.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeRecordsPNG(path string, records []arblog.Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(records))
	retailBid := make([]float64, len(records))
	referenceAsk := make([]float64, len(records))
	spread := make([]float64, len(records))

	for i, record := range records {
		x[i] = record.Timestamp
		retailBid[i] = record.RetailBid.InexactFloat64()
		referenceAsk[i] = record.ReferenceAsk.InexactFloat64()
		spread[i] = record.Spread.InexactFloat64()
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price (TRY/g)",
			ValueFormatter: priceFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Spread (TRY)",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Retail Bid",
				XValues: x,
				YValues: retailBid,
			},
			chart.TimeSeries{
				Name:    "Reference Ask",
				XValues: x,
				YValues: referenceAsk,
			},
			chart.TimeSeries{
				Name:    "Spread",
				XValues: x,
				YValues: spread,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
