package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Show prints recent arbitrage log rows.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	records, err := a.newArbLog().Records()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no records found")
		return nil
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[len(records)-opts.Limit:]
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time\tRetail Bid\tRetail Ask\tReference Bid\tReference Ask\tSpread")

	for _, record := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.RetailBid.StringFixed(2),
			record.RetailAsk.StringFixed(2),
			record.ReferenceBid.StringFixed(2),
			record.ReferenceAsk.StringFixed(2),
			record.Spread.StringFixed(2),
		)
	}

	writer.Flush()
	return nil
}
