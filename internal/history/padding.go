package history

import "time"

// PadToNow guarantees the last sample represents the current moment: when
// the final date label differs from "now" formatted with the same layout,
// the now-label is appended and every non-empty value array carries its
// last value forward. The result is then front-trimmed to maxPoints.
// Calling it twice within one label period is a no-op the second time.
func PadToNow(dates []string, values [][]float64, layout string, maxPoints int, now time.Time) ([]string, [][]float64) {
	if len(dates) > 0 {
		nowLabel := now.Format(layout)
		if dates[len(dates)-1] != nowLabel {
			dates = append(dates, nowLabel)
			for i, column := range values {
				if len(column) == 0 {
					continue
				}
				values[i] = append(column, column[len(column)-1])
			}
		}
	}

	if maxPoints > 0 && len(dates) > maxPoints {
		cut := len(dates) - maxPoints
		dates = dates[cut:]
		for i, column := range values {
			if len(column) > maxPoints {
				values[i] = column[len(column)-maxPoints:]
			}
		}
	}

	return dates, values
}
