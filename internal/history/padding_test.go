package history

import (
	"testing"
	"time"
)

func TestPadToNowAppendsCarriedForwardPoint(t *testing.T) {
	now := time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	dates := []string{"01 Jan", "02 Jan"}
	values := [][]float64{{10, 12}}

	dates, values = PadToNow(dates, values, "02 Jan", 0, now)

	if len(dates) != 3 || dates[2] != "03 Jan" {
		t.Fatalf("expected dates [01 Jan 02 Jan 03 Jan], got %v", dates)
	}
	if len(values[0]) != 3 || values[0][2] != 12 {
		t.Fatalf("expected carried-forward 12, got %v", values[0])
	}
}

func TestPadToNowIdempotentWithinPeriod(t *testing.T) {
	now := time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC)
	dates := []string{"01 Jan", "02 Jan"}
	values := [][]float64{{10, 12}}

	dates, values = PadToNow(dates, values, "02 Jan", 0, now)
	dates, values = PadToNow(dates, values, "02 Jan", 0, now)

	if len(dates) != 3 {
		t.Fatalf("second pad in the same instant must be a no-op, got %v", dates)
	}
	if len(values[0]) != 3 {
		t.Fatalf("second pad must not extend values, got %v", values[0])
	}
}

func TestPadToNowTrimsFront(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	dates := []string{"01 Jan", "02 Jan", "03 Jan", "04 Jan"}
	values := [][]float64{{1, 2, 3, 4}}

	dates, values = PadToNow(dates, values, "02 Jan", 3, now)

	if len(dates) != 3 || dates[0] != "03 Jan" || dates[2] != "05 Jan" {
		t.Fatalf("expected trim to most recent 3, got %v", dates)
	}
	if len(values[0]) != 3 || values[0][0] != 3 || values[0][2] != 4 {
		t.Fatalf("unexpected trimmed values: %v", values[0])
	}
}

func TestPadToNowSkipsEmptyColumns(t *testing.T) {
	now := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	dates := []string{"01 Jan", "02 Jan"}
	values := [][]float64{{10, 12}, {}}

	dates, values = PadToNow(dates, values, "02 Jan", 0, now)

	if len(values[1]) != 0 {
		t.Fatalf("empty columns must stay empty, got %v", values[1])
	}
	if len(values[0]) != len(dates) {
		t.Fatal("non-empty columns must track the date axis")
	}
}

func TestPadToNowEmptyAxis(t *testing.T) {
	dates, values := PadToNow(nil, [][]float64{{}}, "02 Jan", 10, time.Now())
	if len(dates) != 0 || len(values[0]) != 0 {
		t.Fatal("empty axis must stay empty")
	}
}
