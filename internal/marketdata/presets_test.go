package marketdata

import "testing"

func TestPresetForKnownKeys(t *testing.T) {
	for _, key := range []string{"hourly", "daily", "weekly", "monthly"} {
		if got := PresetFor(key).Key; got != key {
			t.Fatalf("PresetFor(%q).Key = %q", key, got)
		}
	}
}

func TestPresetForYearlyAliasesMonthly(t *testing.T) {
	if got := PresetFor("yearly").Key; got != "monthly" {
		t.Fatalf("yearly should alias monthly, got %q", got)
	}
}

func TestPresetForUnknownDefaultsToDaily(t *testing.T) {
	if got := PresetFor("fortnightly").Key; got != "daily" {
		t.Fatalf("unknown key should default to daily, got %q", got)
	}
	if got := PresetFor("").Key; got != "daily" {
		t.Fatalf("empty key should default to daily, got %q", got)
	}
}

func TestHourlyIntervalCandidatesCoarsen(t *testing.T) {
	got := PresetFor("hourly").IntervalCandidates
	want := []string{"60m", "90m", "1d"}
	if len(got) != len(want) {
		t.Fatalf("unexpected candidate chain %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPresetIntraday(t *testing.T) {
	if !PresetFor("hourly").Intraday() {
		t.Fatal("hourly preset should be intraday")
	}
	if PresetFor("daily").Intraday() {
		t.Fatal("daily preset should not be intraday")
	}
}
