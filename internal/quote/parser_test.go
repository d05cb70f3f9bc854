package quote

import "testing"

func TestParseNumberLocaleFormat(t *testing.T) {
	value, ok := ParseNumber("3.080,50")
	if !ok {
		t.Fatal("expected value for locale formatted input")
	}
	if value.String() != "3080.5" {
		t.Fatalf("expected 3080.5, got %s", value.String())
	}
}

func TestParseNumberEmpty(t *testing.T) {
	if _, ok := ParseNumber(""); ok {
		t.Fatal("empty input should yield no value")
	}
	if _, ok := ParseNumber("   "); ok {
		t.Fatal("blank input should yield no value")
	}
}

func TestParseNumberPlainDecimal(t *testing.T) {
	value, ok := ParseNumber("12,5")
	if !ok {
		t.Fatal("expected value")
	}
	if value.String() != "12.5" {
		t.Fatalf("expected 12.5, got %s", value.String())
	}
}

func TestParseNumberGarbage(t *testing.T) {
	if _, ok := ParseNumber("n/a"); ok {
		t.Fatal("non-numeric input should yield no value")
	}
}
