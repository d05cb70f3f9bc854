package quote

import "testing"

const venueMarkup = `<html><body>
<div class="prices">
  <span data-socket-attr="bid">2.950,50</span>
  <span data-socket-attr="ask">3.080,00</span>
</div>
</body></html>`

func TestExtractBidAsk(t *testing.T) {
	bid, ask, ok := ExtractBidAsk(venueMarkup)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if bid.String() != "2950.5" {
		t.Fatalf("expected bid 2950.5, got %s", bid.String())
	}
	if ask.String() != "3080" {
		t.Fatalf("expected ask 3080, got %s", ask.String())
	}
}

func TestExtractBidAskMissingField(t *testing.T) {
	markup := `<html><span data-socket-attr="bid">2.950,50</span></html>`
	bid, ask, ok := ExtractBidAsk(markup)
	if ok {
		t.Fatal("missing ask field must not yield a partial pair")
	}
	if !bid.IsZero() || !ask.IsZero() {
		t.Fatal("both values must be zero when either field is missing")
	}
}

func TestExtractBidAskUnparseableField(t *testing.T) {
	markup := `<html>
<span data-socket-attr="bid">n/a</span>
<span data-socket-attr="ask">3.080,00</span>
</html>`
	if _, _, ok := ExtractBidAsk(markup); ok {
		t.Fatal("unparseable bid must not yield a partial pair")
	}
}
