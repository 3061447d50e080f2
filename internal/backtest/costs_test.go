package backtest

import (
	"math"
	"testing"

	"fxcarry-go/internal/timeseries"
)

func TestDefaultSpreadsLiterals(t *testing.T) {
	spreads := DefaultSpreads()
	cases := map[string]float64{
		"EURUSD": 0.0036 / 100,
		"JPYUSD": 0.006 / 100,
		"NOKUSD": 0.035 / 100,
	}
	for instrument, want := range cases {
		if got := spreads.UnitCost(instrument); got != want {
			t.Fatalf("%s: expected unit cost %v, got %v", instrument, want, got)
		}
	}
	if len(spreads) != 10 {
		t.Fatalf("expected 10 configured spreads, got %d", len(spreads))
	}
	if !math.IsNaN(spreads.UnitCost("MXNUSD")) {
		t.Fatalf("unknown instrument should cost NaN")
	}
}

// injectPositions installs a hand-built live position table so cost and P&L
// stages can be exercised in isolation.
func injectPositions(t *testing.T, b *Backtest, cols map[string][]float64) *timeseries.Frame {
	t.Helper()
	rows := b.fxFixes[SessionLondon].Len()
	positions := frameOf(t, dailyAxis(rows), cols)
	b.positions[SessionLondon] = positions
	b.live = SessionLondon
	return positions
}

func TestComputeTransactionCosts(t *testing.T) {
	rows := 4
	fx := frameOf(t, dailyAxis(rows), map[string][]float64{
		"EURUSD": constant(1.10, rows),
		"JPYUSD": constant(0.0068, rows),
	})
	b := newTestBacktest(t, fx, fx, Config{})
	injectPositions(t, b, map[string][]float64{
		"EURUSD": {100_000, 250_000, 250_000, 50_000},
		"JPYUSD": {-100_000, -250_000, -250_000, -50_000},
	})

	costs, err := b.ComputeTransactionCosts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !math.IsNaN(costs.At(0, "EURUSD")) {
		t.Fatalf("first row has no prior position, cost must be undefined")
	}
	want := 150_000 * (0.0036 / 100)
	if got := costs.At(1, "EURUSD"); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected EURUSD cost %v, got %v", want, got)
	}
	if got := costs.At(2, "EURUSD"); got != 0 {
		t.Fatalf("unchanged position should cost 0, got %v", got)
	}
	if got := costs.At(3, "JPYUSD"); math.Abs(got-200_000*(0.006/100)) > 1e-9 {
		t.Fatalf("unexpected JPYUSD cost %v", got)
	}
	if got := costs.At(1, "total"); math.Abs(got-(want+150_000*0.006/100)) > 1e-9 {
		t.Fatalf("unexpected total cost %v", got)
	}
}

func TestComputeTransactionCostsMissingEntry(t *testing.T) {
	rows := 3
	fx := frameOf(t, dailyAxis(rows), map[string][]float64{
		"EURUSD": constant(1.10, rows),
		"MXNUSD": constant(0.058, rows),
	})
	b := newTestBacktest(t, fx, fx, Config{})
	injectPositions(t, b, map[string][]float64{
		"EURUSD": {100_000, 200_000, 200_000},
		"MXNUSD": {-100_000, -200_000, -200_000},
	})

	costs, err := b.ComputeTransactionCosts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(costs.At(1, "MXNUSD")) {
		t.Fatalf("instrument without a spread entry should cost NaN")
	}
	// The sum still reflects the priced instruments.
	if got := costs.At(1, "total"); math.Abs(got-100_000*(0.0036/100)) > 1e-9 {
		t.Fatalf("unexpected total %v", got)
	}
}

func TestComputeTransactionCostsRequiresPositions(t *testing.T) {
	rows := 3
	fx := frameOf(t, dailyAxis(rows), map[string][]float64{"EURUSD": constant(1.10, rows), "JPYUSD": constant(0.0068, rows)})
	b := newTestBacktest(t, fx, fx, Config{})
	if _, err := b.ComputeTransactionCosts(); err == nil {
		t.Fatalf("expected error before positions exist")
	}
}
