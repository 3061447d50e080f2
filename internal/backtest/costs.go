package backtest

import (
	"errors"
	"math"

	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/timeseries"
)

// SpreadTable maps an instrument identifier to its per-unit spread cost.
// It is plain configuration passed at construction, never a shared global.
type SpreadTable map[string]float64

// UnitCost returns the instrument's per-unit cost, NaN when the instrument
// has no entry. A missing entry is data, not an error: the undefined cost
// propagates per cell.
func (s SpreadTable) UnitCost(instrument string) float64 {
	cost, ok := s[instrument]
	if !ok {
		return math.NaN()
	}
	return cost
}

// DefaultSpreads returns the reference per-unit spread costs.
func DefaultSpreads() SpreadTable {
	return SpreadTable{
		"AUDUSD": 0.006 / 100,
		"CADUSD": 0.010 / 100,
		"CHFUSD": 0.011 / 100,
		"DKKUSD": 0.005 / 100,
		"EURUSD": 0.0036 / 100,
		"GBPUSD": 0.005 / 100,
		"JPYUSD": 0.006 / 100,
		"NOKUSD": 0.035 / 100,
		"NZDUSD": 0.014 / 100,
		"SEKUSD": 0.032 / 100,
	}
}

// ComputeTransactionCosts prices the turnover of the live position table:
// absolute position change per period times the instrument's unit spread.
// The first row has no prior position and is undefined, with no synthetic
// zero-fill. Requires ComputePositions to have run.
func (b *Backtest) ComputeTransactionCosts() (*timeseries.Frame, error) {
	positions := b.positions[b.live]
	if positions == nil {
		return nil, errors.New("no positions computed yet")
	}
	rows := positions.Len()

	costs := mustFrame(timeseries.New(positions.Index(), positions.Columns()))
	for _, instrument := range positions.Columns() {
		unit := b.spreads.UnitCost(instrument)
		for t := 1; t < rows; t++ {
			change := math.Abs(positions.At(t, instrument) - positions.At(t-1, instrument))
			costs.Set(t, instrument, change*unit)
		}
	}
	if err := appendTotals(costs, positions.Columns(), b.cfg.TargetGrossExposure); err != nil {
		return nil, err
	}

	metrics.RowsTotal.WithLabelValues("costs").Add(float64(rows))
	b.log.Debug().Int("rows", rows).Msg("transaction costs computed")
	return costs, nil
}

// appendTotals adds the total and total_pct summary columns: the NaN-skipping
// cross-instrument sum and that sum over the fixed target gross notional.
func appendTotals(f *timeseries.Frame, instruments []string, targetGross float64) error {
	rows := f.Len()
	total := make([]float64, rows)
	totalPct := make([]float64, rows)
	rowVals := make([]float64, len(instruments))
	for t := 0; t < rows; t++ {
		for k, instrument := range instruments {
			rowVals[k] = f.At(t, instrument)
		}
		total[t] = timeseries.NaNSum(rowVals)
		totalPct[t] = total[t] / targetGross
	}
	if err := f.SetColumn("total", total); err != nil {
		return err
	}
	return f.SetColumn("total_pct", totalPct)
}
