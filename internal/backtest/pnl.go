package backtest

import (
	"errors"
	"fmt"
	"math"

	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/timeseries"
)

// ComputePnL realizes P&L for the session's spot fixes against the live
// position table and stores the result.
//
// Each period's return is earned by the position held entering the period:
// pnl[i][t] = ret[i][t] * position[i][t-1]. The one-period lag is the
// look-ahead guard; the same-timestamp position must never touch pnl[t].
// Position and return columns are aligned by outer join, so instruments
// present on one side only contribute undefined cells rather than failing.
func (b *Backtest) ComputePnL(session Session) (*timeseries.Frame, error) {
	positions := b.positions[b.live]
	if positions == nil {
		return nil, errors.New("no positions computed yet")
	}
	fx := b.fxFixes[session]
	rows := fx.Len()

	returns := mustFrame(timeseries.New(fx.Index(), fx.Columns()))
	for _, instrument := range fx.Columns() {
		if err := returns.SetColumn(instrument, timeseries.PctChange(fx.Col(instrument))); err != nil {
			return nil, err
		}
	}

	instruments := timeseries.UnionColumns(positions, returns)
	pnl := mustFrame(timeseries.New(fx.Index(), instruments))
	for _, instrument := range instruments {
		for t := 1; t < rows; t++ {
			pnl.Set(t, instrument, returns.At(t, instrument)*positions.At(t-1, instrument))
		}
	}
	if err := appendTotals(pnl, instruments, b.cfg.TargetGrossExposure); err != nil {
		return nil, err
	}

	if b.cfg.Strict {
		if err := b.checkDefinedTotals(pnl, instruments); err != nil {
			return nil, err
		}
	}

	b.pnl = pnl
	metrics.RowsTotal.WithLabelValues("pnl").Add(float64(rows))
	b.log.Debug().Str("session", string(session)).Int("rows", rows).Msg("pnl computed")
	return pnl, nil
}

// checkDefinedTotals rejects rows past the first whose total was built from
// undefined cells only; the NaN-skipping sum reports such rows as flat zero,
// which strict mode refuses to pass off as a real result.
func (b *Backtest) checkDefinedTotals(pnl *timeseries.Frame, instruments []string) error {
	for t := 1; t < pnl.Len(); t++ {
		defined := false
		for _, instrument := range instruments {
			if !math.IsNaN(pnl.At(t, instrument)) {
				defined = true
				break
			}
		}
		if !defined {
			return fmt.Errorf("row %d (%s): %w", t, pnl.Index()[t].Format("2006-01-02"), ErrUndefinedTotal)
		}
	}
	return nil
}
