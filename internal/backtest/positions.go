package backtest

import (
	"math"

	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/timeseries"
)

// ComputePositions scales the session's composite signals into dollar
// nominal exposures summing to targetGross in absolute value at every
// timestamp, overwrites the session's position table, and marks the session
// live for downstream cost and P&L stages.
//
// A timestamp where every signal is zero divides by zero: those rows hold
// undefined positions, and they stay undefined downstream. Zero-filling them
// would misstate realized exposure.
func (b *Backtest) ComputePositions(session Session, targetGross float64) *timeseries.Frame {
	signals := b.signals[session]
	rows := signals.Len()

	positions := mustFrame(timeseries.New(signals.Index(), b.instruments))

	for t := 0; t < rows; t++ {
		gross := 0.0
		for _, instrument := range b.instruments {
			gross += math.Abs(signals.At(t, instrument))
		}
		base := targetGross / gross
		for _, instrument := range b.instruments {
			positions.Set(t, instrument, signals.At(t, instrument)*base)
		}
	}

	b.positions[session] = positions
	b.live = session
	metrics.RowsTotal.WithLabelValues("positions").Add(float64(rows))
	b.log.Debug().Str("session", string(session)).Float64("target_gross", targetGross).Msg("positions computed")
	return positions
}
