package backtest

import (
	"math"

	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/timeseries"
)

// pairSubsignal holds one country pair's normalized divergence series.
type pairSubsignal struct {
	hi, lo string // instrument identifiers, hi is the first country in pair order
	vals   []float64
}

// ComputeSignals derives the session's composite signal table from its swap
// fixes and returns it. The table is mutated in place and accumulates across
// calls, matching the reference behaviour of never resetting signals.
//
// For every unordered country pair the subsignal is the deviation of the swap
// differential from its trailing mean, scaled by that mean's magnitude. A
// pair fires only when its absolute subsignal exceeds the cross-sectional
// quantile threshold of all pairs at the same timestamp; firing adds +1/-1 to
// the first instrument's composite and the exact negation to the second's.
func (b *Backtest) ComputeSignals(session Session) *timeseries.Frame {
	swaps := b.swapFixes[session]
	signals := b.signals[session]
	rows := swaps.Len()
	n := len(b.countries)

	subsignals := make([]pairSubsignal, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			hi := b.countries[i] + quoteCurrency
			lo := b.countries[j] + quoteCurrency

			diff := make([]float64, rows)
			for t := 0; t < rows; t++ {
				diff[t] = swaps.At(t, hi) - swaps.At(t, lo)
			}
			avg := timeseries.RollingMean(diff, b.cfg.MAWindow)

			vals := make([]float64, rows)
			for t := 0; t < rows; t++ {
				vals[t] = (diff[t] - avg[t]) / math.Abs(avg[t])
			}
			b.log.Debug().Str("session", string(session)).Str("pair", b.countries[i]+b.countries[j]).Msg("computed pair subsignal")
			subsignals = append(subsignals, pairSubsignal{hi: hi, lo: lo, vals: vals})
		}
	}

	// The threshold is cross-sectional: a fresh quantile of the pairs'
	// absolute subsignals at every timestamp, never across time.
	absAt := make([]float64, len(subsignals))
	for t := 0; t < rows; t++ {
		for k, sub := range subsignals {
			absAt[k] = math.Abs(sub.vals[t])
		}
		threshold := timeseries.Quantile(absAt, b.cfg.ThresholdQuantile)

		for _, sub := range subsignals {
			v := sub.vals[t]
			// NaN subsignals or thresholds fail both comparisons and
			// contribute a neutral 0, they never propagate.
			var fired float64
			switch {
			case !(math.Abs(v) > threshold):
			case v >= 0:
				fired = 1
			default:
				fired = -1
			}
			if fired != 0 {
				signals.Add(t, sub.hi, fired)
				signals.Add(t, sub.lo, -fired)
			}
		}
	}

	metrics.RowsTotal.WithLabelValues("signals").Add(float64(rows))
	b.log.Debug().Str("session", string(session)).Int("pairs", len(subsignals)).Int("rows", rows).Msg("signals computed")
	return signals
}
