package backtest

import (
	"encoding/json"
	"errors"
	"math"

	"fxcarry-go/internal/timeseries"
)

// YearStat summarizes one calendar year of total_pct P&L. Undefined values
// are NaN in memory and null on the wire.
type YearStat struct {
	Year   int
	Return float64
	Vol    float64
	Sharpe float64
}

type yearStatJSON struct {
	Year   int      `json:"year"`
	Return *float64 `json:"return"`
	Vol    *float64 `json:"vol"`
	Sharpe *float64 `json:"sharpe"`
}

// MarshalJSON encodes undefined statistics as null, since JSON has no NaN.
func (y YearStat) MarshalJSON() ([]byte, error) {
	return json.Marshal(yearStatJSON{
		Year:   y.Year,
		Return: definedOrNil(y.Return),
		Vol:    definedOrNil(y.Vol),
		Sharpe: definedOrNil(y.Sharpe),
	})
}

// UnmarshalJSON maps null statistics back to NaN.
func (y *YearStat) UnmarshalJSON(data []byte) error {
	var dec yearStatJSON
	if err := json.Unmarshal(data, &dec); err != nil {
		return err
	}
	y.Year = dec.Year
	y.Return = orNaN(dec.Return)
	y.Vol = orNaN(dec.Vol)
	y.Sharpe = orNaN(dec.Sharpe)
	return nil
}

func definedOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// ComputeStats resamples the P&L's total_pct column into calendar years and
// annualizes each bucket: return = mean * k and vol = std * sqrt(k) over the
// year's k rows, sharpe = return / vol. The mean skips undefined rows while
// k counts every row, and a year with fewer than two defined observations
// reports undefined vol and sharpe rather than failing.
func (b *Backtest) ComputeStats() ([]YearStat, error) {
	if b.pnl == nil {
		return nil, errors.New("no pnl computed yet")
	}
	totalPct := b.pnl.Col("total_pct")
	index := b.pnl.Index()

	var stats []YearStat
	start := 0
	for t := 1; t <= len(index); t++ {
		if t < len(index) && index[t].Year() == index[start].Year() {
			continue
		}
		bucket := totalPct[start:t]
		k := float64(len(bucket))
		annRet := timeseries.Mean(bucket) * k
		annVol := timeseries.Std(bucket) * math.Sqrt(k)
		stats = append(stats, YearStat{
			Year:   index[start].Year(),
			Return: annRet,
			Vol:    annVol,
			Sharpe: annRet / annVol,
		})
		start = t
	}
	return stats, nil
}
