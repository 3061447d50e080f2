// Package backtest implements the carry-divergence pipeline: swap-rate
// divergence signals, gross-exposure position sizing, spread transaction
// costs, lagged spot P&L, and annual performance statistics.
package backtest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"fxcarry-go/internal/metrics"
	"fxcarry-go/internal/timeseries"
)

// Session identifies a daily fixing snapshot.
type Session string

const (
	// SessionLondon is the London 4pm fix.
	SessionLondon Session = "LON"
	// SessionNewYork is the New York fix.
	SessionNewYork Session = "NY"
)

// quoteCurrency is the fixed quote leg of every instrument.
const quoteCurrency = "USD"

// Defaults applied by Config.withDefaults.
const (
	DefaultMAWindow            = 15
	DefaultTargetGrossExposure = 1_000_000
	DefaultThresholdQuantile   = 0.5
)

// ErrUndefinedTotal reports that a strict-mode run fed only undefined cells
// into a total row.
var ErrUndefinedTotal = errors.New("pnl total built entirely from undefined cells")

// Config carries the tunable pipeline parameters.
type Config struct {
	MAWindow            int     `yaml:"ma_window"`
	TargetGrossExposure float64 `yaml:"target_gross_exposure"`
	ThresholdQuantile   float64 `yaml:"threshold_quantile"`
	Strict              bool    `yaml:"strict"`
}

func (c Config) withDefaults() Config {
	if c.MAWindow <= 0 {
		c.MAWindow = DefaultMAWindow
	}
	if c.TargetGrossExposure <= 0 {
		c.TargetGrossExposure = DefaultTargetGrossExposure
	}
	if c.ThresholdQuantile <= 0 || c.ThresholdQuantile >= 1 {
		c.ThresholdQuantile = DefaultThresholdQuantile
	}
	return c
}

// Backtest owns the signal, position, P&L, and stats tables it derives from
// borrowed fixing frames. A single instance is single-threaded; nothing here
// is safe for concurrent use.
type Backtest struct {
	log zerolog.Logger
	cfg Config

	fxFixes   map[Session]*timeseries.Frame
	swapFixes map[Session]*timeseries.Frame
	spreads   SpreadTable

	countries   []string
	instruments []string

	signals   map[Session]*timeseries.Frame
	positions map[Session]*timeseries.Frame
	live      Session
	pnl       *timeseries.Frame
}

// New wires a backtest over the four borrowed fixing frames. The instrument
// set comes from the London spot-fix columns and is immutable afterwards;
// all frames must share one strictly increasing time axis.
func New(fxLon, fxNY, swapsLon, swapsNY *timeseries.Frame, spreads SpreadTable, cfg Config, log zerolog.Logger) (*Backtest, error) {
	if fxLon == nil || fxNY == nil || swapsLon == nil || swapsNY == nil {
		return nil, errors.New("all four fixing frames are required")
	}
	for name, f := range map[string]*timeseries.Frame{"fx NY": fxNY, "swaps LON": swapsLon, "swaps NY": swapsNY} {
		if !fxLon.SameAxis(f) {
			return nil, fmt.Errorf("%s fixes do not share the fx LON time axis", name)
		}
	}

	countries := make([]string, 0, len(fxLon.Columns()))
	for _, instrument := range fxLon.Columns() {
		if len(instrument) < 3 {
			return nil, fmt.Errorf("instrument %q is too short for a country code", instrument)
		}
		countries = append(countries, instrument[:3])
	}
	sort.Strings(countries)
	instruments := make([]string, len(countries))
	for i, country := range countries {
		instruments[i] = country + quoteCurrency
	}

	cfg = cfg.withDefaults()
	b := &Backtest{
		log: log,
		cfg: cfg,
		fxFixes: map[Session]*timeseries.Frame{
			SessionLondon:  fxLon,
			SessionNewYork: fxNY,
		},
		swapFixes: map[Session]*timeseries.Frame{
			SessionLondon:  swapsLon,
			SessionNewYork: swapsNY,
		},
		spreads:     spreads,
		countries:   countries,
		instruments: instruments,
		signals:     make(map[Session]*timeseries.Frame, 2),
		positions:   make(map[Session]*timeseries.Frame, 2),
	}
	for _, session := range []Session{SessionLondon, SessionNewYork} {
		sig, err := timeseries.NewZero(fxLon.Index(), instruments)
		if err != nil {
			return nil, fmt.Errorf("init %s signals: %w", session, err)
		}
		b.signals[session] = sig
	}

	// A lone pair makes the median threshold degenerate: the single
	// subsignal can never exceed its own absolute value, so signals stay
	// zero forever. Almost certainly a misconfigured universe.
	if len(instruments) == 2 {
		log.Warn().Strs("instruments", instruments).Msg("two-instrument universe: divergence signals will always be zero")
	}

	return b, nil
}

// Instruments returns the derived instrument identifiers in country order.
func (b *Backtest) Instruments() []string { return b.instruments }

// Signals returns the session's composite signal table.
func (b *Backtest) Signals(session Session) *timeseries.Frame { return b.signals[session] }

// Positions returns the session's position table, nil before ComputePositions.
func (b *Backtest) Positions(session Session) *timeseries.Frame { return b.positions[session] }

// LiveSession reports which session's positions were computed last.
func (b *Backtest) LiveSession() Session { return b.live }

// PnL returns the last computed P&L table, nil before ComputePnL.
func (b *Backtest) PnL() *timeseries.Frame { return b.pnl }

// mustFrame unwraps frame construction over an already validated time axis.
func mustFrame(f *timeseries.Frame, err error) *timeseries.Frame {
	if err != nil {
		panic(err)
	}
	return f
}

// Run executes the fixed pipeline over the London session:
// signals, then positions, then P&L.
func (b *Backtest) Run() error {
	b.ComputeSignals(SessionLondon)
	b.ComputePositions(SessionLondon, b.cfg.TargetGrossExposure)
	if _, err := b.ComputePnL(SessionLondon); err != nil {
		return err
	}
	metrics.RunsTotal.WithLabelValues(string(SessionLondon)).Inc()
	return nil
}
