// Package timeseries provides the aligned time-indexed table every pipeline
// stage reads and writes, plus the NaN-aware series math they share.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Frame is an ordered time axis crossed with named float64 columns. Missing
// or undefined cells hold IEEE NaN; arithmetic on frames lets NaN propagate
// rather than erroring, so a single undefined fixing flows through the whole
// pipeline as "no value".
type Frame struct {
	index []time.Time
	cols  []string
	data  map[string][]float64
}

// New builds a frame over the given time axis with every cell set to NaN.
// The axis must be strictly increasing.
func New(index []time.Time, cols []string) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("time axis not strictly increasing at row %d (%s)", i, index[i])
		}
	}
	f := &Frame{
		index: append([]time.Time(nil), index...),
		cols:  append([]string(nil), cols...),
		data:  make(map[string][]float64, len(cols)),
	}
	for _, c := range cols {
		vals := make([]float64, len(index))
		for i := range vals {
			vals[i] = math.NaN()
		}
		f.data[c] = vals
	}
	return f, nil
}

// NewZero builds a frame with every cell set to 0 (used for signal tables,
// which start neutral rather than undefined).
func NewZero(index []time.Time, cols []string) (*Frame, error) {
	f, err := New(index, cols)
	if err != nil {
		return nil, err
	}
	for _, c := range f.cols {
		vals := f.data[c]
		for i := range vals {
			vals[i] = 0
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.index) }

// Index returns the shared time axis. Callers must not mutate it.
func (f *Frame) Index() []time.Time { return f.index }

// Columns returns the ordered column names. Callers must not mutate it.
func (f *Frame) Columns() []string { return f.cols }

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Col returns the live value slice for a column, or nil if absent.
func (f *Frame) Col(name string) []float64 { return f.data[name] }

// At returns the cell at row t for the named column; NaN when the column is
// absent, mirroring an outer-join fill.
func (f *Frame) At(t int, name string) float64 {
	vals, ok := f.data[name]
	if !ok {
		return math.NaN()
	}
	return vals[t]
}

// Set writes the cell at row t for the named column.
func (f *Frame) Set(t int, name string, v float64) {
	if vals, ok := f.data[name]; ok {
		vals[t] = v
	}
}

// Add adds v to the cell at row t for the named column.
func (f *Frame) Add(t int, name string, v float64) {
	if vals, ok := f.data[name]; ok {
		vals[t] += v
	}
}

// SetColumn installs (or replaces) a whole column. The slice length must
// match the time axis.
func (f *Frame) SetColumn(name string, vals []float64) error {
	if len(vals) != len(f.index) {
		return fmt.Errorf("column %s has %d rows, frame has %d", name, len(vals), len(f.index))
	}
	if _, ok := f.data[name]; !ok {
		f.cols = append(f.cols, name)
	}
	f.data[name] = append([]float64(nil), vals...)
	return nil
}

// Clone returns a deep copy sharing nothing with the receiver.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		index: append([]time.Time(nil), f.index...),
		cols:  append([]string(nil), f.cols...),
		data:  make(map[string][]float64, len(f.cols)),
	}
	for name, vals := range f.data {
		out.data[name] = append([]float64(nil), vals...)
	}
	return out
}

// SameAxis reports whether two frames share an identical time axis.
func (f *Frame) SameAxis(other *Frame) bool {
	if other == nil || len(f.index) != len(other.index) {
		return false
	}
	for i, ts := range f.index {
		if !ts.Equal(other.index[i]) {
			return false
		}
	}
	return true
}

// UnionColumns returns the sorted union of both frames' columns, the column
// set an outer join aligns on. Columns present on only one side read as NaN
// on the other via At.
func UnionColumns(a, b *Frame) []string {
	seen := make(map[string]bool, len(a.cols)+len(b.cols))
	var union []string
	for _, c := range a.cols {
		if !seen[c] {
			seen[c] = true
			union = append(union, c)
		}
	}
	for _, c := range b.cols {
		if !seen[c] {
			seen[c] = true
			union = append(union, c)
		}
	}
	sort.Strings(union)
	return union
}
