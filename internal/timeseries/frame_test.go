package timeseries

import (
	"math"
	"testing"
	"time"
)

func axis(n int) []time.Time {
	start := time.Date(2023, 1, 2, 16, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestNewRejectsUnsortedAxis(t *testing.T) {
	idx := axis(3)
	idx[2] = idx[1]
	if _, err := New(idx, []string{"EURUSD"}); err == nil {
		t.Fatalf("expected error for non-increasing axis")
	}
}

func TestNewFillsNaNAndZero(t *testing.T) {
	f, err := New(axis(2), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(f.At(0, "EURUSD")) {
		t.Fatalf("expected NaN fill, got %v", f.At(0, "EURUSD"))
	}

	z, err := NewZero(axis(2), []string{"EURUSD"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z.At(1, "EURUSD") != 0 {
		t.Fatalf("expected zero fill, got %v", z.At(1, "EURUSD"))
	}
}

func TestAtMissingColumnReadsNaN(t *testing.T) {
	f, _ := New(axis(1), []string{"EURUSD"})
	if !math.IsNaN(f.At(0, "JPYUSD")) {
		t.Fatalf("missing column should read NaN")
	}
}

func TestUnionColumns(t *testing.T) {
	a, _ := New(axis(1), []string{"GBPUSD", "EURUSD"})
	b, _ := New(axis(1), []string{"EURUSD", "JPYUSD"})

	union := UnionColumns(a, b)
	want := []string{"EURUSD", "GBPUSD", "JPYUSD"}
	if len(union) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(union))
	}
	for i, c := range want {
		if union[i] != c {
			t.Fatalf("expected column %s at %d, got %s", c, i, union[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f, _ := NewZero(axis(2), []string{"EURUSD"})
	clone := f.Clone()
	clone.Set(0, "EURUSD", 42)
	if f.At(0, "EURUSD") != 0 {
		t.Fatalf("clone mutation leaked into original")
	}
}

func TestSameAxis(t *testing.T) {
	a, _ := New(axis(3), []string{"EURUSD"})
	b, _ := New(axis(3), []string{"JPYUSD"})
	c, _ := New(axis(2), []string{"EURUSD"})
	if !a.SameAxis(b) {
		t.Fatalf("identical axes should compare equal")
	}
	if a.SameAxis(c) {
		t.Fatalf("different lengths should not compare equal")
	}
}

func TestSetColumnLengthCheck(t *testing.T) {
	f, _ := New(axis(3), []string{"EURUSD"})
	if err := f.SetColumn("total", []float64{1, 2}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if err := f.SetColumn("total", []float64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.At(2, "total") != 3 {
		t.Fatalf("expected installed column value")
	}
}
