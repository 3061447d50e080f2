// Package fixings loads fixing tables from CSV into aligned frames.
package fixings

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"fxcarry-go/internal/timeseries"
)

// timeLayouts are accepted for the leading time column, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// Read parses a fixing CSV into a frame. The first header cell names the
// time column and the remaining cells name instruments; empty value cells
// become undefined (NaN) rather than erroring. The time axis must come out
// strictly increasing.
func Read(r io.Reader) (*timeseries.Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv needs a header and at least one row")
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("csv needs a time column and at least one instrument")
	}
	instruments := header[1:]

	index := make([]time.Time, 0, len(records)-1)
	cols := make(map[string][]float64, len(instruments))
	for _, instrument := range instruments {
		cols[instrument] = make([]float64, 0, len(records)-1)
	}

	for rowNum, record := range records[1:] {
		ts, err := parseTime(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+1, err)
		}
		index = append(index, ts)
		for i, instrument := range instruments {
			cell := strings.TrimSpace(record[i+1])
			if cell == "" {
				cols[instrument] = append(cols[instrument], math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d %s: parse %q: %w", rowNum+1, instrument, cell, err)
			}
			cols[instrument] = append(cols[instrument], v)
		}
	}

	frame, err := timeseries.New(index, nil)
	if err != nil {
		return nil, err
	}
	for _, instrument := range instruments {
		if err := frame.SetColumn(instrument, cols[instrument]); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// ReadFile opens and parses a fixing CSV from disk.
func ReadFile(path string) (*timeseries.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixings: %w", err)
	}
	defer file.Close()

	frame, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

func parseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", cell)
}
