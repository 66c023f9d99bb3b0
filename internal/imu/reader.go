package imu

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrMissingColumn indicates a required column is absent from the input
// header. Calibration cannot proceed without it.
var ErrMissingColumn = errors.New("missing required column")

// RequiredColumns are the header names a labeled log must declare. Extra
// columns (a_mag, w_mag, event_id, label_change, ...) are ignored; derived
// magnitudes are always recomputed from the axes.
var RequiredColumns = []string{"t", "ax", "ay", "az", "gx", "gy", "gz", "label"}

// missing is the sentinel for unparseable numeric fields.
func missing() float64 { return math.NaN() }

// ReadLog parses a labeled IMU log: a CSV-like table whose header names at
// least the RequiredColumns in any order. Rows shorter than the header are
// skipped. Numeric fields that fail to parse become NaN so downstream
// statistics can exclude them without aborting the run.
func ReadLog(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, req := range RequiredColumns {
		if _, ok := idx[req]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, req)
		}
	}

	num := func(row []string, name string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx[name]]), 64)
		if err != nil {
			return missing()
		}
		return v
	}

	var samples []Sample
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(samples)+2, err)
		}
		if len(row) < len(header) {
			continue
		}
		samples = append(samples, Sample{
			T:     num(row, "t"),
			AX:    num(row, "ax"),
			AY:    num(row, "ay"),
			AZ:    num(row, "az"),
			GX:    num(row, "gx"),
			GY:    num(row, "gy"),
			GZ:    num(row, "gz"),
			Label: ParseLabel(row[idx["label"]]),
		})
	}
	return samples, nil
}
