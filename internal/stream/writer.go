package stream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LogWriter emits the labeled recording CSV the calibration tools consume,
// extended with the derived magnitudes and the labeling provenance columns.
type LogWriter struct {
	cw   *csv.Writer
	rows int
}

var logHeader = []string{
	"t", "ax", "ay", "az", "gx", "gy", "gz",
	"a_mag", "w_mag", "label", "event_id", "label_change",
}

// NewLogWriter wraps w and writes the header immediately.
func NewLogWriter(w io.Writer) (*LogWriter, error) {
	lw := &LogWriter{cw: csv.NewWriter(w)}
	if err := lw.cw.Write(logHeader); err != nil {
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}
	return lw, nil
}

// WriteEntry appends one finalized entry.
func (lw *LogWriter) WriteEntry(e Entry) error {
	s := e.Sample
	row := []string{
		num(s.T), num(s.AX), num(s.AY), num(s.AZ),
		num(s.GX), num(s.GY), num(s.GZ),
		num(s.AccelMag()), num(s.GyroMag()),
		string(s.Label), e.EventID, strconv.FormatBool(e.LabelChanged),
	}
	if err := lw.cw.Write(row); err != nil {
		return fmt.Errorf("failed to write log row: %w", err)
	}
	lw.rows++
	return nil
}

// Flush commits buffered rows to the underlying writer.
func (lw *LogWriter) Flush() error {
	lw.cw.Flush()
	return lw.cw.Error()
}

// Rows returns how many entries have been written.
func (lw *LogWriter) Rows() int {
	return lw.rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
