package calib

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/window"
)

// WriteFeaturesCSV emits the per-window feature table: t_start, t_end, the
// features in their fixed order, then the window label. The column order
// never changes between runs.
func WriteFeaturesCSV(w io.Writer, feats []window.Features) error {
	cw := csv.NewWriter(w)

	header := append([]string{"t_start", "t_end"}, window.FeatureNames...)
	header = append(header, "label")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write features header: %w", err)
	}

	row := make([]string, 0, len(header))
	for _, f := range feats {
		row = row[:0]
		row = append(row, fcell(f.TStart), fcell(f.TEnd))
		for _, name := range window.FeatureNames {
			row = append(row, fcell(f.Value(name)))
		}
		row = append(row, string(f.Label))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write features row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func fcell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
