package report

import (
	"fmt"
	"io"
	"time"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/db"
)

// WriteRunList prints one line per recorded calibration run, in the order
// given (ListRuns returns most recent first).
func WriteRunList(w io.Writer, runs []db.CalibrationRun) error {
	if _, err := fmt.Fprintf(w, "%-36s  %-20s  %-9s  %7s  %s\n",
		"id", "started", "policy", "rate_hz", "source"); err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintf(w, "%-36s  %-20s  %-9s  %7.1f  %s\n",
			r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.Policy, r.SampleRate, r.Source); err != nil {
			return err
		}
	}
	return nil
}

// WriteRunDetail prints one run's record followed by its stored window rows
// in sequence order.
func WriteRunDetail(w io.Writer, run *db.CalibrationRun, windows []db.WindowRow) error {
	fmt.Fprintf(w, "run %s\n", run.ID)
	fmt.Fprintf(w, "  source:  %s\n", run.Source)
	fmt.Fprintf(w, "  started: %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  policy:  %s\n", run.Policy)
	fmt.Fprintf(w, "  rate:    %.2f Hz\n", run.SampleRate)
	fmt.Fprintf(w, "  window:  %d samples, hop %d\n", run.WinN, run.HopN)
	fmt.Fprintf(w, "  params:  %d bytes\n\n", len(run.ParamsJSON))

	if _, err := fmt.Fprintf(w, "%5s  %8s  %8s  %8s  %10s  %10s  %s\n",
		"seq", "t_start", "t_end", "impact_g", "omega_peak", "tilt_delta", "label"); err != nil {
		return err
	}
	for _, row := range windows {
		if _, err := fmt.Fprintf(w, "%5d  %8.3f  %8.3f  %8.4f  %10.2f  %10.2f  %s\n",
			row.Seq, row.TStart, row.TEnd, row.ImpactG, row.OmegaPeak, row.TiltDelta, row.Label); err != nil {
			return err
		}
	}
	return nil
}
