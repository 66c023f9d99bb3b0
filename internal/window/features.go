package window

import (
	"errors"
	"math"
	"sort"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
)

// ErrEmptyClass indicates the class-restricted subsequence required by the
// calling mode contains no samples. Fatal to calibration: there is nothing
// to derive a distribution from.
var ErrEmptyClass = errors.New("no samples for required class")

// Features holds the scalar features of one window. Peaks are absolute
// per-axis maxima; ImpactG and OmegaPeak maximize the per-sample Euclidean
// norm over the window, not the norm of the per-axis peaks.
type Features struct {
	TStart float64 `json:"t_start"`
	TEnd   float64 `json:"t_end"`

	AXPk float64 `json:"ax_pk"`
	AYPk float64 `json:"ay_pk"`
	AZPk float64 `json:"az_pk"`
	GXPk float64 `json:"gx_pk"`
	GYPk float64 `json:"gy_pk"`
	GZPk float64 `json:"gz_pk"`

	ImpactG   float64 `json:"impact_g"`
	OmegaPeak float64 `json:"omega_peak"`
	TiltMean  float64 `json:"tilt_mean"`
	TiltDelta float64 `json:"tilt_delta"`

	Label imu.Label `json:"label"`
}

// FeatureNames lists every per-window feature in the fixed order used by
// artifacts and reports.
var FeatureNames = []string{
	"ax_pk", "ay_pk", "az_pk", "gx_pk", "gy_pk", "gz_pk",
	"impact_g", "omega_peak", "tilt_mean", "tilt_delta",
}

// Value returns the named feature. Unknown names return NaN.
func (f Features) Value(name string) float64 {
	switch name {
	case "ax_pk":
		return f.AXPk
	case "ay_pk":
		return f.AYPk
	case "az_pk":
		return f.AZPk
	case "gx_pk":
		return f.GXPk
	case "gy_pk":
		return f.GYPk
	case "gz_pk":
		return f.GZPk
	case "impact_g":
		return f.ImpactG
	case "omega_peak":
		return f.OmegaPeak
	case "tilt_mean":
		return f.TiltMean
	case "tilt_delta":
		return f.TiltDelta
	default:
		return math.NaN()
	}
}

// Compute emits one Features record per window position 0, hop, 2*hop, ...
// while a full window remains. Samples with missing numeric fields are
// dropped before windowing so a stray bad row cannot poison a whole window.
// Window and hop are floored at one sample, matching PlanWindows, so a
// hand-built Plan cannot stall the loop or index an empty window.
func Compute(samples []imu.Sample, p Plan) []Features {
	clean := make([]imu.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Valid() {
			clean = append(clean, s)
		}
	}

	winN, hopN := p.WinN, p.HopN
	if winN < 1 {
		winN = 1
	}
	if hopN < 1 {
		hopN = 1
	}

	var out []Features
	for i := 0; i+winN <= len(clean); i += hopN {
		out = append(out, computeOne(clean[i:i+winN]))
	}
	return out
}

// ComputeClass restricts the stream to one label before windowing, as the
// FALL-only calibration mode requires. Returns ErrEmptyClass when the
// restriction leaves nothing.
func ComputeClass(samples []imu.Sample, label imu.Label, winSeconds, hopSeconds, defaultFS float64) ([]Features, Plan, error) {
	sub := imu.FilterLabel(samples, label)
	if len(sub) == 0 {
		return nil, Plan{}, ErrEmptyClass
	}
	ts := make([]float64, len(sub))
	for i, s := range sub {
		ts[i] = s.T
	}
	p := PlanWindows(ts, winSeconds, hopSeconds, defaultFS)
	return Compute(sub, p), p, nil
}

func computeOne(win []imu.Sample) Features {
	f := Features{
		TStart: win[0].T,
		TEnd:   win[len(win)-1].T,
	}
	var tiltSum float64
	for _, s := range win {
		f.AXPk = math.Max(f.AXPk, math.Abs(s.AX))
		f.AYPk = math.Max(f.AYPk, math.Abs(s.AY))
		f.AZPk = math.Max(f.AZPk, math.Abs(s.AZ))
		f.GXPk = math.Max(f.GXPk, math.Abs(s.GX))
		f.GYPk = math.Max(f.GYPk, math.Abs(s.GY))
		f.GZPk = math.Max(f.GZPk, math.Abs(s.GZ))
		f.ImpactG = math.Max(f.ImpactG, s.AccelMag())
		f.OmegaPeak = math.Max(f.OmegaPeak, s.GyroMag())
		tiltSum += s.TiltDeg()
	}
	f.TiltMean = tiltSum / float64(len(win))
	f.TiltDelta = win[len(win)-1].TiltDeg() - win[0].TiltDeg()
	f.Label = majorityLabel(win)
	return f
}

// majorityLabel picks the window label by sample count. When the window
// mixes NONE with real labels, NONE is dropped first. An equal-count tie
// between two non-NONE labels resolves to the first in sorted label order;
// this tie-break is implementation-defined.
func majorityLabel(win []imu.Sample) imu.Label {
	counts := map[imu.Label]int{}
	for _, s := range win {
		counts[s.Label]++
	}
	if len(counts) > 1 {
		delete(counts, imu.LabelNone)
	}
	if len(counts) == 0 {
		return imu.LabelNone
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)
	best := imu.Label(labels[0])
	for _, l := range labels[1:] {
		if counts[imu.Label(l)] > counts[best] {
			best = imu.Label(l)
		}
	}
	return best
}

// Column extracts one named feature across all windows, in window order.
func Column(feats []Features, name string) []float64 {
	out := make([]float64, len(feats))
	for i, f := range feats {
		out[i] = f.Value(name)
	}
	return out
}

// ColumnByLabel extracts one named feature across the windows carrying the
// given label.
func ColumnByLabel(feats []Features, name string, label imu.Label) []float64 {
	var out []float64
	for _, f := range feats {
		if f.Label == label {
			out = append(out, f.Value(name))
		}
	}
	return out
}
