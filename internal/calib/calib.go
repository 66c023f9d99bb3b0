// Package calib orchestrates the offline calibration pipeline: labeled
// samples in, windowed features and a fuzzy parameter artifact out. The
// pipeline is deterministic; re-running it on the same input produces a
// byte-identical artifact.
package calib

import (
	"fmt"
	"math"
	"strings"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/config"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/stats"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/window"
)

// Options fixes one calibration run. Universe bounds are per feature family:
// acceleration features live on [0, MaxG], rotation features on [0, MaxDPS],
// tilt features on [0, TiltSpan].
type Options struct {
	WinSeconds float64
	HopSeconds float64
	DefaultFS  float64

	MaxG     float64
	MaxDPS   float64
	TiltSpan float64

	Policy fuzzy.Policy
}

// OptionsFromConfig builds Options from the tuning config, applying the
// documented defaults for any unset field.
func OptionsFromConfig(cfg *config.TuningConfig) Options {
	return Options{
		WinSeconds: cfg.GetWindowSeconds(),
		HopSeconds: cfg.GetHopSeconds(),
		DefaultFS:  cfg.GetDefaultSampleRate(),
		MaxG:       cfg.GetMaxAccelG(),
		MaxDPS:     cfg.GetMaxGyroDPS(),
		TiltSpan:   cfg.GetMaxTiltSpan(),
		Policy:     fuzzy.Policy(cfg.GetPartitionPolicy()),
	}
}

// Result is everything one calibration run produced.
type Result struct {
	Plan     window.Plan
	Features []window.Features
	Params   *fuzzy.ParameterSet
}

// universe returns the (lo, hi) bounds for a feature name.
func (o Options) universe(feature string) (float64, float64) {
	switch {
	case strings.HasPrefix(feature, "g") || feature == "omega_peak":
		return 0, o.MaxDPS
	case strings.HasPrefix(feature, "tilt"):
		return 0, o.TiltSpan
	default:
		return 0, o.MaxG
	}
}

// termNames returns the three linguistic term names for a feature, low to
// high. Rotation features use the slow/medium/fast vocabulary the rule base
// is written in.
func termNames(feature string) [3]string {
	if strings.HasPrefix(feature, "g") || feature == "omega_peak" {
		return [3]string{"slow", "medium", "fast"}
	}
	return [3]string{"low", "medium", "high"}
}

// Run executes the pipeline for one labeled recording. The quartile policy
// derives every feature's partition from FALL windows only and fails when
// the recording has no FALL samples; the threshold policy windows the whole
// stream and splits the feature columns by window majority label.
func Run(samples []imu.Sample, o Options) (*Result, error) {
	if !o.Policy.Valid() {
		return nil, fmt.Errorf("unknown partition policy %q", o.Policy)
	}

	var (
		feats []window.Features
		plan  window.Plan
		err   error
	)
	switch o.Policy {
	case fuzzy.PolicyQuartile:
		feats, plan, err = window.ComputeClass(samples, imu.LabelFALL, o.WinSeconds, o.HopSeconds, o.DefaultFS)
		if err != nil {
			return nil, fmt.Errorf("quartile calibration: %w", err)
		}
	case fuzzy.PolicyThreshold:
		ts := make([]float64, 0, len(samples))
		for _, s := range samples {
			if s.Valid() {
				ts = append(ts, s.T)
			}
		}
		plan = window.PlanWindows(ts, o.WinSeconds, o.HopSeconds, o.DefaultFS)
		feats = window.Compute(samples, plan)
	}
	if len(feats) == 0 {
		return nil, fmt.Errorf("calibration: no full window fits the recording (win=%d samples)", plan.WinN)
	}

	vars := make(map[string]fuzzy.VariableParams, len(window.FeatureNames)+1)
	for _, name := range window.FeatureNames {
		lo, hi := o.universe(name)
		var vp fuzzy.VariableParams
		switch o.Policy {
		case fuzzy.PolicyQuartile:
			vp = quartileVariable(feats, name, lo, hi)
		case fuzzy.PolicyThreshold:
			vp = thresholdVariable(feats, name, lo, hi)
		}
		vars[name] = vp
	}

	// The output universe is hand-authored, not derived; embedding it in
	// the artifact keeps the engine free of out-of-band defaults.
	out := fuzzy.DefaultOutputVariable()
	vars[fuzzy.ScoreFeature] = fuzzy.VariableParams{
		Universe: [2]float64{out.Lo, out.Hi},
		Trimf:    out.Sets,
	}

	ps := &fuzzy.ParameterSet{
		Policy:     o.Policy,
		SampleRate: plan.FS,
		Windows:    len(feats),
		Variables:  vars,
	}
	monitoring.Logf("calib: %s policy, %d windows at %.2f Hz (win=%d hop=%d)",
		o.Policy, len(feats), plan.FS, plan.WinN, plan.HopN)

	return &Result{Plan: plan, Features: feats, Params: ps}, nil
}

func quartileVariable(feats []window.Features, name string, lo, hi float64) fuzzy.VariableParams {
	sum := stats.Summarize(window.Column(feats, name))
	tris := fuzzy.QuartilePartition(sum, lo, hi)
	vp := fuzzy.VariableParams{
		Universe: [2]float64{lo, hi},
		Trimf:    nameTriangles(name, tris),
	}
	if !sum.Empty() {
		vp.Percentiles = &sum
	}
	return vp
}

func thresholdVariable(feats []window.Features, name string, lo, hi float64) fuzzy.VariableParams {
	adl := stats.Summarize(window.ColumnByLabel(feats, name, imu.LabelADL))
	fall := stats.Summarize(window.ColumnByLabel(feats, name, imu.LabelFALL))
	tris := fuzzy.ThresholdPartition(adl, fall, lo, hi)

	vp := fuzzy.VariableParams{
		Universe:         [2]float64{lo, hi},
		Trimf:            nameTriangles(name, tris),
		ClassPercentiles: map[string]stats.Summary{},
	}
	if !adl.Empty() {
		vp.ClassPercentiles[string(imu.LabelADL)] = adl
	}
	if !fall.Empty() {
		vp.ClassPercentiles[string(imu.LabelFALL)] = fall
	}
	if len(vp.ClassPercentiles) == 0 {
		vp.ClassPercentiles = nil
	}
	if thr := fuzzy.Threshold(adl, fall); !math.IsNaN(thr) {
		vp.Threshold = &thr
	}
	return vp
}

func nameTriangles(feature string, tris [3]fuzzy.Triangle) map[string]fuzzy.Triangle {
	names := termNames(feature)
	return map[string]fuzzy.Triangle{
		names[0]: tris[0],
		names[1]: tris[1],
		names[2]: tris[2],
	}
}
