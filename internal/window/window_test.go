package window

import (
	"math"
	"testing"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
)

func makeStream(n int, dt float64) []imu.Sample {
	samples := make([]imu.Sample, n)
	for i := range samples {
		samples[i] = imu.Sample{
			T:  float64(i) * dt,
			AX: 0.01, AY: 0.02, AZ: 0.98,
			GX: 1, GY: 2, GZ: 3,
			Label: imu.LabelADL,
		}
	}
	return samples
}

func TestEstimateRate(t *testing.T) {
	ts := []float64{0, 0.02, 0.04, 0.06, 0.08}
	if got := EstimateRate(ts, DefaultSampleRate); math.Abs(got-50.0) > 1e-9 {
		t.Errorf("EstimateRate = %v, want 50", got)
	}
}

func TestEstimateRate_IgnoresNonPositiveDeltas(t *testing.T) {
	// One duplicate stamp and one backwards step must not skew the median.
	ts := []float64{0, 0.02, 0.02, 0.01, 0.03, 0.05, 0.07}
	got := EstimateRate(ts, DefaultSampleRate)
	if math.Abs(got-50.0) > 1e-9 {
		t.Errorf("EstimateRate = %v, want 50", got)
	}
}

func TestEstimateRate_Fallback(t *testing.T) {
	if got := EstimateRate([]float64{1, 1, 1}, 50); got != 50 {
		t.Errorf("EstimateRate fallback = %v, want 50", got)
	}
	if got := EstimateRate(nil, 100); got != 100 {
		t.Errorf("EstimateRate(nil) = %v, want default 100", got)
	}
}

func TestPlanWindows_MinimumOneSample(t *testing.T) {
	p := PlanWindows([]float64{0, 1.0}, 0.001, 0.001, 50)
	if p.WinN < 1 || p.HopN < 1 {
		t.Errorf("window/hop must be at least one sample: %+v", p)
	}
}

func TestCompute_WindowCount(t *testing.T) {
	// 1000 samples, win 50, hop 25: floor((1000-50)/25)+1 = 39 windows.
	samples := makeStream(1000, 0.02)
	p := Plan{FS: 50, WinN: 50, HopN: 25}
	feats := Compute(samples, p)
	if want := 39; len(feats) != want {
		t.Fatalf("got %d windows, want %d", len(feats), want)
	}
	if got := p.Count(1000); got != 39 {
		t.Errorf("Plan.Count = %d, want 39", got)
	}
	// Starts advance by hop: window k begins at sample 25k.
	for k, f := range feats {
		wantStart := float64(25*k) * 0.02
		if math.Abs(f.TStart-wantStart) > 1e-9 {
			t.Fatalf("window %d TStart = %v, want %v", k, f.TStart, wantStart)
		}
	}
}

func TestCompute_PartialWindowDropped(t *testing.T) {
	samples := makeStream(60, 0.02)
	feats := Compute(samples, Plan{FS: 50, WinN: 50, HopN: 25})
	if len(feats) != 1 {
		t.Errorf("got %d windows, want 1 (trailing 35 samples dropped)", len(feats))
	}
}

func TestCompute_FloorsDegeneratePlan(t *testing.T) {
	// A hand-built Plan with zero hop or window must terminate and behave
	// like the one-sample minimum PlanWindows enforces.
	samples := makeStream(5, 0.02)
	feats := Compute(samples, Plan{FS: 50, WinN: 2, HopN: 0})
	if want := 4; len(feats) != want {
		t.Fatalf("got %d windows with zero hop, want %d", len(feats), want)
	}
	feats = Compute(samples, Plan{FS: 50, WinN: 0, HopN: 0})
	if want := 5; len(feats) != want {
		t.Fatalf("got %d windows with zero window, want %d", len(feats), want)
	}
	for i, f := range feats {
		if f.TStart != f.TEnd {
			t.Errorf("window %d spans [%v, %v], want single sample", i, f.TStart, f.TEnd)
		}
	}
}

func TestCompute_MagnitudePeakIsPerSampleNorm(t *testing.T) {
	// Axis peaks land on different samples; the magnitude peak must be the
	// largest per-sample norm, not the norm of the per-axis peaks.
	samples := []imu.Sample{
		{T: 0.00, AX: 2, AY: 0, AZ: 0, Label: imu.LabelFALL},
		{T: 0.02, AX: 0, AY: 2, AZ: 0, Label: imu.LabelFALL},
		{T: 0.04, AX: 0, AY: 0, AZ: 1, Label: imu.LabelFALL},
	}
	feats := Compute(samples, Plan{FS: 50, WinN: 3, HopN: 3})
	if len(feats) != 1 {
		t.Fatalf("got %d windows, want 1", len(feats))
	}
	if feats[0].ImpactG != 2 {
		t.Errorf("ImpactG = %v, want 2 (norm of peaks would be %.3f)",
			feats[0].ImpactG, math.Sqrt(4+4+1))
	}
	if feats[0].AXPk != 2 || feats[0].AYPk != 2 || feats[0].AZPk != 1 {
		t.Errorf("per-axis peaks = %v/%v/%v, want 2/2/1",
			feats[0].AXPk, feats[0].AYPk, feats[0].AZPk)
	}
}

func TestCompute_TiltDelta(t *testing.T) {
	samples := []imu.Sample{
		{T: 0.00, AX: 0, AY: 0, AZ: 1, Label: imu.LabelFALL}, // upright
		{T: 0.02, AX: 0.5, AY: 0, AZ: 0.8, Label: imu.LabelFALL},
		{T: 0.04, AX: 1, AY: 0, AZ: 0, Label: imu.LabelFALL}, // horizontal
	}
	feats := Compute(samples, Plan{FS: 50, WinN: 3, HopN: 3})
	if len(feats) != 1 {
		t.Fatalf("got %d windows, want 1", len(feats))
	}
	if math.Abs(feats[0].TiltDelta-90) > 0.01 {
		t.Errorf("TiltDelta = %v, want ~90", feats[0].TiltDelta)
	}
}

func TestMajorityLabel_DropsNoneWhenMixed(t *testing.T) {
	samples := []imu.Sample{
		{T: 0.00, AZ: 1, Label: imu.LabelNone},
		{T: 0.02, AZ: 1, Label: imu.LabelNone},
		{T: 0.04, AZ: 1, Label: imu.LabelFALL},
	}
	feats := Compute(samples, Plan{FS: 50, WinN: 3, HopN: 3})
	if feats[0].Label != imu.LabelFALL {
		t.Errorf("label = %v, want FALL (NONE dropped when mixed)", feats[0].Label)
	}
}

func TestMajorityLabel_AllNone(t *testing.T) {
	samples := makeStream(4, 0.02)
	for i := range samples {
		samples[i].Label = imu.LabelNone
	}
	feats := Compute(samples, Plan{FS: 50, WinN: 4, HopN: 4})
	if feats[0].Label != imu.LabelNone {
		t.Errorf("label = %v, want NONE", feats[0].Label)
	}
}

func TestMajorityLabel_TieSortedOrder(t *testing.T) {
	// Two ADL, two FALL: the documented tie-break is sorted label order.
	samples := []imu.Sample{
		{T: 0.00, AZ: 1, Label: imu.LabelFALL},
		{T: 0.02, AZ: 1, Label: imu.LabelADL},
		{T: 0.04, AZ: 1, Label: imu.LabelFALL},
		{T: 0.06, AZ: 1, Label: imu.LabelADL},
	}
	feats := Compute(samples, Plan{FS: 50, WinN: 4, HopN: 4})
	if feats[0].Label != imu.LabelADL {
		t.Errorf("tie label = %v, want ADL (first in sorted order)", feats[0].Label)
	}
}

func TestComputeClass_Empty(t *testing.T) {
	samples := makeStream(100, 0.02) // all ADL
	_, _, err := ComputeClass(samples, imu.LabelFALL, 1.0, 0.5, 50)
	if err != ErrEmptyClass {
		t.Errorf("err = %v, want ErrEmptyClass", err)
	}
}

func TestComputeClass_RestrictsBeforeWindowing(t *testing.T) {
	samples := makeStream(200, 0.02)
	for i := 100; i < 200; i++ {
		samples[i].Label = imu.LabelFALL
	}
	feats, p, err := ComputeClass(samples, imu.LabelFALL, 1.0, 0.5, 50)
	if err != nil {
		t.Fatalf("ComputeClass failed: %v", err)
	}
	if p.WinN != 50 || p.HopN != 25 {
		t.Errorf("plan = %+v, want WinN 50 HopN 25", p)
	}
	// 100 FALL samples, win 50 hop 25: 3 windows.
	if len(feats) != 3 {
		t.Errorf("got %d windows, want 3", len(feats))
	}
}

func TestCompute_DropsInvalidSamples(t *testing.T) {
	samples := makeStream(10, 0.02)
	samples[3].AX = math.NaN()
	feats := Compute(samples, Plan{FS: 50, WinN: 9, HopN: 9})
	if len(feats) != 1 {
		t.Fatalf("got %d windows, want 1 from the 9 valid samples", len(feats))
	}
	if math.IsNaN(feats[0].ImpactG) {
		t.Error("NaN leaked into window features")
	}
}
