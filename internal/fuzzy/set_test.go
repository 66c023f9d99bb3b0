package fuzzy

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTriangleMembership_Vertices(t *testing.T) {
	tri := Triangle{A: 1, B: 2, C: 4}
	if got := tri.Membership(1); got != 0 {
		t.Errorf("membership at a = %v, want 0", got)
	}
	if got := tri.Membership(2); got != 1 {
		t.Errorf("membership at b = %v, want 1", got)
	}
	if got := tri.Membership(4); got != 0 {
		t.Errorf("membership at c = %v, want 0", got)
	}
}

func TestTriangleMembership_OutsideSupport(t *testing.T) {
	tri := Triangle{A: 1, B: 2, C: 4}
	for _, x := range []float64{-10, 0.999, 4.001, 100} {
		if got := tri.Membership(x); got != 0 {
			t.Errorf("membership at %v = %v, want 0 outside [a,c]", x, got)
		}
	}
}

func TestTriangleMembership_LinearRamps(t *testing.T) {
	tri := Triangle{A: 0, B: 2, C: 6}
	if got := tri.Membership(1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("rising ramp at midpoint = %v, want 0.5", got)
	}
	if got := tri.Membership(4); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("falling ramp at midpoint = %v, want 0.5", got)
	}
}

func TestTriangleMembership_Shoulders(t *testing.T) {
	// Left shoulder: a == b, full membership at the lower bound.
	left := Triangle{A: 0, B: 0, C: 2}
	if got := left.Membership(0); got != 1 {
		t.Errorf("left shoulder at a=b = %v, want 1", got)
	}
	// Right shoulder: b == c, full membership at the upper bound.
	right := Triangle{A: 3, B: 5, C: 5}
	if got := right.Membership(5); got != 1 {
		t.Errorf("right shoulder at b=c = %v, want 1", got)
	}
}

func TestRepairTriangle_Degenerate(t *testing.T) {
	before := RepairCount.Value()
	tri := repairTriangle(1, 1, 1, 0, 10)
	if !(tri.A < tri.B && tri.B < tri.C) {
		t.Errorf("repair left degenerate bounds: %+v", tri)
	}
	if tri.B-tri.A > 1e-5 || tri.C-tri.B > 1e-5 {
		t.Errorf("repair nudges should be epsilon-sized: %+v", tri)
	}
	if RepairCount.Value() != before+1 {
		t.Error("repair was not counted")
	}
}

func TestRepairTriangle_ClampsToUniverse(t *testing.T) {
	tri := repairTriangle(-5, 2, 99, 0, 10)
	if tri.A < 0 || tri.C > 10 {
		t.Errorf("bounds escape universe: %+v", tri)
	}
}

func TestRepairTriangle_OrderedInputUntouched(t *testing.T) {
	tri := repairTriangle(1, 2, 3, 0, 10)
	if tri != (Triangle{A: 1, B: 2, C: 3}) {
		t.Errorf("well-formed triple was modified: %+v", tri)
	}
}

func TestTriangleJSON_RoundTrip(t *testing.T) {
	in := Triangle{A: 0.25, B: 1.5, C: 3}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out Triangle
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestTriangleJSON_RejectsDisorder(t *testing.T) {
	var tri Triangle
	if err := json.Unmarshal([]byte(`[3, 2, 1]`), &tri); err == nil {
		t.Error("out-of-order bounds should fail to parse")
	}
	if err := json.Unmarshal([]byte(`[1, 2]`), &tri); err == nil {
		t.Error("two-element array should fail to parse")
	}
}
