// Package imu defines the six-axis sample model shared by the calibration
// pipeline and the acquisition tooling, along with the magnitude and tilt
// math used for feature extraction.
package imu

import (
	"math"
	"strings"
)

// Label is the human-assigned activity class of a sample.
type Label string

const (
	// LabelADL marks ordinary activities of daily living.
	LabelADL Label = "ADL"
	// LabelFALL marks samples recorded during a fall event.
	LabelFALL Label = "FALL"
	// LabelNone marks unlabeled samples.
	LabelNone Label = "NONE"
)

// ParseLabel normalizes free text into one of the three labels. Anything
// unrecognized becomes NONE rather than an error: unlabeled stretches are
// expected in real recordings.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(LabelADL):
		return LabelADL
	case string(LabelFALL):
		return LabelFALL
	default:
		return LabelNone
	}
}

// Sample is one timestamped six-axis IMU reading. Acceleration is in g,
// rotation rate in degrees/second, T in seconds from the start of the
// recording. Fields holding NaN are missing values and are excluded from
// statistics downstream.
type Sample struct {
	T     float64
	AX    float64
	AY    float64
	AZ    float64
	GX    float64
	GY    float64
	GZ    float64
	Label Label
}

// tiltEpsilon keeps atan2 defined when the device is exactly horizontal.
const tiltEpsilon = 1e-9

// AccelMag returns the Euclidean norm of the three acceleration axes in g.
func (s Sample) AccelMag() float64 {
	return math.Sqrt(s.AX*s.AX + s.AY*s.AY + s.AZ*s.AZ)
}

// GyroMag returns the Euclidean norm of the three rotation axes in deg/s.
func (s Sample) GyroMag() float64 {
	return math.Sqrt(s.GX*s.GX + s.GY*s.GY + s.GZ*s.GZ)
}

// TiltDeg returns trunk tilt relative to the gravity axis in degrees:
// 0 = upright, ~90 = horizontal. Uses only the accelerometer and clamps
// the result to [0, 180].
func (s Sample) TiltDeg() float64 {
	horiz := math.Sqrt(s.AX*s.AX + s.AY*s.AY)
	ang := math.Atan2(horiz, math.Abs(s.AZ)+tiltEpsilon) * 180.0 / math.Pi
	return math.Max(0, math.Min(180, ang))
}

// Valid reports whether every numeric field is present (non-NaN).
func (s Sample) Valid() bool {
	for _, v := range []float64{s.T, s.AX, s.AY, s.AZ, s.GX, s.GY, s.GZ} {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}

// FilterLabel returns the subsequence of samples carrying the given label,
// preserving order.
func FilterLabel(samples []Sample, label Label) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Label == label {
			out = append(out, s)
		}
	}
	return out
}
