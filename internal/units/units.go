// Package units provides shared constants and validation for IMU input units.
package units

import "math"

// Acceleration unit constants. The core works in g; CLI inputs may arrive
// in m/s² from sensors that do not normalize by gravity.
const (
	G    = "g"
	MPS2 = "mps2"
)

// Rotation-rate unit constants. The core works in degrees/second.
const (
	DPS   = "dps"
	RADPS = "radps"
)

// StandardGravity is the conversion factor between m/s² and g.
const StandardGravity = 9.80665

// ValidAccelUnits contains all accepted acceleration unit values.
var ValidAccelUnits = []string{G, MPS2}

// ValidGyroUnits contains all accepted rotation-rate unit values.
var ValidGyroUnits = []string{DPS, RADPS}

// IsValidAccel checks if the given unit is an accepted acceleration unit.
func IsValidAccel(unit string) bool {
	for _, u := range ValidAccelUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// IsValidGyro checks if the given unit is an accepted rotation-rate unit.
func IsValidGyro(unit string) bool {
	for _, u := range ValidGyroUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ToG converts an acceleration magnitude in the source units to g.
// Unknown units pass through unchanged.
func ToG(value float64, srcUnits string) float64 {
	switch srcUnits {
	case MPS2:
		return value / StandardGravity
	default:
		return value
	}
}

// ToDPS converts a rotation-rate magnitude in the source units to degrees/second.
// Unknown units pass through unchanged.
func ToDPS(value float64, srcUnits string) float64 {
	switch srcUnits {
	case RADPS:
		return value * 180.0 / math.Pi
	default:
		return value
	}
}
