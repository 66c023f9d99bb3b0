// Package stream handles live IMU acquisition: parsing the device's
// comma-separated line protocol, reading it from a serial port, and
// buffering recent samples so a labeling keypress can relabel the seconds
// leading up to it.
package stream

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
)

// Reading is one parsed device line. HasTime reports whether the device
// included its own timestamp; otherwise the receiver assigns one.
type Reading struct {
	Sample  imu.Sample
	HasTime bool
}

// ParseLine parses one device line. Two layouts are accepted:
//
//	ax,ay,az,gx,gy,gz
//	t,ax,ay,az,gx,gy,gz
//
// Accelerations are in g, rotation rates in deg/s, t in seconds. The parsed
// sample carries no label; labeling happens downstream.
func ParseLine(line string) (Reading, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	var r Reading
	var vals []float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("bad field %d in line %q: %w", i, line, err)
		}
		vals = append(vals, v)
	}

	switch len(vals) {
	case 6:
		r.Sample = imu.Sample{
			AX: vals[0], AY: vals[1], AZ: vals[2],
			GX: vals[3], GY: vals[4], GZ: vals[5],
			Label: imu.LabelNone,
		}
	case 7:
		r.HasTime = true
		r.Sample = imu.Sample{
			T:  vals[0],
			AX: vals[1], AY: vals[2], AZ: vals[3],
			GX: vals[4], GY: vals[5], GZ: vals[6],
			Label: imu.LabelNone,
		}
	default:
		return Reading{}, fmt.Errorf("expected 6 or 7 fields, got %d in line %q", len(vals), line)
	}
	return r, nil
}
