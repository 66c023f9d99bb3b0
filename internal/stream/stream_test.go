package stream

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
)

func TestParseLine_SixFields(t *testing.T) {
	r, err := ParseLine("0.12,-0.03,0.98,1.5,-2.0,0.4")
	require.NoError(t, err)
	assert.False(t, r.HasTime)
	assert.Equal(t, 0.12, r.Sample.AX)
	assert.Equal(t, 0.98, r.Sample.AZ)
	assert.Equal(t, -2.0, r.Sample.GY)
	assert.Equal(t, imu.LabelNone, r.Sample.Label)
}

func TestParseLine_SevenFields(t *testing.T) {
	r, err := ParseLine("12.345, 0.1, 0.2, 0.9, 10, 20, 30")
	require.NoError(t, err)
	assert.True(t, r.HasTime)
	assert.Equal(t, 12.345, r.Sample.T)
	assert.Equal(t, 0.1, r.Sample.AX)
	assert.Equal(t, 30.0, r.Sample.GZ)
}

func TestParseLine_Rejects(t *testing.T) {
	for _, line := range []string{
		"",
		"1,2,3",
		"1,2,3,4,5,6,7,8",
		"a,b,c,d,e,f",
		"0.1,0.2,,0.4,0.5,0.6",
	} {
		_, err := ParseLine(line)
		assert.Errorf(t, err, "line %q should not parse", line)
	}
}

func TestRetroBuffer_EvictsOldestWhenFull(t *testing.T) {
	rb := NewRetroBuffer(3, RetroFallOnly)

	for i := 0; i < 3; i++ {
		_, evicted := rb.Push(imu.Sample{T: float64(i)})
		assert.False(t, evicted)
	}
	e, evicted := rb.Push(imu.Sample{T: 3})
	require.True(t, evicted)
	assert.Equal(t, 0.0, e.Sample.T)
	assert.Equal(t, 3, rb.Len())
}

func TestRetroBuffer_RelabelFallOnly(t *testing.T) {
	rb := NewRetroBuffer(10, RetroFallOnly)
	for i := 0; i < 5; i++ {
		rb.Push(imu.Sample{T: float64(i), Label: imu.LabelNone})
	}

	// ADL labels do not reach back in fall_only mode.
	assert.Equal(t, 0, rb.Relabel(imu.LabelADL, "ev-1"))

	changed := rb.Relabel(imu.LabelFALL, "ev-2")
	assert.Equal(t, 5, changed)

	entries := rb.Drain()
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.Equal(t, imu.LabelFALL, e.Sample.Label)
		assert.Equal(t, "ev-2", e.EventID)
		assert.True(t, e.LabelChanged)
	}
	assert.Equal(t, 0, rb.Len())
}

func TestRetroBuffer_RelabelOff(t *testing.T) {
	rb := NewRetroBuffer(10, RetroOff)
	rb.Push(imu.Sample{Label: imu.LabelNone})
	assert.Equal(t, 0, rb.Relabel(imu.LabelFALL, "ev"))
	assert.Equal(t, imu.LabelNone, rb.Drain()[0].Sample.Label)
}

func TestRetroBuffer_RelabelAll(t *testing.T) {
	rb := NewRetroBuffer(10, RetroAll)
	rb.Push(imu.Sample{Label: imu.LabelNone})
	rb.Push(imu.Sample{Label: imu.LabelADL})
	// Only the entry whose label actually differs counts as changed.
	assert.Equal(t, 1, rb.Relabel(imu.LabelADL, "ev"))
	rbEntries := rb.Drain()
	assert.Equal(t, imu.LabelADL, rbEntries[0].Sample.Label)
	assert.True(t, rbEntries[0].LabelChanged)
	assert.False(t, rbEntries[1].LabelChanged, "matching label must not be marked changed")
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	lw, err := NewLogWriter(&buf)
	require.NoError(t, err)

	err = lw.WriteEntry(Entry{
		Sample:       imu.Sample{T: 1.5, AX: 0.3, AY: 0.4, AZ: 0, GX: 3, GY: 4, GZ: 0, Label: imu.LabelFALL},
		EventID:      "ev-7",
		LabelChanged: true,
	})
	require.NoError(t, err)
	require.NoError(t, lw.Flush())
	assert.Equal(t, 1, lw.Rows())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "t,ax,ay,az,gx,gy,gz,a_mag,w_mag,label,event_id,label_change", lines[0])
	// a_mag = hypot(0.3, 0.4), w_mag = hypot(3, 4)
	assert.Equal(t, "1.5,0.3,0.4,0,3,4,0,0.5,5,FALL,ev-7,true", lines[1])
}

// End-to-end: device lines through the retro buffer into the log.
func TestAcquisitionRoundTrip(t *testing.T) {
	rb := NewRetroBuffer(4, RetroFallOnly)
	var buf bytes.Buffer
	lw, err := NewLogWriter(&buf)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		r, err := ParseLine(fmt.Sprintf("%d.0,0.1,0.2,0.9,5,6,7", i))
		require.NoError(t, err)
		if e, ok := rb.Push(r.Sample); ok {
			require.NoError(t, lw.WriteEntry(e))
		}
	}

	// Keypress: the four samples still buffered become FALL.
	assert.Equal(t, 4, rb.Relabel(imu.LabelFALL, "ev-1"))
	for _, e := range rb.Drain() {
		require.NoError(t, lw.WriteEntry(e))
	}
	require.NoError(t, lw.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9) // header + 8 samples
	for _, ln := range lines[1:5] {
		assert.Contains(t, ln, ",NONE,")
	}
	for _, ln := range lines[5:] {
		assert.Contains(t, ln, ",FALL,ev-1,true")
	}
}
