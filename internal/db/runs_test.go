package db

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/calib"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/window"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())
	return db
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := testDB(t)
	// Applying again must be a no-op, not an error.
	require.NoError(t, db.MigrateUp())

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestInsertAndGetRun(t *testing.T) {
	db := testDB(t)

	id, err := db.InsertRun(&CalibrationRun{
		Source:     "walk_and_fall.csv",
		SampleRate: 50.0,
		WinN:       50,
		HopN:       25,
		Policy:     "quartile",
		ParamsJSON: `{"policy":"quartile"}`,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id, "missing id must be filled with a uuid")

	got, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "walk_and_fall.csv", got.Source)
	assert.Equal(t, 50.0, got.SampleRate)
	assert.Equal(t, "quartile", got.Policy)
	assert.WithinDuration(t, time.Now().UTC(), got.StartedAt, time.Minute)
}

func TestGetRun_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetRun("no-such-run")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestInsertWindowsAndGetWindows(t *testing.T) {
	db := testDB(t)
	id, err := db.InsertRun(&CalibrationRun{Source: "s", Policy: "quartile", ParamsJSON: "{}"})
	require.NoError(t, err)

	feats := []window.Features{
		{TStart: 0, TEnd: 0.98, ImpactG: 2.1, OmegaPeak: 310, TiltDelta: 45, Label: imu.LabelFALL},
		{TStart: 0.5, TEnd: 1.48, ImpactG: 0.9, OmegaPeak: 40, TiltDelta: 2, Label: imu.LabelADL},
	}
	require.NoError(t, db.InsertWindows(id, feats))

	rows, err := db.GetWindows(id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Seq)
	assert.Equal(t, 2.1, rows[0].ImpactG)
	assert.Equal(t, "FALL", rows[0].Label)
	assert.Equal(t, 1, rows[1].Seq)
	assert.Equal(t, "ADL", rows[1].Label)
}

func TestSaveResultAndListRuns(t *testing.T) {
	db := testDB(t)

	samples := make([]imu.Sample, 300)
	for i := range samples {
		ts := float64(i) / 50.0
		samples[i] = imu.Sample{
			T: ts, AX: 1.5 + math.Sin(ts*3), AY: 0.2, AZ: 0.9,
			GX: 100 + 60*math.Sin(ts*4), GY: 20, GZ: 10,
			Label: imu.LabelFALL,
		}
	}
	res, err := calib.Run(samples, calib.Options{
		WinSeconds: 1.0, HopSeconds: 0.5, DefaultFS: 50,
		MaxG: 3.5, MaxDPS: 600, TiltSpan: 120,
		Policy: fuzzy.PolicyQuartile,
	})
	require.NoError(t, err)

	id, err := db.SaveResult("synthetic.csv", res)
	require.NoError(t, err)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "synthetic.csv", run.Source)
	assert.Contains(t, run.ParamsJSON, `"impact_g"`)

	rows, err := db.GetWindows(id)
	require.NoError(t, err)
	assert.Len(t, rows, len(res.Features))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)

	// The stored artifact must round-trip into an engine.
	var ps fuzzy.ParameterSet
	require.NoError(t, json.Unmarshal([]byte(run.ParamsJSON), &ps))
	_, err = fuzzy.NewEngine(&ps, fuzzy.DefaultRules())
	require.NoError(t, err)
}
