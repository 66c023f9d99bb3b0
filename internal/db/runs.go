package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/calib"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/window"
)

// ErrRunNotFound indicates the requested calibration run id is unknown.
var ErrRunNotFound = errors.New("calibration run not found")

// CalibrationRun is one persisted calibration execution.
type CalibrationRun struct {
	ID         string
	Source     string
	StartedAt  time.Time
	SampleRate float64
	WinN       int
	HopN       int
	Policy     string
	ParamsJSON string
}

// WindowRow is the persisted subset of one window's features. Only the
// engine-relevant columns are stored; the full feature table lives in the
// CSV artifact.
type WindowRow struct {
	RunID     string
	Seq       int
	TStart    float64
	TEnd      float64
	ImpactG   float64
	OmegaPeak float64
	TiltDelta float64
	Label     string
}

// InsertRun stores a run record. A missing ID is filled with a fresh uuid;
// the (possibly generated) id is returned.
func (db *DB) InsertRun(run *CalibrationRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := db.Exec(`
		INSERT INTO calibration_runs
			(id, source, started_at, sampling_rate_hz, win_n, hop_n, policy, params_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.SampleRate, run.WinN, run.HopN, run.Policy, run.ParamsJSON,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert calibration run: %w", err)
	}
	return run.ID, nil
}

// InsertWindows stores the window features of a run in one transaction.
func (db *DB) InsertWindows(runID string, feats []window.Features) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO window_features
			(run_id, seq, t_start, t_end, impact_g, omega_peak, tilt_delta, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare window insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range feats {
		if _, err := stmt.Exec(runID, i, f.TStart, f.TEnd, f.ImpactG, f.OmegaPeak, f.TiltDelta, string(f.Label)); err != nil {
			return fmt.Errorf("failed to insert window %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// SaveResult persists one calibration result end to end: the run record
// (with its serialized parameter artifact) and every window row.
func (db *DB) SaveResult(source string, res *calib.Result) (string, error) {
	params, err := res.Params.Marshal()
	if err != nil {
		return "", err
	}
	id, err := db.InsertRun(&CalibrationRun{
		Source:     source,
		SampleRate: res.Plan.FS,
		WinN:       res.Plan.WinN,
		HopN:       res.Plan.HopN,
		Policy:     string(res.Params.Policy),
		ParamsJSON: string(params),
	})
	if err != nil {
		return "", err
	}
	if err := db.InsertWindows(id, res.Features); err != nil {
		return "", err
	}
	return id, nil
}

// GetRun fetches one run by id.
func (db *DB) GetRun(id string) (*CalibrationRun, error) {
	row := db.QueryRow(`
		SELECT id, source, started_at, sampling_rate_hz, win_n, hop_n, policy, params_json
		FROM calibration_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ListRuns returns up to limit runs, most recent first.
func (db *DB) ListRuns(limit int) ([]CalibrationRun, error) {
	rows, err := db.Query(`
		SELECT id, source, started_at, sampling_rate_hz, win_n, hop_n, policy, params_json
		FROM calibration_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calibration runs: %w", err)
	}
	defer rows.Close()

	var runs []CalibrationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetWindows fetches the stored window rows of a run in sequence order.
func (db *DB) GetWindows(runID string) ([]WindowRow, error) {
	rows, err := db.Query(`
		SELECT run_id, seq, t_start, t_end, impact_g, omega_peak, tilt_delta, label
		FROM window_features WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer rows.Close()

	var out []WindowRow
	for rows.Next() {
		var w WindowRow
		if err := rows.Scan(&w.RunID, &w.Seq, &w.TStart, &w.TEnd, &w.ImpactG, &w.OmegaPeak, &w.TiltDelta, &w.Label); err != nil {
			return nil, fmt.Errorf("failed to scan window row: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*CalibrationRun, error) {
	var run CalibrationRun
	var startedAt string
	if err := row.Scan(&run.ID, &run.Source, &startedAt, &run.SampleRate, &run.WinN, &run.HopN, &run.Policy, &run.ParamsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan calibration run: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at %q: %w", startedAt, err)
	}
	run.StartedAt = ts
	return &run, nil
}
