package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// The schema matches the /api/params endpoint so the same JSON can be
// used for both startup configuration and runtime inspection.
type TuningConfig struct {
	// Windowing params
	WindowSeconds     *float64 `json:"window_seconds,omitempty"`
	HopSeconds        *float64 `json:"hop_seconds,omitempty"`
	DefaultSampleRate *float64 `json:"default_sample_rate,omitempty"`

	// Universe bounds for the input variables
	MaxAccelG   *float64 `json:"max_accel_g,omitempty"`
	MaxGyroDPS  *float64 `json:"max_gyro_dps,omitempty"`
	MaxTiltSpan *float64 `json:"max_tilt_span,omitempty"`

	// Calibration params
	PartitionPolicy *string `json:"partition_policy,omitempty"` // "quartile" or "threshold"

	// Inference params
	Resolution *int `json:"resolution,omitempty"`

	// Decision params
	ScoreHigh *float64 `json:"score_high,omitempty"`
	ScoreLow  *float64 `json:"score_low,omitempty"`

	// Retro-label params (optional)
	RetroSeconds *float64 `json:"retro_seconds,omitempty"`
	RetroMode    *string  `json:"retro_mode,omitempty"` // "off", "fall_only", "all"
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // deeper packages
		"../../../../" + DefaultConfigPath, // even deeper
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.WindowSeconds != nil && *c.WindowSeconds <= 0 {
		return fmt.Errorf("window_seconds must be positive, got %f", *c.WindowSeconds)
	}
	if c.HopSeconds != nil && *c.HopSeconds <= 0 {
		return fmt.Errorf("hop_seconds must be positive, got %f", *c.HopSeconds)
	}
	if c.DefaultSampleRate != nil && *c.DefaultSampleRate <= 0 {
		return fmt.Errorf("default_sample_rate must be positive, got %f", *c.DefaultSampleRate)
	}
	if c.MaxAccelG != nil && *c.MaxAccelG <= 0 {
		return fmt.Errorf("max_accel_g must be positive, got %f", *c.MaxAccelG)
	}
	if c.MaxGyroDPS != nil && *c.MaxGyroDPS <= 0 {
		return fmt.Errorf("max_gyro_dps must be positive, got %f", *c.MaxGyroDPS)
	}
	if c.PartitionPolicy != nil {
		switch *c.PartitionPolicy {
		case "quartile", "threshold":
		default:
			return fmt.Errorf("partition_policy must be 'quartile' or 'threshold', got %q", *c.PartitionPolicy)
		}
	}
	if c.Resolution != nil && *c.Resolution < 2 {
		return fmt.Errorf("resolution must be at least 2, got %d", *c.Resolution)
	}
	if c.ScoreHigh != nil && c.ScoreLow != nil && *c.ScoreHigh <= *c.ScoreLow {
		return fmt.Errorf("score_high (%f) must exceed score_low (%f)", *c.ScoreHigh, *c.ScoreLow)
	}
	if c.RetroMode != nil {
		switch *c.RetroMode {
		case "off", "fall_only", "all":
		default:
			return fmt.Errorf("retro_mode must be 'off', 'fall_only' or 'all', got %q", *c.RetroMode)
		}
	}
	return nil
}

// GetWindowSeconds returns the window_seconds value or the default.
func (c *TuningConfig) GetWindowSeconds() float64 {
	if c.WindowSeconds == nil {
		return 1.0
	}
	return *c.WindowSeconds
}

// GetHopSeconds returns the hop_seconds value or the default.
func (c *TuningConfig) GetHopSeconds() float64 {
	if c.HopSeconds == nil {
		return 0.5
	}
	return *c.HopSeconds
}

// GetDefaultSampleRate returns the default_sample_rate value or the default.
func (c *TuningConfig) GetDefaultSampleRate() float64 {
	if c.DefaultSampleRate == nil {
		return 50.0
	}
	return *c.DefaultSampleRate
}

// GetMaxAccelG returns the max_accel_g value or the default.
func (c *TuningConfig) GetMaxAccelG() float64 {
	if c.MaxAccelG == nil {
		return 3.5
	}
	return *c.MaxAccelG
}

// GetMaxGyroDPS returns the max_gyro_dps value or the default.
func (c *TuningConfig) GetMaxGyroDPS() float64 {
	if c.MaxGyroDPS == nil {
		return 600.0
	}
	return *c.MaxGyroDPS
}

// GetMaxTiltSpan returns the max_tilt_span value or the default.
func (c *TuningConfig) GetMaxTiltSpan() float64 {
	if c.MaxTiltSpan == nil {
		return 120.0
	}
	return *c.MaxTiltSpan
}

// GetPartitionPolicy returns the partition_policy value or the default.
func (c *TuningConfig) GetPartitionPolicy() string {
	if c.PartitionPolicy == nil {
		return "quartile"
	}
	return *c.PartitionPolicy
}

// GetResolution returns the resolution value or the default.
func (c *TuningConfig) GetResolution() int {
	if c.Resolution == nil {
		return 101
	}
	return *c.Resolution
}

// GetScoreHigh returns the score_high value or the default.
func (c *TuningConfig) GetScoreHigh() float64 {
	if c.ScoreHigh == nil {
		return 0.7
	}
	return *c.ScoreHigh
}

// GetScoreLow returns the score_low value or the default.
func (c *TuningConfig) GetScoreLow() float64 {
	if c.ScoreLow == nil {
		return 0.5
	}
	return *c.ScoreLow
}

// GetRetroSeconds returns the retro_seconds value or the default.
func (c *TuningConfig) GetRetroSeconds() float64 {
	if c.RetroSeconds == nil {
		return 2.0
	}
	return *c.RetroSeconds
}

// GetRetroMode returns the retro_mode value or the default.
func (c *TuningConfig) GetRetroMode() string {
	if c.RetroMode == nil {
		return "fall_only"
	}
	return *c.RetroMode
}
