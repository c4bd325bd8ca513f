package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/pose-overlay/internal/overlay"
)

// DefaultConfigPath is the path to the canonical overlay defaults file.
const DefaultConfigPath = "config/overlay.defaults.json"

// OverlayConfig is the root configuration for an overlay session and the
// benchmark harness that exercises it. Every field is optional; the Get*
// accessors supply defaults for anything omitted.
type OverlayConfig struct {
	// Surface and sensor geometry. Image dimensions are the sensor buffer
	// before rotation.
	ViewWidth       *int    `json:"view_width,omitempty"`
	ViewHeight      *int    `json:"view_height,omitempty"`
	ImageWidth      *int    `json:"image_width,omitempty"`
	ImageHeight     *int    `json:"image_height,omitempty"`
	RotationDegrees *int    `json:"rotation_degrees,omitempty"`
	Mirrored        *bool   `json:"mirrored,omitempty"`
	FitMode         *string `json:"fit_mode,omitempty"` // fill, center_crop, center_inside

	// Diagnostics
	MetricsEnabled        *bool `json:"metrics_enabled,omitempty"`
	MetricsSampleInterval *int  `json:"metrics_sample_interval,omitempty"`

	// Benchmark workload
	BenchIterations  *int `json:"bench_iterations,omitempty"`
	PointsPerSubject *int `json:"points_per_subject,omitempty"`
	SubjectsPerFrame *int `json:"subjects_per_frame,omitempty"`
	SweepGrid        *int `json:"sweep_grid,omitempty"`

	// Regression gates
	RegressionRatio   *float64 `json:"regression_ratio,omitempty"`
	ImprovementRatio  *float64 `json:"improvement_ratio,omitempty"`
	MaxBatchLatency   *string  `json:"max_batch_latency,omitempty"` // duration string like "5ms"
	FrameBudget       *string  `json:"frame_budget,omitempty"`
	MaxReprojectionPx *float64 `json:"max_reprojection_px,omitempty"`
	BaselinePath      *string  `json:"baseline_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyOverlayConfig returns an OverlayConfig with all fields unset.
func EmptyOverlayConfig() *OverlayConfig {
	return &OverlayConfig{}
}

// LoadOverlayConfig loads an OverlayConfig from a JSON file. The file must
// have a .json extension and be under 1MB. Omitted fields fall back to the
// Get* defaults, so partial configs are safe.
func LoadOverlayConfig(path string) (*OverlayConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

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

	cfg := EmptyOverlayConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *OverlayConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadOverlayConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable. Zero dimensions are
// accepted because the engine treats them as a degenerate surface.
func (c *OverlayConfig) Validate() error {
	for name, v := range map[string]*int{
		"view_width":   c.ViewWidth,
		"view_height":  c.ViewHeight,
		"image_width":  c.ImageWidth,
		"image_height": c.ImageHeight,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}

	if c.FitMode != nil {
		if _, err := overlay.ParseFitMode(*c.FitMode); err != nil {
			return fmt.Errorf("invalid fit_mode: %w", err)
		}
	}

	for name, v := range map[string]*int{
		"metrics_sample_interval": c.MetricsSampleInterval,
		"bench_iterations":        c.BenchIterations,
		"points_per_subject":      c.PointsPerSubject,
		"subjects_per_frame":      c.SubjectsPerFrame,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, *v)
		}
	}
	if c.SweepGrid != nil && *c.SweepGrid < 2 {
		return fmt.Errorf("sweep_grid must be at least 2, got %d", *c.SweepGrid)
	}

	if c.RegressionRatio != nil && *c.RegressionRatio < 1 {
		return fmt.Errorf("regression_ratio must be >= 1, got %f", *c.RegressionRatio)
	}
	if c.ImprovementRatio != nil && (*c.ImprovementRatio <= 0 || *c.ImprovementRatio > 1) {
		return fmt.Errorf("improvement_ratio must be in (0, 1], got %f", *c.ImprovementRatio)
	}
	if c.MaxReprojectionPx != nil && *c.MaxReprojectionPx <= 0 {
		return fmt.Errorf("max_reprojection_px must be positive, got %f", *c.MaxReprojectionPx)
	}

	if c.MaxBatchLatency != nil && *c.MaxBatchLatency != "" {
		if _, err := time.ParseDuration(*c.MaxBatchLatency); err != nil {
			return fmt.Errorf("invalid max_batch_latency '%s': %w", *c.MaxBatchLatency, err)
		}
	}
	if c.FrameBudget != nil && *c.FrameBudget != "" {
		if _, err := time.ParseDuration(*c.FrameBudget); err != nil {
			return fmt.Errorf("invalid frame_budget '%s': %w", *c.FrameBudget, err)
		}
	}

	return nil
}

// TransformConfig builds the engine configuration from the geometry fields.
func (c *OverlayConfig) TransformConfig() overlay.TransformConfig {
	return overlay.TransformConfig{
		ViewWidth:       c.GetViewWidth(),
		ViewHeight:      c.GetViewHeight(),
		ImageWidth:      c.GetImageWidth(),
		ImageHeight:     c.GetImageHeight(),
		RotationDegrees: c.GetRotationDegrees(),
		Mirrored:        c.GetMirrored(),
		FitMode:         c.GetFitMode(),
	}
}

// GetViewWidth returns the view_width value or the default.
func (c *OverlayConfig) GetViewWidth() int {
	if c.ViewWidth == nil {
		return 1080
	}
	return *c.ViewWidth
}

// GetViewHeight returns the view_height value or the default.
func (c *OverlayConfig) GetViewHeight() int {
	if c.ViewHeight == nil {
		return 1920
	}
	return *c.ViewHeight
}

// GetImageWidth returns the image_width value or the default.
func (c *OverlayConfig) GetImageWidth() int {
	if c.ImageWidth == nil {
		return 1280
	}
	return *c.ImageWidth
}

// GetImageHeight returns the image_height value or the default.
func (c *OverlayConfig) GetImageHeight() int {
	if c.ImageHeight == nil {
		return 720
	}
	return *c.ImageHeight
}

// GetRotationDegrees returns the rotation_degrees value or the default.
func (c *OverlayConfig) GetRotationDegrees() int {
	if c.RotationDegrees == nil {
		return 90
	}
	return *c.RotationDegrees
}

// GetMirrored returns the mirrored value or the default (front camera).
func (c *OverlayConfig) GetMirrored() bool {
	if c.Mirrored == nil {
		return true
	}
	return *c.Mirrored
}

// GetFitMode parses fit_mode, returning FitCenterCrop when unset or invalid.
func (c *OverlayConfig) GetFitMode() overlay.FitMode {
	if c.FitMode == nil {
		return overlay.FitCenterCrop
	}
	m, err := overlay.ParseFitMode(*c.FitMode)
	if err != nil {
		return overlay.FitCenterCrop
	}
	return m
}

// GetMetricsEnabled returns the metrics_enabled value or the default.
func (c *OverlayConfig) GetMetricsEnabled() bool {
	if c.MetricsEnabled == nil {
		return false
	}
	return *c.MetricsEnabled
}

// GetMetricsSampleInterval returns the metrics_sample_interval value or the default.
func (c *OverlayConfig) GetMetricsSampleInterval() int {
	if c.MetricsSampleInterval == nil {
		return 1
	}
	return *c.MetricsSampleInterval
}

// GetBenchIterations returns the bench_iterations value or the default.
func (c *OverlayConfig) GetBenchIterations() int {
	if c.BenchIterations == nil {
		return 1000
	}
	return *c.BenchIterations
}

// GetPointsPerSubject returns the points_per_subject value or the default.
func (c *OverlayConfig) GetPointsPerSubject() int {
	if c.PointsPerSubject == nil {
		return 33
	}
	return *c.PointsPerSubject
}

// GetSubjectsPerFrame returns the subjects_per_frame value or the default.
func (c *OverlayConfig) GetSubjectsPerFrame() int {
	if c.SubjectsPerFrame == nil {
		return 1
	}
	return *c.SubjectsPerFrame
}

// GetSweepGrid returns the sweep_grid value or the default.
func (c *OverlayConfig) GetSweepGrid() int {
	if c.SweepGrid == nil {
		return 21
	}
	return *c.SweepGrid
}

// GetRegressionRatio returns the regression_ratio value or the default.
func (c *OverlayConfig) GetRegressionRatio() float64 {
	if c.RegressionRatio == nil {
		return 1.05
	}
	return *c.RegressionRatio
}

// GetImprovementRatio returns the improvement_ratio value or the default.
func (c *OverlayConfig) GetImprovementRatio() float64 {
	if c.ImprovementRatio == nil {
		return 0.95
	}
	return *c.ImprovementRatio
}

// GetMaxBatchLatency parses and returns max_batch_latency.
func (c *OverlayConfig) GetMaxBatchLatency() time.Duration {
	return parseDurationOr(c.MaxBatchLatency, 5*time.Millisecond)
}

// GetFrameBudget parses and returns frame_budget (one 60 FPS frame by default).
func (c *OverlayConfig) GetFrameBudget() time.Duration {
	return parseDurationOr(c.FrameBudget, 16666666*time.Nanosecond)
}

// GetMaxReprojectionPx returns the max_reprojection_px value or the default.
func (c *OverlayConfig) GetMaxReprojectionPx() float64 {
	if c.MaxReprojectionPx == nil {
		return 2.0
	}
	return *c.MaxReprojectionPx
}

// GetBaselinePath returns the baseline_path value or the default.
func (c *OverlayConfig) GetBaselinePath() string {
	if c.BaselinePath == nil || *c.BaselinePath == "" {
		return "performance_baselines.json"
	}
	return *c.BaselinePath
}

func parseDurationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}
