// Package config handles loading and saving placement settings.
package config

import (
	"github.com/Faultbox/propscatter/internal/batch"
	"github.com/Faultbox/propscatter/internal/commit"
	"github.com/Faultbox/propscatter/internal/scatter"
	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// Config holds all tool settings.
type Config struct {
	Placement PlacementConfig `yaml:"placement"`
	Pointer   RayConfig       `yaml:"pointer"`
	Scene     SceneConfig     `yaml:"scene"`
	Output    OutputConfig    `yaml:"output"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PlacementConfig holds the placement region parameters.
type PlacementConfig struct {
	Radius          float32    `yaml:"radius"`
	SampleCount     int        `yaml:"sample_count"`
	PrefabPool      []string   `yaml:"prefab_pool"` // Empty means every prefab in the scene
	ReferenceUp     [3]float32 `yaml:"reference_up"`
	ProbeMargin     float32    `yaml:"probe_margin"`
	OutlineSegments int        `yaml:"outline_segments"`
	OutlineLift     float32    `yaml:"outline_lift"`
	Seed            uint64     `yaml:"seed"`
}

// RayConfig is a ray in world space.
type RayConfig struct {
	Origin    [3]float32 `yaml:"origin"`
	Direction [3]float32 `yaml:"direction"`
}

// SceneConfig points at the scene description.
type SceneConfig struct {
	Path string `yaml:"path"` // Empty means a flat ground plane
}

// OutputConfig holds commit output settings.
type OutputConfig struct {
	Journal string `yaml:"journal"`
	Label   string `yaml:"label"` // Undo label of each committed group
}

// BatchConfig holds offline batch settings.
type BatchConfig struct {
	Workers int            `yaml:"workers"`
	Anchors []AnchorConfig `yaml:"anchors"`
}

// AnchorConfig is a named pointer ray for batch runs.
type AnchorConfig struct {
	Name      string     `yaml:"name"`
	Origin    [3]float32 `yaml:"origin"`
	Direction [3]float32 `yaml:"direction"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := scatter.DefaultSettings()
	return &Config{
		Placement: PlacementConfig{
			Radius:          s.Radius,
			SampleCount:     s.SampleCount,
			ReferenceUp:     s.ReferenceUp.Array(),
			ProbeMargin:     s.ProbeMargin,
			OutlineSegments: s.OutlineSegments,
			OutlineLift:     s.OutlineLift,
			Seed:            1,
		},
		Pointer: RayConfig{
			Origin:    [3]float32{0, 10, 0},
			Direction: [3]float32{0, -1, 0},
		},
		Output: OutputConfig{
			Journal: "journal.yaml",
			Label:   commit.DefaultLabel,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Normalize clamps values into their valid ranges.
func (c *Config) Normalize() {
	s := c.Settings()
	c.Placement.Radius = s.Radius
	c.Placement.SampleCount = s.SampleCount
	c.Placement.ReferenceUp = s.ReferenceUp.Array()
	c.Placement.ProbeMargin = s.ProbeMargin
	c.Placement.OutlineSegments = s.OutlineSegments
	if c.Batch.Workers < 1 {
		c.Batch.Workers = 1
	}
}

// Settings converts the placement section to tool settings.
func (c *Config) Settings() scatter.Settings {
	return scatter.Settings{
		Radius:          c.Placement.Radius,
		SampleCount:     c.Placement.SampleCount,
		PrefabPool:      c.Placement.PrefabPool,
		ReferenceUp:     math.Vec3FromArray(c.Placement.ReferenceUp),
		ProbeMargin:     c.Placement.ProbeMargin,
		OutlineSegments: c.Placement.OutlineSegments,
		OutlineLift:     c.Placement.OutlineLift,
	}.Normalize()
}

// PointerRay returns the configured pointer ray.
func (c *Config) PointerRay() surface.Ray {
	return surface.NewRay(math.Vec3FromArray(c.Pointer.Origin), math.Vec3FromArray(c.Pointer.Direction))
}

// Jobs returns the batch anchors as jobs.
func (c *Config) Jobs() []batch.Job {
	jobs := make([]batch.Job, len(c.Batch.Anchors))
	for i, a := range c.Batch.Anchors {
		jobs[i] = batch.Job{
			Name:    a.Name,
			Pointer: surface.NewRay(math.Vec3FromArray(a.Origin), math.Vec3FromArray(a.Direction)),
		}
	}
	return jobs
}
