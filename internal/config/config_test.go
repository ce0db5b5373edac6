package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/propscatter/internal/scatter"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test placement defaults
	if cfg.Placement.Radius != 2 {
		t.Errorf("expected radius 2, got %f", cfg.Placement.Radius)
	}
	if cfg.Placement.SampleCount != 8 {
		t.Errorf("expected sample count 8, got %d", cfg.Placement.SampleCount)
	}
	if cfg.Placement.ReferenceUp != [3]float32{0, 1, 0} {
		t.Errorf("expected reference up (0,1,0), got %v", cfg.Placement.ReferenceUp)
	}
	if cfg.Placement.ProbeMargin != scatter.DefaultProbeMargin {
		t.Errorf("expected probe margin %f, got %f", scatter.DefaultProbeMargin, cfg.Placement.ProbeMargin)
	}
	if len(cfg.Placement.PrefabPool) != 0 {
		t.Errorf("expected empty prefab pool, got %v", cfg.Placement.PrefabPool)
	}

	// Test pointer defaults
	if cfg.Pointer.Direction != [3]float32{0, -1, 0} {
		t.Errorf("expected pointer pointing down, got %v", cfg.Pointer.Direction)
	}

	// Test output and batch defaults
	if cfg.Output.Journal != "journal.yaml" {
		t.Errorf("expected journal 'journal.yaml', got %s", cfg.Output.Journal)
	}
	if cfg.Output.Label != "Spawn Props" {
		t.Errorf("expected label 'Spawn Props', got %s", cfg.Output.Label)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
placement:
  radius: 5
  sample_count: 32
  prefab_pool: [rock, bush]
  reference_up: [0, 0, 1]
  seed: 42

pointer:
  origin: [1, 20, 3]
  direction: [0, -1, 0]

scene:
  path: "courtyard.yaml"

output:
  journal: "out/journal.yaml"

batch:
  workers: 2
  anchors:
    - name: north
      origin: [0, 10, 20]
      direction: [0, -1, 0]
    - name: south
      origin: [0, 10, -20]
      direction: [0, -1, 0]

logging:
  level: "debug"
  log_file: "scatter.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Placement.Radius != 5 {
		t.Errorf("expected radius 5, got %f", cfg.Placement.Radius)
	}
	if cfg.Placement.SampleCount != 32 {
		t.Errorf("expected sample count 32, got %d", cfg.Placement.SampleCount)
	}
	if len(cfg.Placement.PrefabPool) != 2 || cfg.Placement.PrefabPool[1] != "bush" {
		t.Errorf("expected pool [rock bush], got %v", cfg.Placement.PrefabPool)
	}
	if cfg.Placement.ReferenceUp != [3]float32{0, 0, 1} {
		t.Errorf("expected reference up (0,0,1), got %v", cfg.Placement.ReferenceUp)
	}
	if cfg.Placement.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Placement.Seed)
	}

	// Unset fields keep their defaults
	if cfg.Placement.OutlineSegments != 64 {
		t.Errorf("expected outline segments 64, got %d", cfg.Placement.OutlineSegments)
	}

	if cfg.Pointer.Origin != [3]float32{1, 20, 3} {
		t.Errorf("expected pointer origin (1,20,3), got %v", cfg.Pointer.Origin)
	}
	if cfg.Scene.Path != "courtyard.yaml" {
		t.Errorf("expected scene courtyard.yaml, got %s", cfg.Scene.Path)
	}
	if cfg.Output.Journal != "out/journal.yaml" {
		t.Errorf("expected journal out/journal.yaml, got %s", cfg.Output.Journal)
	}

	if cfg.Batch.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Batch.Workers)
	}
	if len(cfg.Batch.Anchors) != 2 || cfg.Batch.Anchors[0].Name != "north" {
		t.Fatalf("expected anchors [north south], got %v", cfg.Batch.Anchors)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "scatter.log" {
		t.Errorf("expected log file 'scatter.log', got %s", cfg.Logging.LogFile)
	}

	jobs := cfg.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[1].Name != "south" || jobs[1].Pointer.Origin.Z != -20 {
		t.Errorf("unexpected job %+v", jobs[1])
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
placement:
  radius: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Placement.Radius = 0.25
	cfg.Placement.SampleCount = 100000
	cfg.Placement.ReferenceUp = [3]float32{}
	cfg.Placement.ProbeMargin = -1
	cfg.Placement.OutlineSegments = 1
	cfg.Batch.Workers = 0

	cfg.Normalize()

	if cfg.Placement.Radius != 1 {
		t.Errorf("expected radius clamped to 1, got %f", cfg.Placement.Radius)
	}
	if cfg.Placement.SampleCount != scatter.MaxSampleCount {
		t.Errorf("expected sample count clamped to %d, got %d", scatter.MaxSampleCount, cfg.Placement.SampleCount)
	}
	if cfg.Placement.ReferenceUp != [3]float32{0, 1, 0} {
		t.Errorf("expected zero reference up replaced by (0,1,0), got %v", cfg.Placement.ReferenceUp)
	}
	if cfg.Placement.ProbeMargin != scatter.DefaultProbeMargin {
		t.Errorf("expected default probe margin, got %f", cfg.Placement.ProbeMargin)
	}
	if cfg.Placement.OutlineSegments != scatter.MinOutlineSegments {
		t.Errorf("expected outline segments %d, got %d", scatter.MinOutlineSegments, cfg.Placement.OutlineSegments)
	}
	if cfg.Batch.Workers != 1 {
		t.Errorf("expected 1 worker, got %d", cfg.Batch.Workers)
	}
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.Placement.PrefabPool = []string{"rock"}

	s := cfg.Settings()
	if s.Radius != cfg.Placement.Radius {
		t.Errorf("expected radius %f, got %f", cfg.Placement.Radius, s.Radius)
	}
	if s.SampleCount != cfg.Placement.SampleCount {
		t.Errorf("expected sample count %d, got %d", cfg.Placement.SampleCount, s.SampleCount)
	}
	if len(s.PrefabPool) != 1 || s.PrefabPool[0] != "rock" {
		t.Errorf("expected pool [rock], got %v", s.PrefabPool)
	}
	if s.ReferenceUp.Y != 1 {
		t.Errorf("expected reference up Y=1, got %v", s.ReferenceUp)
	}
}

func TestPointerRay(t *testing.T) {
	cfg := Default()
	cfg.Pointer.Direction = [3]float32{0, -4, 0}

	ray := cfg.PointerRay()
	if ray.Direction.Y != -1 {
		t.Errorf("expected normalized direction, got %v", ray.Direction)
	}
	if ray.Origin.Y != 10 {
		t.Errorf("expected origin Y=10, got %v", ray.Origin)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create propscatter.yaml in current directory
	configPath := filepath.Join(tmpDir, "propscatter.yaml")
	if err := os.WriteFile(configPath, []byte("placement:\n  radius: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find propscatter.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "scene flag",
			setup: func() {
				*flagScene = "yard.yaml"
			},
			verify: func(cfg *Config) {
				if cfg.Scene.Path != "yard.yaml" {
					t.Errorf("expected scene yard.yaml, got %s", cfg.Scene.Path)
				}
			},
			teardown: func() {
				*flagScene = ""
			},
		},
		{
			name: "radius and count flags",
			setup: func() {
				*flagRadius = 6
				*flagCount = 24
			},
			verify: func(cfg *Config) {
				if cfg.Placement.Radius != 6 {
					t.Errorf("expected radius 6, got %f", cfg.Placement.Radius)
				}
				if cfg.Placement.SampleCount != 24 {
					t.Errorf("expected sample count 24, got %d", cfg.Placement.SampleCount)
				}
			},
			teardown: func() {
				*flagRadius = 0
				*flagCount = 0
			},
		},
		{
			name: "seed flag",
			setup: func() {
				*flagSeed = 0
			},
			verify: func(cfg *Config) {
				if cfg.Placement.Seed != 0 {
					t.Errorf("expected seed 0, got %d", cfg.Placement.Seed)
				}
			},
			teardown: func() {
				*flagSeed = -1
			},
		},
		{
			name: "out flag",
			setup: func() {
				*flagOut = "batch.yaml"
			},
			verify: func(cfg *Config) {
				if cfg.Output.Journal != "batch.yaml" {
					t.Errorf("expected journal batch.yaml, got %s", cfg.Output.Journal)
				}
			},
			teardown: func() {
				*flagOut = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
placement:
  radius: 4
  sample_count: 16
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagRadius = 9
	defer func() {
		*flagConfig = ""
		*flagRadius = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Radius should be from flag (9), not file (4)
	if cfg.Placement.Radius != 9 {
		t.Errorf("expected radius 9 from flag, got %f", cfg.Placement.Radius)
	}

	// Sample count should be from file (16) since no flag override
	if cfg.Placement.SampleCount != 16 {
		t.Errorf("expected sample count 16 from file, got %d", cfg.Placement.SampleCount)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Placement.Radius = 7
	cfg.Batch.Anchors = []AnchorConfig{{Name: "a", Origin: [3]float32{1, 2, 3}, Direction: [3]float32{0, -1, 0}}}

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Placement.Radius != 7 {
		t.Errorf("expected radius 7, got %f", loaded.Placement.Radius)
	}
	if len(loaded.Batch.Anchors) != 1 || loaded.Batch.Anchors[0].Origin != [3]float32{1, 2, 3} {
		t.Errorf("unexpected anchors %v", loaded.Batch.Anchors)
	}
}

func TestSaveUserFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Setenv("APPDATA", tmpDir)

	cfg := Default()
	cfg.Placement.SampleCount = 12
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	path := UserFile()
	if !strings.HasPrefix(path, tmpDir) {
		t.Fatalf("expected user file under %s, got %s", tmpDir, path)
	}

	// Load picks the saved file up when the working directory has none
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	if got := findConfigFile(); got != path {
		t.Errorf("expected findConfigFile to return %s, got %s", path, got)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if loaded.Placement.SampleCount != 12 {
		t.Errorf("expected sample count 12 from saved file, got %d", loaded.Placement.SampleCount)
	}
}
