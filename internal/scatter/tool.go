package scatter

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/propscatter/internal/logger"
	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// Settings are the user-facing placement parameters.
type Settings struct {
	Radius          float32
	SampleCount     int
	PrefabPool      []string
	ReferenceUp     math.Vec3
	ProbeMargin     float32
	OutlineSegments int // Zero disables the outline
	OutlineLift     float32
}

// DefaultSettings returns the settings the tool opens with.
func DefaultSettings() Settings {
	return Settings{
		Radius:          2,
		SampleCount:     8,
		ReferenceUp:     math.Up,
		ProbeMargin:     DefaultProbeMargin,
		OutlineSegments: 64,
		OutlineLift:     DefaultOutlineLift,
	}
}

// Normalize clamps the settings into their valid ranges: radius >= 1 and
// 1 <= sample count <= MaxSampleCount.
func (s Settings) Normalize() Settings {
	s.Radius = max(s.Radius, 1)
	s.SampleCount = min(max(s.SampleCount, 1), MaxSampleCount)
	if s.ProbeMargin <= 0 {
		s.ProbeMargin = DefaultProbeMargin
	}
	if s.OutlineSegments > 0 {
		s.OutlineSegments = min(max(s.OutlineSegments, MinOutlineSegments), MaxOutlineSegments)
	}
	if s.ReferenceUp == (math.Vec3{}) {
		s.ReferenceUp = math.Up
	}
	return s
}

// Committer turns placements into persistent objects, recorded as one
// reversible action.
type Committer interface {
	Commit(placements []Placement) error
}

// PassResult is the output of one placement pass.
type PassResult struct {
	Anchor     surface.Hit
	Frame      Frame
	Placements []Placement
	Outline    []math.Vec3

	// OK is false when the pointer missed or no frame could be built; the
	// other fields are then empty.
	OK bool
}

// Tool drives placement passes from a pointer ray. It owns the sample batch,
// which stays stable across passes until a region parameter changes or a
// commit succeeds. A Tool is not safe for concurrent use.
type Tool struct {
	query      *surface.Counter
	clearances ClearanceLookup
	sampler    *Sampler
	settings   Settings
	batch      []Sample
}

// NewTool creates a tool and generates its first batch.
func NewTool(q surface.Query, clearances ClearanceLookup, sampler *Sampler, settings Settings) *Tool {
	t := &Tool{
		query:      surface.NewCounter(q),
		clearances: clearances,
		sampler:    sampler,
		settings:   settings.Normalize(),
	}
	t.Regenerate()
	return t
}

// Settings returns the current settings.
func (t *Tool) Settings() Settings {
	return t.settings
}

// Batch returns the current sample batch.
func (t *Tool) Batch() []Sample {
	return t.batch
}

// Regenerate replaces the whole sample batch.
func (t *Tool) Regenerate() {
	t.batch = t.sampler.Generate(t.settings.SampleCount, t.settings.PrefabPool)
	logger.Debug("sample batch regenerated",
		zap.Int("count", len(t.batch)),
		zap.Int("pool", len(t.settings.PrefabPool)))
}

// SetRadius changes the radius, regenerating the batch if it changed.
func (t *Tool) SetRadius(r float32) {
	t.update(func(s *Settings) { s.Radius = r })
}

// AdjustRadius nudges the radius by the sign of delta, like a scroll wheel.
func (t *Tool) AdjustRadius(delta float32) {
	switch {
	case delta > 0:
		t.SetRadius(t.settings.Radius + 1)
	case delta < 0:
		t.SetRadius(t.settings.Radius - 1)
	}
}

// SetSampleCount changes the batch size, regenerating the batch if it changed.
func (t *Tool) SetSampleCount(n int) {
	t.update(func(s *Settings) { s.SampleCount = n })
}

// SetPrefabPool changes the prefab pool, regenerating the batch if it changed.
func (t *Tool) SetPrefabPool(pool []string) {
	t.update(func(s *Settings) { s.PrefabPool = append([]string(nil), pool...) })
}

// SetReferenceUp changes the up reference used for the tangent frame.
// The batch is kept.
func (t *Tool) SetReferenceUp(up math.Vec3) {
	t.settings.ReferenceUp = up
	t.settings = t.settings.Normalize()
}

func (t *Tool) update(change func(*Settings)) {
	prev := t.settings
	next := prev
	change(&next)
	next = next.Normalize()
	t.settings = next

	if prev.Radius != next.Radius || prev.SampleCount != next.SampleCount || !slices.Equal(prev.PrefabPool, next.PrefabPool) {
		t.Regenerate()
	}
}

// Pass runs one placement pass for the pointer ray.
func (t *Tool) Pass(pointer surface.Ray) PassResult {
	defer t.query.Reset()

	anchor, ok := t.query.Raycast(pointer, 0)
	if !ok {
		logger.Debug("pointer missed the surface")
		return PassResult{}
	}

	frame, err := BuildFrame(anchor, t.settings.ReferenceUp)
	if err != nil {
		logger.Debug("skipping pass", zap.Error(err))
		return PassResult{}
	}
	if frame.Fallback {
		logger.Debug("reference up parallel to normal, using fallback axis",
			zap.Any("normal", frame.Normal))
	}

	placements := Resolve(t.query, frame, t.batch, Params{
		Radius:      t.settings.Radius,
		ProbeMargin: t.settings.ProbeMargin,
		Clearances:  t.clearances,
	})

	var outline []math.Vec3
	if t.settings.OutlineSegments > 0 {
		outline = SampleOutline(t.query, frame, t.settings.Radius, t.settings.OutlineSegments,
			t.settings.ProbeMargin, t.settings.OutlineLift)
	}

	logger.Debug("placement pass",
		zap.Int("samples", len(t.batch)),
		zap.Int("placements", len(placements)),
		zap.Int("valid", countValid(placements)),
		zap.Int64("raycasts", t.query.Count()))

	return PassResult{
		Anchor:     anchor,
		Frame:      frame,
		Placements: placements,
		Outline:    outline,
		OK:         true,
	}
}

// Commit sends the valid placements to c and regenerates the batch on
// success. It returns the number committed; with nothing valid it does
// nothing and returns 0.
func (t *Tool) Commit(c Committer, placements []Placement) (int, error) {
	if c == nil {
		return 0, errors.New("scatter: nil committer")
	}
	valid := ValidOnly(placements)
	if len(valid) == 0 {
		return 0, nil
	}
	if err := c.Commit(valid); err != nil {
		return 0, fmt.Errorf("committing %d placements: %w", len(valid), err)
	}
	logger.Debug("committed placements", zap.Int("count", len(valid)))
	t.Regenerate()
	return len(valid), nil
}

func countValid(placements []Placement) int {
	n := 0
	for _, p := range placements {
		if p.Valid {
			n++
		}
	}
	return n
}
