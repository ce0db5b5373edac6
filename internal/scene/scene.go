// Package scene loads YAML scene descriptions into colliders and a prefab
// catalog, standing in for a host physics scene when placing offline.
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/propscatter/internal/prefab"
	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// ErrUnknownCollider is returned for collider types the loader does not know.
var ErrUnknownCollider = errors.New("unknown collider type")

// Collider types.
const (
	TypePlane       = "plane"
	TypeBox         = "box"
	TypeSphere      = "sphere"
	TypeHeightfield = "heightfield"
)

// Scene is the file format.
type Scene struct {
	Colliders []Collider      `yaml:"colliders"`
	Prefabs   []prefab.Prefab `yaml:"prefabs"`
}

// Collider describes one collider. Which fields apply depends on Type.
type Collider struct {
	Type string `yaml:"type"`

	// plane
	Point  [3]float32 `yaml:"point,omitempty"`
	Normal [3]float32 `yaml:"normal,omitempty"`

	// box
	Min [3]float32 `yaml:"min,omitempty"`
	Max [3]float32 `yaml:"max,omitempty"`

	// sphere
	Center [3]float32 `yaml:"center,omitempty"`
	Radius float32    `yaml:"radius,omitempty"`

	// heightfield
	Origin   [3]float32  `yaml:"origin,omitempty"`
	CellSize float32     `yaml:"cell_size,omitempty"`
	Heights  [][]float32 `yaml:"heights,omitempty"`
}

// Default returns a scene with a ground plane at y=0 and no prefabs.
func Default() *Scene {
	return &Scene{
		Colliders: []Collider{{Type: TypePlane, Normal: [3]float32{0, 1, 0}}},
	}
}

// Load reads a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene from YAML.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// World builds the collider set.
func (s *Scene) World() (*surface.World, error) {
	w := surface.NewWorld()
	for i, c := range s.Colliders {
		q, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("collider %d (%s): %w", i, c.Type, err)
		}
		w.Add(q)
	}
	return w, nil
}

// Catalog builds the prefab catalog. Prefabs that omit clearance get
// prefab.DefaultClearance; an explicit clearance of 0 opts out, and the
// prefab is then valid anywhere.
func (s *Scene) Catalog() (*prefab.Catalog, error) {
	prefabs := make([]prefab.Prefab, len(s.Prefabs))
	for i, p := range s.Prefabs {
		switch {
		case p.Clearance == nil:
			p = prefab.WithClearance(p.ID, prefab.DefaultClearance)
		case *p.Clearance == 0:
			p.Clearance = nil
		}
		prefabs[i] = p
	}
	return prefab.NewCatalog(prefabs...)
}

func (c Collider) build() (surface.Query, error) {
	switch c.Type {
	case TypePlane:
		n := math.Vec3FromArray(c.Normal)
		if n.Length() == 0 {
			return nil, errors.New("plane normal is zero")
		}
		return surface.NewPlane(math.Vec3FromArray(c.Point), n), nil
	case TypeBox:
		return surface.NewBox(math.Vec3FromArray(c.Min), math.Vec3FromArray(c.Max)), nil
	case TypeSphere:
		if c.Radius <= 0 {
			return nil, fmt.Errorf("sphere radius %v", c.Radius)
		}
		return surface.Sphere{Center: math.Vec3FromArray(c.Center), Radius: c.Radius}, nil
	case TypeHeightfield:
		return surface.NewHeightfield(math.Vec3FromArray(c.Origin), c.CellSize, c.Heights)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollider, c.Type)
	}
}
