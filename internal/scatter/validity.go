package scatter

import (
	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// Clearance is the free space a prefab needs above its placement point.
type Clearance struct {
	Height float32
}

// ClearanceLookup supplies the clearance of a prefab. ok is false for
// prefabs without one.
type ClearanceLookup interface {
	Clearance(prefabID string) (c Clearance, ok bool)
}

// IsValid reports whether the space above position is free of obstruction.
// A nil or non-positive clearance is always valid; otherwise a ray is cast
// along up for the clearance height and the pose is valid iff it misses.
func IsValid(q surface.Query, position, up math.Vec3, clearance *Clearance) bool {
	if clearance == nil || clearance.Height <= 0 {
		return true
	}
	_, blocked := q.Raycast(surface.NewRay(position, up), clearance.Height)
	return !blocked
}

// lookupClearance resolves the clearance for a sample's prefab.
func lookupClearance(lookup ClearanceLookup, prefabID string) *Clearance {
	if lookup == nil || prefabID == "" {
		return nil
	}
	c, ok := lookup.Clearance(prefabID)
	if !ok {
		return nil
	}
	return &c
}
