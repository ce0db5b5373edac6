package scatter

import (
	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// DefaultProbeMargin is how far above the tangent plane probe rays start.
const DefaultProbeMargin float32 = 2

// tiltCorrection turns the object's +Y onto +Z so that the look rotation,
// which aims +Z along the normal, leaves the object standing on the surface.
var tiltCorrection = math.QuatAngleAxis(90, math.Right)

// Params configures a placement pass.
type Params struct {
	Radius      float32
	ProbeMargin float32
	Clearances  ClearanceLookup // May be nil
}

// Placement is a resolved pose for one sample.
type Placement struct {
	Position    math.Vec3
	Orientation math.Quat
	Sample      Sample
	Valid       bool
}

// Up returns the placed object's up axis.
func (p Placement) Up() math.Vec3 {
	return p.Orientation.Up()
}

// Orientation returns the pose for an object standing on a surface with the
// given normal, spun about that normal by spinDegrees.
//
// The factors apply right to left: tilt correction, then spin about +Z, then
// the look rotation onto the normal.
func Orientation(normal math.Vec3, spinDegrees float32) math.Quat {
	look := math.QuatLookRotation(normal, math.Up)
	spin := math.QuatAngleAxis(spinDegrees, math.Forward)
	return look.Mul(spin).Mul(tiltCorrection).Normalize()
}

// Resolve projects every sample onto the surface and validates the resulting
// poses. Samples whose probe misses are dropped; the rest keep batch order.
// Resolve is deterministic for a deterministic query.
func Resolve(q surface.Query, frame Frame, samples []Sample, p Params) []Placement {
	placements := make([]Placement, 0, len(samples))
	for _, s := range samples {
		hit, ok := q.Raycast(frame.Probe(s.Point, p.Radius, p.ProbeMargin), 0)
		if !ok {
			continue
		}

		rot := Orientation(hit.Normal, s.SpinDegrees)
		clearance := lookupClearance(p.Clearances, s.PrefabID)
		placements = append(placements, Placement{
			Position:    hit.Point,
			Orientation: rot,
			Sample:      s,
			Valid:       IsValid(q, hit.Point, rot.Up(), clearance),
		})
	}
	return placements
}

// ValidOnly returns the valid placements, keeping order.
func ValidOnly(placements []Placement) []Placement {
	var valid []Placement
	for _, p := range placements {
		if p.Valid {
			valid = append(valid, p)
		}
	}
	return valid
}
