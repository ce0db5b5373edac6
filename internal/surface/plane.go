package surface

import (
	"github.com/Faultbox/propscatter/pkg/math"
)

// Plane is an infinite two-sided plane.
type Plane struct {
	Point  math.Vec3
	Normal math.Vec3
}

// NewPlane creates a plane through point with the given normal.
func NewPlane(point, normal math.Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// GroundPlane returns the horizontal plane at height y.
func GroundPlane(y float32) Plane {
	return Plane{Point: math.Vec3{Y: y}, Normal: math.Up}
}

// Raycast intersects the ray with the plane. The distance is solved in float64
// so large coordinates cancel exactly.
func (p Plane) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	// Ray: P = Origin + t * Direction
	// Plane: dot(P - Point, Normal) = 0
	denom := dot64(p.Normal, ray.Direction)
	if denom > -1e-6 && denom < 1e-6 {
		return Hit{}, false // Ray parallel to plane
	}

	num := float64(p.Normal.X)*(float64(p.Point.X)-float64(ray.Origin.X)) +
		float64(p.Normal.Y)*(float64(p.Point.Y)-float64(ray.Origin.Y)) +
		float64(p.Normal.Z)*(float64(p.Point.Z)-float64(ray.Origin.Z))
	t := float32(num / denom)
	if !accept(ray, t, maxDistance) {
		return Hit{}, false
	}

	normal := p.Normal
	if denom > 0 {
		normal = normal.Neg() // Hit from behind
	}
	return Hit{Point: ray.At(t), Normal: normal, Distance: t}, true
}

func dot64(a, b math.Vec3) float64 {
	return float64(a.X)*float64(b.X) + float64(a.Y)*float64(b.Y) + float64(a.Z)*float64(b.Z)
}
