// Package surface provides the ray-cast queries the placement engine uses to
// find points on world geometry.
package surface

import (
	"github.com/Faultbox/propscatter/pkg/math"
)

// Skin is the minimum hit distance near the world origin. Hits closer than
// SkinAt(origin) are ignored so a ray starting on a surface does not report
// that surface.
const Skin = 1e-4

// RelativeSkin scales the skin with the largest origin coordinate, about 34
// float32 ulps, so rounding in far-away hit points stays inside it.
const RelativeSkin = 4e-6

// SkinAt returns the minimum hit distance for a ray starting at origin.
func SkinAt(origin math.Vec3) float32 {
	m := max(abs(origin.X), abs(origin.Y), abs(origin.Z))
	return max(Skin, m*RelativeSkin)
}

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Hit is the nearest intersection of a ray with a surface.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3 // Unit normal facing the ray origin
	Distance float32
}

// Query casts rays against world geometry.
//
// Raycast returns the nearest hit within maxDistance; maxDistance <= 0 means
// unbounded. A miss is reported with ok == false and is not an error.
// Implementations must be side-effect free and safe for concurrent use.
type Query interface {
	Raycast(ray Ray, maxDistance float32) (hit Hit, ok bool)
}

// QueryFunc adapts a function to the Query interface.
type QueryFunc func(ray Ray, maxDistance float32) (Hit, bool)

// Raycast calls f(ray, maxDistance).
func (f QueryFunc) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	return f(ray, maxDistance)
}

// accept reports whether distance t along ray lies inside the
// [SkinAt(origin), maxDistance] window.
func accept(ray Ray, t, maxDistance float32) bool {
	if t < SkinAt(ray.Origin) {
		return false
	}
	return maxDistance <= 0 || t <= maxDistance
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
