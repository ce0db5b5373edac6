package surface

import (
	"github.com/Faultbox/propscatter/pkg/math"
)

// Sphere is a sphere collider. Rays that start inside do not hit it.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Raycast intersects the ray with the sphere.
func (s Sphere) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	oc := ray.Origin.Sub(s.Center)
	b := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	if c <= 0 {
		return Hit{}, false // Origin inside
	}
	disc := b*b - c
	if disc < 0 {
		return Hit{}, false
	}

	t := -b - float32(sqrt(disc))
	if !accept(ray, t, maxDistance) {
		return Hit{}, false
	}

	p := ray.At(t)
	return Hit{Point: p, Normal: p.Sub(s.Center).Normalize(), Distance: t}, true
}
