package surface

import (
	gomath "math"

	"github.com/Faultbox/propscatter/pkg/math"
)

// Box is an axis-aligned box collider.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

// NewBox creates a box from two corners, handling swapped coordinates.
func NewBox(a, b math.Vec3) Box {
	box := Box{Min: a, Max: b}
	// Ensure min < max for each axis
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Raycast intersects the ray with the box using the slab method.
// Rays that start inside the box do not hit it.
func (b Box) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	if b.Contains(ray.Origin) {
		return Hit{}, false
	}
	tmin, _, axis, ok := b.slabs(ray)
	if !ok || !accept(ray, tmin, maxDistance) {
		return Hit{}, false
	}

	var normal math.Vec3
	switch axis {
	case 0:
		normal.X = -sign(ray.Direction.X)
	case 1:
		normal.Y = -sign(ray.Direction.Y)
	default:
		normal.Z = -sign(ray.Direction.Z)
	}
	return Hit{Point: ray.At(tmin), Normal: normal, Distance: tmin}, true
}

// clip returns the parametric interval where the ray is inside the box.
func (b Box) clip(ray Ray) (tmin, tmax float32, ok bool) {
	tmin, tmax, _, ok = b.slabs(ray)
	return tmin, tmax, ok
}

// slabs runs the slab test and reports the entry interval and entry axis.
func (b Box) slabs(ray Ray) (tmin, tmax float32, axis int, ok bool) {
	tmin = -gomath.MaxFloat32
	tmax = gomath.MaxFloat32
	axis = -1

	origin := ray.Origin.Array()
	dir := ray.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, 0, -1, false
			}
			continue
		}
		t1 := (lo[i] - origin[i]) / dir[i]
		t2 := (hi[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, 0, -1, false
	}
	return tmin, tmax, axis, true
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}
