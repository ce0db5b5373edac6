package scatter

import (
	"errors"
	"fmt"

	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// DegenerateEpsilon is the shortest vector the frame builder will normalize.
const DegenerateEpsilon = 1e-4

// ErrFrameUnavailable is returned when no tangent frame can be built for an
// anchor hit.
var ErrFrameUnavailable = errors.New("tangent frame unavailable")

// Frame is an orthonormal right-handed basis on the surface at the anchor.
type Frame struct {
	Origin    math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
	Normal    math.Vec3

	// Fallback is set when the reference up was parallel to the normal and
	// a world axis was used instead.
	Fallback bool
}

// BuildFrame builds the tangent frame at anchor:
//
//	tangent   = normalize(cross(normal, up))
//	bitangent = cross(normal, tangent)
//
// When up is parallel to the normal (or zero), the world axis least aligned
// with the normal replaces it.
func BuildFrame(anchor surface.Hit, up math.Vec3) (Frame, error) {
	if !anchor.Point.IsFinite() {
		return Frame{}, fmt.Errorf("%w: anchor point %v", ErrFrameUnavailable, anchor.Point)
	}
	if !anchor.Normal.IsFinite() || anchor.Normal.Length() < DegenerateEpsilon {
		return Frame{}, fmt.Errorf("%w: anchor normal %v", ErrFrameUnavailable, anchor.Normal)
	}

	n := anchor.Normal.Normalize()
	t := math.Vec3{}
	fallback := false
	if u := up.Normalize(); u.IsFinite() {
		t = n.Cross(u)
	}
	if t.Length() < DegenerateEpsilon {
		t = n.Cross(fallbackAxis(n))
		fallback = true
	}
	t = t.Normalize()

	return Frame{
		Origin:    anchor.Point,
		Tangent:   t,
		Bitangent: n.Cross(t),
		Normal:    n,
		Fallback:  fallback,
	}, nil
}

// fallbackAxis returns the world axis least aligned with n.
func fallbackAxis(n math.Vec3) math.Vec3 {
	best := math.Forward
	bestDot := absf(n.Dot(best))
	for _, axis := range []math.Vec3{math.Right, math.Up} {
		if d := absf(n.Dot(axis)); d < bestDot {
			best, bestDot = axis, d
		}
	}
	return best
}

// Matrix returns the local-to-world transform of the frame: local X maps to
// the tangent, Y to the bitangent and Z to the normal.
func (f Frame) Matrix() math.Mat4 {
	return math.FromBasis(f.Tangent, f.Bitangent, f.Normal, f.Origin)
}

// Probe returns the ray cast into the surface for disc point p. It starts
// margin above the tangent plane and points along -normal.
func (f Frame) Probe(p math.Vec2, radius, margin float32) surface.Ray {
	m := f.Matrix()
	return surface.Ray{
		Origin:    m.TransformVec3(math.Vec3{X: p.X * radius, Y: p.Y * radius, Z: margin}),
		Direction: m.TransformDirection(math.Vec3{Z: -1}),
	}
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
