package scatter

import (
	gomath "math"

	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

// Outline segment bounds.
const (
	MinOutlineSegments = 3
	MaxOutlineSegments = 512
)

// DefaultOutlineLift raises outline points off the surface they hit.
const DefaultOutlineLift float32 = 0.02

// SampleOutline probes the rim of the placement disc and returns a closed
// polyline of segments+1 points; the last point repeats the first angle.
// Rim probes that miss fall back to the probe origin so the outline never has
// gaps. The outline is advisory only.
func SampleOutline(q surface.Query, frame Frame, radius float32, segments int, margin, lift float32) []math.Vec3 {
	segments = min(max(segments, MinOutlineSegments), MaxOutlineSegments)

	points := make([]math.Vec3, segments+1)
	for i := range points {
		angle := float32(i) / float32(segments) * 2 * gomath.Pi
		probe := frame.Probe(math.Vec2FromAngle(angle), radius, margin)

		if hit, ok := q.Raycast(probe, 0); ok {
			points[i] = hit.Point.Add(hit.Normal.Scale(lift))
		} else {
			points[i] = probe.Origin
		}
	}
	return points
}
