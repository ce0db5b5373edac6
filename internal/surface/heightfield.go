package surface

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/propscatter/pkg/math"
)

// ErrInvalidHeightfield is returned for heightfields that cannot be sampled.
var ErrInvalidHeightfield = errors.New("invalid heightfield")

// Heightfield is a regular grid of terrain heights with bilinear
// interpolation between samples.
type Heightfield struct {
	Origin   math.Vec3   // World position of sample [0][0]
	CellSize float32     // Distance between samples on X and Z
	Heights  [][]float32 // Indexed [x][z], relative to Origin.Y

	bounds Box
}

// NewHeightfield validates the grid and precomputes its bounds.
// The grid must be at least 2x2 and rectangular.
func NewHeightfield(origin math.Vec3, cellSize float32, heights [][]float32) (*Heightfield, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidHeightfield, cellSize)
	}
	if len(heights) < 2 || len(heights[0]) < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 samples", ErrInvalidHeightfield)
	}

	sizeZ := len(heights[0])
	minH, maxH := heights[0][0], heights[0][0]
	for x, col := range heights {
		if len(col) != sizeZ {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidHeightfield, x, len(col), sizeZ)
		}
		for _, h := range col {
			minH = min(minH, h)
			maxH = max(maxH, h)
		}
	}

	hf := &Heightfield{Origin: origin, CellSize: cellSize, Heights: heights}
	hf.bounds = NewBox(
		math.Vec3{X: origin.X, Y: origin.Y + minH - 0.01, Z: origin.Z},
		math.Vec3{
			X: origin.X + float32(len(heights)-1)*cellSize,
			Y: origin.Y + maxH + 0.01,
			Z: origin.Z + float32(sizeZ-1)*cellSize,
		},
	)
	return hf, nil
}

// NormalAt returns the surface normal at (x, z) from central differences.
func (h *Heightfield) NormalAt(x, z float32) math.Vec3 {
	d := h.CellSize * 0.5
	dx := (h.sample(x+d, z) - h.sample(x-d, z)) / (2 * d)
	dz := (h.sample(x, z+d) - h.sample(x, z-d)) / (2 * d)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

// sample returns the interpolated world height at (x, z), clamped into the grid.
func (h *Heightfield) sample(x, z float32) float32 {
	sizeX := len(h.Heights)
	sizeZ := len(h.Heights[0])

	// Convert world coordinates to cell coordinates
	cellFX := clampf((x-h.Origin.X)/h.CellSize, 0, float32(sizeX-1))
	cellFZ := clampf((z-h.Origin.Z)/h.CellSize, 0, float32(sizeZ-1))

	cellX := min(int(cellFX), sizeX-2)
	cellZ := min(int(cellFZ), sizeZ-2)

	// Fractional position within cell (0-1)
	fracX := cellFX - float32(cellX)
	fracZ := cellFZ - float32(cellZ)

	// South edge (lower Z): lerp along X, then north edge, then between them
	south := h.Heights[cellX][cellZ]*(1-fracX) + h.Heights[cellX+1][cellZ]*fracX
	north := h.Heights[cellX][cellZ+1]*(1-fracX) + h.Heights[cellX+1][cellZ+1]*fracX
	return h.Origin.Y + south*(1-fracZ) + north*fracZ
}

// Raycast marches the ray through the grid bounds and refines the first
// downward crossing of the surface by bisection.
func (h *Heightfield) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	if ray.Direction == (math.Vec3{}) {
		return Hit{}, false
	}
	tmin, tmax, ok := h.bounds.clip(ray)
	if !ok {
		return Hit{}, false
	}
	start := max(tmin, SkinAt(ray.Origin))
	end := tmax
	if maxDistance > 0 {
		end = min(end, maxDistance)
	}
	if start >= end {
		return Hit{}, false
	}

	above := func(t float32) float32 {
		p := ray.At(t)
		return p.Y - h.sample(p.X, p.Z)
	}

	step := h.CellSize * 0.25
	t := start
	prev := above(t)
	for t < end {
		next := min(t+step, end)
		cur := above(next)
		if prev > 0 && cur <= 0 {
			lo, hi := t, next
			for range 24 {
				mid := (lo + hi) / 2
				if above(mid) > 0 {
					lo = mid
				} else {
					hi = mid
				}
			}
			p := ray.At(hi)
			n := h.NormalAt(p.X, p.Z)
			if n.Dot(ray.Direction) > 0 {
				n = n.Neg()
			}
			return Hit{Point: p, Normal: n, Distance: hi}, true
		}
		prev = cur
		t = next
	}
	return Hit{}, false
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sqrt(f float32) float64 {
	return gomath.Sqrt(float64(f))
}
