package scatter

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/propscatter/internal/surface"
	"github.com/Faultbox/propscatter/pkg/math"
)

type clearanceMap map[string]Clearance

func (m clearanceMap) Clearance(id string) (Clearance, bool) {
	c, ok := m[id]
	return c, ok
}

func flatFrame(t *testing.T) Frame {
	t.Helper()
	f, err := BuildFrame(surface.Hit{Normal: math.Up}, math.Forward)
	require.NoError(t, err)
	return f
}

func TestOrientationUpFollowsNormal(t *testing.T) {
	normals := []math.Vec3{
		math.Up,
		{X: 1, Y: 1},
		{Y: 1, Z: -2},
		math.Right,
		{Y: -1},
		{X: 0.2, Y: 0.9, Z: 0.4},
	}
	for _, n := range normals {
		for _, spin := range []float32{0, 45, 90, 200, 359} {
			q := Orientation(n, spin)
			assert.True(t, q.Up().ApproxEqual(n.Normalize(), eps),
				"normal %v spin %v: up %v", n, spin, q.Up())
		}
	}
}

func TestOrientationSpinsAboutNormal(t *testing.T) {
	for _, n := range []math.Vec3{math.Up, {X: 1, Y: 2, Z: 3}} {
		base := Orientation(n, 0).Right()
		for _, spin := range []float32{30, 90, 150} {
			right := Orientation(n, spin).Right()
			assert.InDelta(t, 0, right.Dot(n.Normalize()), eps, "right axis stays tangent")
			want := gomath.Cos(float64(spin) * gomath.Pi / 180)
			assert.InDelta(t, want, right.Dot(base), 1e-3, "normal %v spin %v", n, spin)
		}
	}
}

func TestResolveSingleCentreSample(t *testing.T) {
	ground := surface.GroundPlane(0)
	frame := flatFrame(t)

	for _, spin := range []float32{0, 90, 270} {
		sample := Sample{Point: math.Vec2{}, SpinDegrees: spin}
		got := Resolve(ground, frame, []Sample{sample}, Params{Radius: 2, ProbeMargin: DefaultProbeMargin})
		require.Len(t, got, 1)

		p := got[0]
		assert.True(t, p.Position.ApproxEqual(frame.Origin, eps), "hit point %v", p.Position)
		assert.True(t, p.Up().ApproxEqual(math.Up, eps), "up %v", p.Up())
		assert.InDelta(t, 0, p.Orientation.Right().Y, eps, "spin stays in the ground plane")
		assert.True(t, p.Valid)
		assert.Equal(t, sample, p.Sample)
	}
}

func TestResolveDropsMisses(t *testing.T) {
	// Floor only covers x < 0.
	floor := surface.NewBox(math.Vec3{X: -10, Y: -1, Z: -10}, math.Vec3{X: 0, Y: 0, Z: 10})
	frame := flatFrame(t)
	samples := []Sample{
		{Point: math.Vec2{X: -0.5}, PrefabID: "a"},
		{Point: math.Vec2{X: 0.5}, PrefabID: "b"},
		{Point: math.Vec2{X: -0.2, Y: 0.3}, PrefabID: "c"},
		{Point: math.Vec2{X: 0.9, Y: -0.1}, PrefabID: "d"},
	}

	got := Resolve(floor, frame, samples, Params{Radius: 2, ProbeMargin: 2})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Sample.PrefabID)
	assert.Equal(t, "c", got[1].Sample.PrefabID)
	assert.True(t, got[0].Position.ApproxEqual(math.Vec3{X: -1}, eps))
	assert.LessOrEqual(t, len(got), len(samples))
}

func TestResolveIdempotent(t *testing.T) {
	hf, err := surface.NewHeightfield(math.Vec3{X: -5, Z: -5}, 1, ramp(11, 11))
	require.NoError(t, err)
	world := surface.NewWorld(hf, surface.NewBox(math.Vec3{X: 1, Y: 1.5, Z: 1}, math.Vec3{X: 2, Y: 2, Z: 2}))

	frame, err := BuildFrame(surface.Hit{Point: math.Vec3{Y: 0.5}, Normal: math.Vec3{X: -0.1, Y: 1}}, math.Forward)
	require.NoError(t, err)
	samples := NewSampler(5).Generate(64, []string{"tall", "short"})
	params := Params{
		Radius:      3,
		ProbeMargin: 2,
		Clearances:  clearanceMap{"tall": {Height: 3}},
	}

	first := Resolve(world, frame, samples, params)
	second := Resolve(world, frame, samples, params)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestResolveAppliesClearance(t *testing.T) {
	world := surface.NewWorld(surface.GroundPlane(0), surface.NewBox(
		math.Vec3{X: -10, Y: 0.5, Z: -10}, math.Vec3{X: 0, Y: 0.6, Z: 10}))
	frame := flatFrame(t)
	samples := []Sample{
		{Point: math.Vec2{X: -0.5}, PrefabID: "barrel"}, // Under the shelf
		{Point: math.Vec2{X: 0.5}, PrefabID: "barrel"},
		{Point: math.Vec2{X: -0.5}, PrefabID: "decal"}, // No clearance
		{Point: math.Vec2{X: -0.5}},
	}
	params := Params{Radius: 2, ProbeMargin: 0.25, Clearances: clearanceMap{"barrel": {Height: 1}}}

	got := Resolve(world, frame, samples, params)
	require.Len(t, got, 4)
	assert.False(t, got[0].Valid)
	assert.True(t, got[1].Valid)
	assert.True(t, got[2].Valid)
	assert.True(t, got[3].Valid)

	assert.Len(t, ValidOnly(got), 3)
}

func ramp(nx, nz int) [][]float32 {
	h := make([][]float32, nx)
	for x := range h {
		h[x] = make([]float32, nz)
		for z := range h[x] {
			h[x][z] = float32(x) * 0.1
		}
	}
	return h
}
