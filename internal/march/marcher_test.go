package march

import (
	"math"
	"math/rand"
	"testing"

	"voxel-engine/internal/config"
	"voxel-engine/internal/physics"
	"voxel-engine/internal/world"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

// flatConfig keeps the surface within 64 ± 0.35 and never carves caves.
func flatConfig() config.Config {
	c := config.Default()
	c.WaterLevel = 0
	c.Terrain.Mountains.Amplitude = 0.1
	c.Terrain.Hills.Amplitude = 0.05
	c.Terrain.Bumps.Amplitude = 0.02
	c.Caves.Amplitude = 0.1
	c.Caves.Threshold = 5
	c.Ores = nil
	return c
}

func mustMarcher(t testing.TB, c config.Config) *Marcher {
	t.Helper()
	m, err := New(c)
	require.NoError(t, err)
	return m
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	c := config.Default()
	c.MaxLOD = -1
	_, err := New(c)
	require.Error(t, err)
	require.True(t, errors.IsType(err, config.ErrTypeInvalidConfig))
}

func TestMarchVerticalDescent(t *testing.T) {
	m := mustMarcher(t, flatConfig())
	ray := Ray{Origin: mgl64.Vec3{0, 1000, 0}, Direction: mgl64.Vec3{0, -1, 0}}

	res := m.March(ray)
	require.True(t, res.Hit)
	require.Equal(t, ReasonHit, res.Reason)
	require.InDelta(t, 64, res.Position.Y(), 1.0)
	require.InDelta(t, 1000-res.Position.Y(), res.Distance, 1e-6)

	surface := int(math.Floor(m.Classifier().SurfaceHeight(0, 0)))
	require.Equal(t, world.CellCoord{0, surface, 0}, res.Cell)
	require.Equal(t, world.MaterialGrass, m.Classifier().Classify(res.Cell))
	require.Less(t, res.Steps, 100)
}

func TestMarchVerticalDescentNearZeroComponents(t *testing.T) {
	m := mustMarcher(t, flatConfig())

	tests := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
	}{
		{"negative zero", mgl64.Vec3{0, 1000, 0}, mgl64.Vec3{0, 1, 0}.Mul(-1)},
		{"tiny negative", mgl64.Vec3{1024, 1000, 0}, mgl64.Vec3{-1e-12, -1, 0}.Normalize()},
		{"tiny positive", mgl64.Vec3{-512, 1000, 256}, mgl64.Vec3{0, -1, 1e-12}.Normalize()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res := m.March(Ray{Origin: test.origin, Direction: test.dir})
			require.True(t, res.Hit, "reason %s after %d steps", res.Reason, res.Steps)
			require.InDelta(t, 64, res.Position.Y(), 1.0)
			require.Equal(t, world.MaterialGrass, m.Classifier().Classify(res.Cell))
			require.Less(t, res.Steps, 100)
		})
	}
}

func TestMarchOpenSky(t *testing.T) {
	c := config.Default()
	c.MaxDistance = 4096
	m := mustMarcher(t, c)

	res := m.March(Ray{Origin: mgl64.Vec3{0, 5000, 0}, Direction: mgl64.Vec3{0, 1, 0}})
	require.False(t, res.Hit)
	require.Equal(t, ReasonMissDistance, res.Reason)
	require.LessOrEqual(t, res.Steps, c.MaxSteps)
}

func TestMarchThroughCave(t *testing.T) {
	c := flatConfig()
	c.Caves.Threshold = -5
	c.MaxDistance = 2000
	m := mustMarcher(t, c)

	require.Equal(t, world.MaterialAir, m.Classifier().Classify(world.CellCoord{10, 30, 0}))

	var visited []Step
	res := m.MarchFunc(
		Ray{Origin: mgl64.Vec3{0.5, 30.5, 0.5}, Direction: mgl64.Vec3{1, 0, 0}},
		func(s Step) { visited = append(visited, s) },
	)
	require.False(t, res.Hit)
	require.Equal(t, ReasonMissDistance, res.Reason)
	require.NotEmpty(t, visited)
	for _, s := range visited {
		require.Equal(t, VerdictSkip, s.Verdict)
		require.Greater(t, s.LOD, 0)
	}
}

func TestMarchHitsOre(t *testing.T) {
	c := flatConfig()
	c.Soil = config.Soil{GrassDepth: 0, DirtDepth: 0}
	c.Ores = []config.Ore{{Material: "coal", Seed: 21, Scale: 4, Octaves: 2, Threshold: -2}}
	m := mustMarcher(t, c)

	res := m.March(Ray{Origin: mgl64.Vec3{5.5, 300, -7.5}, Direction: mgl64.Vec3{0, -1, 0}})
	require.True(t, res.Hit)
	require.Equal(t, world.MaterialCoal, m.Classifier().Classify(res.Cell))
}

func TestMarchStepBudget(t *testing.T) {
	c := flatConfig()
	c.MaxSteps = 3
	m := mustMarcher(t, c)

	res := m.March(Ray{Origin: mgl64.Vec3{0, 1000, 0}, Direction: mgl64.Vec3{0, -1, 0}})
	require.False(t, res.Hit)
	require.Equal(t, ReasonMissSteps, res.Reason)
	require.Equal(t, 3, res.Steps)
}

// TestMarchInvariants fires random rays and checks every iteration stays
// inside the LOD range and every march ends within its budgets.
func TestMarchInvariants(t *testing.T) {
	c := config.Default()
	c.MaxDistance = 3000
	m := mustMarcher(t, c)
	rng := rand.New(rand.NewSource(8))

	for i := 0; i < 200; i++ {
		origin := mgl64.Vec3{rng.Float64()*4000 - 2000, 40 + rng.Float64()*200, rng.Float64()*4000 - 2000}
		ray := Ray{Origin: origin, Direction: randomDirection(rng)}

		count := 0
		res := m.MarchFunc(ray, func(s Step) {
			count++
			require.GreaterOrEqual(t, s.LOD, 0)
			require.LessOrEqual(t, s.LOD, c.MaxLOD)
			require.LessOrEqual(t, s.Traveled, c.MaxDistance)
			require.Equal(t, CellAt(s.Position, s.LOD), s.Cell)
		})
		require.LessOrEqual(t, count, c.MaxSteps)
		require.Equal(t, count, res.Steps)
		if res.Hit {
			require.True(t, m.Classifier().IsSolid(res.Cell[0], res.Cell[1], res.Cell[2]))
			require.Equal(t, CellAt(res.Position, 0), res.Cell)
			require.LessOrEqual(t, res.Distance, c.MaxDistance)
		}
	}
}

// TestMarchAgreesWithRaycast compares the hierarchical march with an exact
// unit-cell walk on downward rays.
func TestMarchAgreesWithRaycast(t *testing.T) {
	c := config.Default()
	c.Caves.Threshold = 5
	m := mustMarcher(t, c)
	rng := rand.New(rand.NewSource(13))

	for i := 0; i < 100; i++ {
		dir := randomDirection(rng)
		dir[1] = -math.Abs(dir[1]) - 0.5
		dir = dir.Normalize()
		origin := mgl64.Vec3{rng.Float64()*1000 - 500, 180, rng.Float64()*1000 - 500}

		want := physics.Raycast(origin, dir, 0, 2000, m.Classifier())
		got := m.March(Ray{Origin: origin, Direction: dir})

		require.True(t, want.Hit)
		require.True(t, got.Hit)
		require.InDelta(t, want.Distance, got.Distance, 2.0, "ray %v %v", origin, dir)
	}
}

func TestMarchAscendsAfterSkipping(t *testing.T) {
	m := mustMarcher(t, flatConfig())

	var lods []int
	m.MarchFunc(
		Ray{Origin: mgl64.Vec3{0.5, 70.5, 3.5}, Direction: mgl64.Vec3{1, 0, 0}},
		func(s Step) { lods = append(lods, s.LOD) },
	)

	ascended := false
	for i := 1; i < len(lods); i++ {
		require.LessOrEqual(t, lods[i]-lods[i-1], 1)
		if lods[i] > lods[i-1] {
			ascended = true
		}
	}
	require.True(t, ascended, "lods %v", lods)
}

func TestCanAscend(t *testing.T) {
	m := mustMarcher(t, config.Default())

	require.True(t, m.canAscend(mgl64.Vec3{4.2, 70.5, 3.5}, 3))
	require.False(t, m.canAscend(mgl64.Vec3{8.01, 70.5, 3.5}, 3))
	require.False(t, m.canAscend(mgl64.Vec3{4.2, 71.99, 3.5}, 3))
}

func TestReasonString(t *testing.T) {
	require.Equal(t, "hit", ReasonHit.String())
	require.Equal(t, "miss_distance", ReasonMissDistance.String())
	require.Equal(t, "miss_steps", ReasonMissSteps.String())
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: mgl64.Vec3{1, 2, 3}, Direction: mgl64.Vec3{0, 0, -1}}
	require.Equal(t, mgl64.Vec3{1, 2, -1}, r.At(4))
}

func BenchmarkMarchDown(b *testing.B) {
	m := mustMarcher(b, config.Default())
	for i := 0; i < b.N; i++ {
		x := float64(i%512) * 3
		_ = m.March(Ray{Origin: mgl64.Vec3{x, 400, 17}, Direction: mgl64.Vec3{0.3, -0.9, 0.1}.Normalize()})
	}
}
