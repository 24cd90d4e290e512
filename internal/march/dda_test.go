package march

import (
	"math"
	"math/rand"
	"testing"

	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func randomDirection(rng *rand.Rand) mgl64.Vec3 {
	for {
		d := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if d.Len() > 1e-6 {
			return d.Normalize()
		}
	}
}

func TestExitPointAxisAligned(t *testing.T) {
	pos := mgl64.Vec3{0.5, 0.5, 0.5}

	exit, dist := ExitPoint(pos, mgl64.Vec3{1, 0, 0}, world.CellCoord{0, 0, 0}, 1)
	require.InDelta(t, 0.5, dist, 1e-12)
	require.InDelta(t, 1+StepEpsilon, exit.X(), 1e-12)
	require.Equal(t, world.CellCoord{1, 0, 0}, CellAt(exit, 0))

	exit, dist = ExitPoint(pos, mgl64.Vec3{0, -1, 0}, world.CellCoord{0, 0, 0}, 1)
	require.InDelta(t, 0.5, dist, 1e-12)
	require.Equal(t, world.CellCoord{0, -1, 0}, CellAt(exit, 0))
}

func TestExitPointCoarseCell(t *testing.T) {
	pos := mgl64.Vec3{10, 1000, 20}
	cell := CellAt(pos, 8)
	require.Equal(t, world.CellCoord{0, 3, 0}, cell)

	exit, dist := ExitPoint(pos, mgl64.Vec3{0, -1, 0}, cell, CellSize(8))
	require.InDelta(t, 1000-768, dist, 1e-9)
	require.Equal(t, world.CellCoord{0, 2, 0}, CellAt(exit, 8))
}

func TestExitPointZeroComponents(t *testing.T) {
	// Negative zero must not flip the chosen face.
	dir := mgl64.Vec3{math.Copysign(0, -1), 0, 1}
	exit, dist := ExitPoint(mgl64.Vec3{3.2, 4.7, 5.1}, dir, world.CellCoord{3, 4, 5}, 1)
	require.InDelta(t, 0.9, dist, 1e-9)
	require.False(t, math.IsInf(exit.X(), 0) || math.IsNaN(exit.X()))
	require.Equal(t, world.CellCoord{3, 4, 6}, CellAt(exit, 0))
}

func TestExitPointNearZeroComponentOnFace(t *testing.T) {
	tests := []struct {
		name string
		pos  mgl64.Vec3
		dir  mgl64.Vec3
	}{
		{"negative zero", mgl64.Vec3{0, 70.5, 0}, mgl64.Vec3{0, 1, 0}.Mul(-1)},
		{"tiny negative", mgl64.Vec3{1024, 70.5, 0}, mgl64.Vec3{-1e-12, -1, 0}.Normalize()},
		{"tiny positive", mgl64.Vec3{1024, 70.5, -8}, mgl64.Vec3{1e-12, -1, 1e-12}.Normalize()},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for _, lod := range []int{0, 3} {
				cell := CellAt(test.pos, lod)
				exit, dist := ExitPoint(test.pos, test.dir, cell, CellSize(lod))

				require.Greater(t, dist, 0.0)
				next := CellAt(exit, lod)
				require.Less(t, next[1], cell[1], "lod %d", lod)
				require.InDelta(t, test.pos.X(), exit.X(), 1e-6)
				require.InDelta(t, test.pos.Z(), exit.Z(), 1e-6)
			}
		})
	}
}

// TestExitPointOnFace verifies the exit point lies on a face of the cell
// (less the nudge) and always advances along the ray.
func TestExitPointOnFace(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	for i := 0; i < 5000; i++ {
		lod := rng.Intn(9)
		size := CellSize(lod)
		dir := randomDirection(rng)
		pos := mgl64.Vec3{rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000, rng.Float64()*2000 - 1000}
		cell := CellAt(pos, lod)

		exit, dist := ExitPoint(pos, dir, cell, size)
		require.GreaterOrEqual(t, dist, 0.0)
		require.Greater(t, exit.Sub(pos).Dot(dir), 0.0)

		face := pos.Add(dir.Mul(dist))
		onFace := false
		for axis := 0; axis < 3; axis++ {
			lo := float64(cell[axis]) * size
			require.GreaterOrEqual(t, face[axis], lo-1e-6)
			require.LessOrEqual(t, face[axis], lo+size+1e-6)
			if math.Abs(face[axis]-lo) < 1e-6 || math.Abs(face[axis]-lo-size) < 1e-6 {
				onFace = true
			}
		}
		require.True(t, onFace, "face point %v not on a face of cell %v at lod %d", face, cell, lod)
		require.NotEqual(t, cell, CellAt(exit, lod))
	}
}
