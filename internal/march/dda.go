package march

import (
	"math"

	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// StepEpsilon pushes an exit point past the shared face so the next
	// floor() lands strictly inside the neighbouring cell.
	StepEpsilon = 1e-4

	// minDirection is the smallest direction component that can carry a ray
	// across a face. Smaller components, including -0, are ignored.
	minDirection = 1e-9
)

// ExitPoint returns where a ray at pos travelling along dir leaves the
// axis-aligned cell of side size, nudged by StepEpsilon past the face, and
// the distance t to the face itself. The returned point is pos + dir·(t+ε).
func ExitPoint(pos, dir mgl64.Vec3, cell world.CellCoord, size float64) (mgl64.Vec3, float64) {
	t := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		d := dir[axis]
		if math.Abs(d) < minDirection {
			continue
		}

		boundary := float64(cell[axis]) * size
		if d > 0 {
			boundary += size
		}
		t = math.Min(t, (boundary-pos[axis])/d)
	}

	// pos may already sit on the far face after rounding.
	t = math.Max(t, 0)
	return pos.Add(dir.Mul(t + StepEpsilon)), t
}
