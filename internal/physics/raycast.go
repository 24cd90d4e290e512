package physics

import (
	"math"

	"voxel-engine/internal/profiling"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 8.0
)

// Solid is anything that can answer occupancy for an LOD 0 cell.
// *world.Classifier implements it.
type Solid interface {
	IsSolid(x, y, z int) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      world.CellCoord
	AdjacentPosition world.CellCoord
	Normal           [3]int
	Distance         float64
	Steps            int
	Hit              bool
}

// Raycast visits every unit cell the ray passes through, in order, until a
// solid cell is found between minDist and maxDist. Cell (x,y,z) covers
// [x,x+1)×[y,y+1)×[z,z+1). It is exact but linear in distance, so it serves
// short reach queries and checks the hierarchical marcher.
func Raycast(start, direction mgl64.Vec3, minDist, maxDist float64, s Solid) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	var (
		cell  world.CellCoord
		step  [3]int
		tMax  [3]float64
		tStep [3]float64
	)
	for axis := 0; axis < 3; axis++ {
		cell[axis] = int(math.Floor(start[axis]))
		d := direction[axis]
		switch {
		case d > 0:
			step[axis] = 1
			tStep[axis] = 1 / d
			tMax[axis] = (float64(cell[axis]+1) - start[axis]) / d
		case d < 0:
			step[axis] = -1
			tStep[axis] = -1 / d
			tMax[axis] = (float64(cell[axis]) - start[axis]) / d
		default:
			tStep[axis] = math.Inf(1)
			tMax[axis] = math.Inf(1)
		}
	}

	result := RaycastResult{}
	previous := cell
	var normal [3]int
	t := 0.0

	for t <= maxDist {
		result.Steps++
		if t >= minDist && s.IsSolid(cell[0], cell[1], cell[2]) {
			result.HitPosition = cell
			result.AdjacentPosition = previous
			result.Normal = normal
			result.Distance = t
			result.Hit = true
			return result
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if math.IsInf(tMax[axis], 1) {
			break
		}

		previous = cell
		t = tMax[axis]
		tMax[axis] += tStep[axis]
		cell[axis] += step[axis]
		normal = [3]int{}
		normal[axis] = -step[axis]
	}

	return result
}
