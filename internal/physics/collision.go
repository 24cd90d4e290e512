package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FindGroundLevel scans down the column under (x, z) from fromY and returns
// the top face of the first solid cell, or fallback when none is found
// within depth cells.
func FindGroundLevel(x, z, fromY float64, depth int, s Solid, fallback float64) float64 {
	bx := int(math.Floor(x))
	bz := int(math.Floor(z))
	top := int(math.Floor(fromY))
	for by := top; by > top-depth; by-- {
		if s.IsSolid(bx, by, bz) {
			return float64(by + 1)
		}
	}
	return fallback
}

// SpawnPoint returns a position standing on the ground at (x, z) with the
// given eye height.
func SpawnPoint(x, z, fromY float64, depth int, s Solid, eyeHeight float64) mgl64.Vec3 {
	ground := FindGroundLevel(x, z, fromY, depth, s, fromY)
	return mgl64.Vec3{x, ground + eyeHeight, z}
}
