package world

import (
	"math"
)

// Deterministic value noise in 2D and 3D. Lattice values come from integer
// hashing so every call is a pure function of its arguments.

// NoiseLipschitz bounds |∂noise/∂axis| in lattice units: the lattice
// difference is at most 2 and the quintic fade slope at most 1.875.
const NoiseLipschitz = 3.75

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func hash3(x, y, z int64, seed int64) uint64 {
	// Separate golden ratio variants per axis keep axes from commuting
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// toSigned maps the low 32 hash bits to [-1,1]
func toSigned(h uint64) float64 {
	return float64(h&0xFFFFFFFF)/float64(0xFFFFFFFF)*2 - 1
}

func latticeValue2D(x, z int64, seed int64) float64 {
	return toSigned(hash2(x, z, seed))
}

func latticeValue3D(x, y, z int64, seed int64) float64 {
	return toSigned(hash3(x, y, z, seed))
}

// ValueNoise2D returns smooth noise in [-1,1].
func ValueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	ix, iz := int64(x0), int64(z0)

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue2D(ix, iz, seed)
	v10 := latticeValue2D(ix+1, iz, seed)
	v01 := latticeValue2D(ix, iz+1, seed)
	v11 := latticeValue2D(ix+1, iz+1, seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz)
}

// ValueNoise3D returns smooth noise in [-1,1].
func ValueNoise3D(x, y, z float64, seed int64) float64 {
	// Lattice points (8 corners of the cube)
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	v000 := latticeValue3D(ix, iy, iz, seed)
	v100 := latticeValue3D(ix+1, iy, iz, seed)
	v010 := latticeValue3D(ix, iy+1, iz, seed)
	v110 := latticeValue3D(ix+1, iy+1, iz, seed)
	v001 := latticeValue3D(ix, iy, iz+1, seed)
	v101 := latticeValue3D(ix+1, iy, iz+1, seed)
	v011 := latticeValue3D(ix, iy+1, iz+1, seed)
	v111 := latticeValue3D(ix+1, iy+1, iz+1, seed)

	// X first, then Y, then Z
	i00 := lerp(v000, v100, fx)
	i10 := lerp(v010, v110, fx)
	i01 := lerp(v001, v101, fx)
	i11 := lerp(v011, v111, fx)

	i0 := lerp(i00, i10, fy)
	i1 := lerp(i01, i11, fy)

	return lerp(i0, i1, fz)
}
