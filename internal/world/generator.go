package world

import (
	"voxel-engine/internal/config"
)

// Heightfield is the terrain surface: a base height plus mountain, hill and
// bump fractal layers summed over horizontal position.
type Heightfield struct {
	base   float64
	layers [3]Fractal
}

// NewHeightfield builds the surface layers from configuration.
func NewHeightfield(c config.Terrain) (Heightfield, error) {
	h := Heightfield{base: c.BaseHeight}
	for i, l := range []config.Layer{c.Mountains, c.Hills, c.Bumps} {
		f, err := NewFractal(l.Seed, l.Octaves, l.Frequency(), l.Amplitude)
		if err != nil {
			return Heightfield{}, err
		}
		h.layers[i] = f
	}
	return h, nil
}

// Layers returns the mountain, hill and bump fields.
func (h Heightfield) Layers() [3]Fractal {
	return h.layers
}

// HeightAt computes the exact surface height at world X,Z.
func (h Heightfield) HeightAt(x, z float64) float64 {
	height, _ := h.Estimate(x, z, 0, 0)
	return height
}

// Estimate evaluates the surface at (x, z) with the top `lod` octaves of
// every layer dropped, and returns the deviation that bounds the full
// surface anywhere within halfL1 (L1 distance) of (x, z).
func (h Heightfield) Estimate(x, z float64, lod int, halfL1 float64) (height, deviation float64) {
	height = h.base
	for _, l := range h.layers {
		n := l.Octaves()
		evaluated := max(n-lod, 0)
		height += l.SampleOctaves2D(x, z, 0, evaluated)
		deviation += l.SumAmplitudes(evaluated, n) + l.Drift(evaluated, halfL1)
	}
	return height, deviation
}

// Range bounds |surface − base| everywhere.
func (h Heightfield) Range() float64 {
	r := 0.0
	for _, l := range h.layers {
		r += l.Range()
	}
	return r
}
