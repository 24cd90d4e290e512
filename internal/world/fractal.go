package world

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrTypeInvalidFractal is returned for degenerate fractal parameters.
const ErrTypeInvalidFractal = "invalid_fractal"

// Fractal is multi-octave value noise. Octave i samples at frequency f0·2^i
// with amplitude a0·2^-i and its own derived seed.
type Fractal struct {
	seed      int64
	octaves   int
	frequency float64
	amplitude float64
}

// NewFractal creates a fractal noise field.
func NewFractal(seed int64, octaves int, frequency, amplitude float64) (Fractal, error) {
	if octaves <= 0 {
		return Fractal{}, errors.New("fractal needs at least one octave").
			WithType(ErrTypeInvalidFractal).
			WithTag("octaves", octaves)
	}
	if !(frequency > 0) {
		return Fractal{}, errors.New("fractal frequency must be positive").
			WithType(ErrTypeInvalidFractal).
			WithTag("frequency", frequency)
	}
	if !(amplitude > 0) {
		return Fractal{}, errors.New("fractal amplitude must be positive").
			WithType(ErrTypeInvalidFractal).
			WithTag("amplitude", amplitude)
	}
	return Fractal{
		seed:      seed,
		octaves:   octaves,
		frequency: frequency,
		amplitude: amplitude,
	}, nil
}

// Octaves returns the total octave count.
func (f Fractal) Octaves() int {
	return f.octaves
}

// Amplitude returns the amplitude of octave i.
func (f Fractal) Amplitude(i int) float64 {
	return math.Ldexp(f.amplitude, -i)
}

// Frequency returns the frequency of octave i.
func (f Fractal) Frequency(i int) float64 {
	return math.Ldexp(f.frequency, i)
}

func (f Fractal) octaveSeed(i int) int64 {
	return f.seed + int64(i)*131
}

// clamp restricts an octave range to [0, octaves].
func (f Fractal) clamp(from, to int) (int, int) {
	from = max(from, 0)
	to = min(to, f.octaves)
	return from, to
}

// Sample2D evaluates every octave at (x, z).
func (f Fractal) Sample2D(x, z float64) float64 {
	return f.SampleOctaves2D(x, z, 0, f.octaves)
}

// SampleOctaves2D evaluates the octaves in [from, to) at (x, z).
func (f Fractal) SampleOctaves2D(x, z float64, from, to int) float64 {
	from, to = f.clamp(from, to)
	sum := 0.0
	for i := from; i < to; i++ {
		freq := f.Frequency(i)
		sum += f.Amplitude(i) * ValueNoise2D(x*freq, z*freq, f.octaveSeed(i))
	}
	return sum
}

// Sample3D evaluates every octave at p.
func (f Fractal) Sample3D(p mgl64.Vec3) float64 {
	return f.SampleOctaves3D(p, 0, f.octaves)
}

// SampleOctaves3D evaluates the octaves in [from, to) at p.
func (f Fractal) SampleOctaves3D(p mgl64.Vec3, from, to int) float64 {
	from, to = f.clamp(from, to)
	sum := 0.0
	for i := from; i < to; i++ {
		freq := f.Frequency(i)
		sum += f.Amplitude(i) * ValueNoise3D(p[0]*freq, p[1]*freq, p[2]*freq, f.octaveSeed(i))
	}
	return sum
}

// SumAmplitudes returns the summed amplitude of the octaves in [from, to),
// which bounds the magnitude of their contribution anywhere.
func (f Fractal) SumAmplitudes(from, to int) float64 {
	from, to = f.clamp(from, to)
	if to <= from {
		return 0
	}
	// a0·Σ 2^-i for i in [from, to) = 2·a0·(2^-from − 2^-to)
	return 2 * f.amplitude * (math.Ldexp(1, -from) - math.Ldexp(1, -to))
}

// Range bounds |Sample| over all space.
func (f Fractal) Range() float64 {
	return f.SumAmplitudes(0, f.octaves)
}

// Drift bounds how far the first `evaluated` octaves can move when the
// sample point moves by at most halfL1 in L1 distance. Every octave has the
// same amplitude·frequency product, so the slope bound is shared.
func (f Fractal) Drift(evaluated int, halfL1 float64) float64 {
	_, evaluated = f.clamp(0, evaluated)
	if evaluated <= 0 || halfL1 <= 0 {
		return 0
	}
	slope := NoiseLipschitz * f.amplitude * f.frequency * halfL1 * float64(evaluated)
	return math.Min(slope, 2*f.SumAmplitudes(0, evaluated))
}
