package march

import (
	"math"

	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds encloses the density of every LOD 0 cell inside a coarser cell.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v float64) bool {
	return b.Min <= v && v <= b.Max
}

// Verdict is the three-way outcome of comparing a bound with the threshold.
type Verdict uint8

const (
	// VerdictSkip means the whole cell is provably empty.
	VerdictSkip Verdict = iota
	// VerdictSolid means the whole cell is provably solid.
	VerdictSolid
	// VerdictUncertain means the bound straddles the threshold.
	VerdictUncertain
)

func (v Verdict) String() string {
	switch v {
	case VerdictSkip:
		return "skip"
	case VerdictSolid:
		return "solid"
	case VerdictUncertain:
		return "uncertain"
	default:
		return "unknown"
	}
}

// CellSize returns the side length of a cell at lod.
func CellSize(lod int) float64 {
	return math.Ldexp(1, lod)
}

// CellAt returns the cell containing p at lod.
func CellAt(p mgl64.Vec3, lod int) world.CellCoord {
	size := CellSize(lod)
	return world.CellCoord{
		int(math.Floor(p[0] / size)),
		int(math.Floor(p[1] / size)),
		int(math.Floor(p[2] / size)),
	}
}

// CellCentre returns the centre of the LOD 0 sample points inside a cell.
// At LOD 0 it is the cell coordinate itself.
func CellCentre(cell world.CellCoord, lod int) mgl64.Vec3 {
	size := CellSize(lod)
	off := (size - 1) / 2
	return mgl64.Vec3{
		float64(cell[0])*size + off,
		float64(cell[1])*size + off,
		float64(cell[2])*size + off,
	}
}

// Estimator computes conservative density bounds over cells at any LOD.
// It shares the classifier's fields and holds no mutable state.
type Estimator struct {
	classifier *world.Classifier
	threshold  float64
}

// NewEstimator creates an estimator over the classifier's density field.
func NewEstimator(c *world.Classifier) *Estimator {
	return &Estimator{
		classifier: c,
		threshold:  c.Threshold(),
	}
}

// Threshold is the occupancy boundary shared by every LOD.
func (e *Estimator) Threshold() float64 {
	return e.threshold
}

// NoiseBounds bounds a 3D fractal over a cell. The top lod octaves are not
// evaluated; their amplitude sum and the drift of the evaluated octaves
// across the cell widen the interval around the centre value. The interval
// is clipped to the field's global range without excluding the centre.
func NoiseBounds(f world.Fractal, cell world.CellCoord, lod int) Bounds {
	n := f.Octaves()
	evaluated := max(n-lod, 0)
	size := CellSize(lod)
	halfL1 := 3 * (size - 1) / 2

	centre := f.SampleOctaves3D(CellCentre(cell, lod), 0, evaluated)
	dev := f.SumAmplitudes(evaluated, n) + f.Drift(evaluated, halfL1)
	r := f.Range()

	return Bounds{
		Min: math.Min(centre, math.Max(centre-dev, -r)),
		Max: math.Max(centre, math.Min(centre+dev, r)),
	}
}

// HeightBounds bounds the surface term surfaceHeight − y over a cell.
func (e *Estimator) HeightBounds(cell world.CellCoord, lod int) Bounds {
	size := CellSize(lod)
	centre := CellCentre(cell, lod)

	h, dev := e.classifier.Terrain().Estimate(centre[0], centre[2], lod, size-1)
	yMin := float64(cell[1]) * size
	yMax := yMin + size - 1

	return Bounds{
		Min: h - dev - yMax,
		Max: h + dev - yMin,
	}
}

// CaveBounds bounds the cave term caveThreshold − cave over a cell.
func (e *Estimator) CaveBounds(cell world.CellCoord, lod int) Bounds {
	b := NoiseBounds(e.classifier.Caves(), cell, lod)
	t := e.classifier.CaveThreshold()
	return Bounds{Min: t - b.Max, Max: t - b.Min}
}

// Bounds encloses the full density min(height term, cave term) over a cell.
// At LOD 0 both terms are exact, so Min == Max == the cell's density.
func (e *Estimator) Bounds(cell world.CellCoord, lod int) Bounds {
	return e.combine(e.HeightBounds(cell, lod), e.CaveBounds(cell, lod))
}

func (e *Estimator) combine(hb, cb Bounds) Bounds {
	return Bounds{
		Min: math.Min(hb.Min, cb.Min),
		Max: math.Min(hb.Max, cb.Max),
	}
}

// Classify bounds the density over a cell and compares it with the
// threshold. The heightfield is tested first: a cell above the surface bound
// is skipped without evaluating any 3D noise, and its lower bound falls back
// to the cave field's global range.
func (e *Estimator) Classify(cell world.CellCoord, lod int) (Verdict, Bounds) {
	hb := e.HeightBounds(cell, lod)
	if hb.Max < e.threshold {
		caveMin := e.classifier.CaveThreshold() - e.classifier.Caves().Range()
		return VerdictSkip, Bounds{Min: math.Min(hb.Min, caveMin), Max: hb.Max}
	}

	b := e.combine(hb, e.CaveBounds(cell, lod))
	return e.verdict(b), b
}

func (e *Estimator) verdict(b Bounds) Verdict {
	switch {
	case b.Max < e.threshold:
		return VerdictSkip
	case b.Min > e.threshold:
		return VerdictSolid
	default:
		return VerdictUncertain
	}
}
