package march

import (
	"math"

	"voxel-engine/internal/config"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half line. Direction must have unit length; it is not
// normalized here.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Reason says why a march ended.
type Reason uint8

const (
	// ReasonHit means the ray stopped in a solid cell.
	ReasonHit Reason = iota
	// ReasonMissDistance means the ray travelled past MaxDistance.
	ReasonMissDistance
	// ReasonMissSteps means the ray used up MaxSteps iterations.
	ReasonMissSteps
)

func (r Reason) String() string {
	switch r {
	case ReasonHit:
		return "hit"
	case ReasonMissDistance:
		return "miss_distance"
	case ReasonMissSteps:
		return "miss_steps"
	default:
		return "unknown"
	}
}

// Result is a Hit or a Miss. Position, Cell and Distance are only set on a
// hit; Steps and Reason are always set.
type Result struct {
	Hit      bool
	Position mgl64.Vec3
	Cell     world.CellCoord
	Distance float64
	Steps    int
	Reason   Reason
}

// Step is one traversal iteration, reported to MarchFunc visitors.
type Step struct {
	Index    int
	LOD      int
	Cell     world.CellCoord
	Position mgl64.Vec3
	Traveled float64
	Bounds   Bounds
	Verdict  Verdict
}

// Marcher walks rays through the LOD hierarchy. It holds only immutable
// configuration and may be shared by any number of goroutines.
type Marcher struct {
	classifier  *world.Classifier
	estimator   *Estimator
	maxLOD      int
	maxSteps    int
	maxDistance float64
	margin      float64
}

// New validates the configuration and builds a classifier and a marcher over it.
func New(c config.Config) (*Marcher, error) {
	cls, err := world.NewClassifier(c)
	if err != nil {
		return nil, err
	}
	return NewMarcher(cls, c), nil
}

// NewMarcher creates a marcher over an existing classifier. The traversal
// limits are read from c, which is expected to be validated already.
func NewMarcher(cls *world.Classifier, c config.Config) *Marcher {
	return &Marcher{
		classifier:  cls,
		estimator:   NewEstimator(cls),
		maxLOD:      c.MaxLOD,
		maxSteps:    c.MaxSteps,
		maxDistance: c.MaxDistance,
		margin:      c.AscendMargin,
	}
}

// Classifier returns the cellular function the marcher intersects.
func (m *Marcher) Classifier() *world.Classifier {
	return m.classifier
}

// Estimator returns the bounds estimator.
func (m *Marcher) Estimator() *Estimator {
	return m.estimator
}

// MaxLOD returns the coarsest level the traversal starts at.
func (m *Marcher) MaxLOD() int {
	return m.maxLOD
}

// March intersects a ray with the world.
func (m *Marcher) March(r Ray) Result {
	return m.MarchFunc(r, nil)
}

// MarchFunc intersects a ray with the world and calls visit, if not nil,
// once per iteration before the iteration acts on its verdict.
func (m *Marcher) MarchFunc(r Ray, visit func(Step)) Result {
	pos := r.Origin
	lod := m.maxLOD
	traveled := 0.0

	for steps := 0; steps < m.maxSteps; steps++ {
		if traveled > m.maxDistance {
			return Result{Steps: steps, Reason: ReasonMissDistance}
		}

		cell := CellAt(pos, lod)
		verdict, bounds := m.estimator.Classify(cell, lod)
		if visit != nil {
			visit(Step{
				Index:    steps,
				LOD:      lod,
				Cell:     cell,
				Position: pos,
				Traveled: traveled,
				Bounds:   bounds,
				Verdict:  verdict,
			})
		}

		switch verdict {
		case VerdictSkip:
			next, t := ExitPoint(pos, r.Direction, cell, CellSize(lod))
			pos = next
			traveled += t + StepEpsilon
			if lod < m.maxLOD && m.canAscend(pos, lod+1) {
				lod++
			}

		case VerdictSolid:
			if lod == 0 {
				return m.hit(pos, cell, traveled, steps)
			}
			lod--

		case VerdictUncertain:
			if lod > 0 {
				lod--
				continue
			}
			if m.classifier.Classify(cell).Solid() {
				return m.hit(pos, cell, traveled, steps)
			}
			next, t := ExitPoint(pos, r.Direction, cell, 1)
			pos = next
			traveled += t + StepEpsilon
		}
	}

	if traveled > m.maxDistance {
		return Result{Steps: m.maxSteps, Reason: ReasonMissDistance}
	}
	return Result{Steps: m.maxSteps, Reason: ReasonMissSteps}
}

func (m *Marcher) hit(pos mgl64.Vec3, cell world.CellCoord, traveled float64, steps int) Result {
	return Result{
		Hit:      true,
		Position: pos,
		Cell:     cell,
		Distance: traveled,
		Steps:    steps + 1,
		Reason:   ReasonHit,
	}
}

// canAscend reports whether pos sits at least margin (as a fraction of the
// cell size) away from every face of its cell at lod. Ascending only then
// keeps the next iteration from descending straight back.
func (m *Marcher) canAscend(pos mgl64.Vec3, lod int) bool {
	size := CellSize(lod)
	for axis := 0; axis < 3; axis++ {
		v := pos[axis] / size
		frac := v - math.Floor(v)
		if frac < m.margin || frac > 1-m.margin {
			return false
		}
	}
	return true
}
