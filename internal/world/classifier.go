package world

import (
	"voxel-engine/internal/config"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrTypeUnknownMaterial is returned when an ore rule names a material that does not exist.
const ErrTypeUnknownMaterial = "unknown_material"

type oreRule struct {
	material  Material
	field     Fractal
	threshold float64
	minDepth  float64
	maxDepth  float64
	openEnded bool
}

func (o oreRule) inBand(depth float64) bool {
	if depth < o.minDepth {
		return false
	}
	return o.openEnded || depth < o.maxDepth
}

// Classifier is the cellular function: a pure mapping from an LOD 0 cell
// coordinate to its material. It holds only immutable parameters and is
// safe for concurrent use.
type Classifier struct {
	terrain       Heightfield
	caves         Fractal
	ores          []oreRule
	threshold     float64
	waterLevel    float64
	caveThreshold float64
	grassDepth    float64
	dirtDepth     float64
}

// NewClassifier validates the configuration and builds the noise fields.
func NewClassifier(c config.Config) (*Classifier, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	terrain, err := NewHeightfield(c.Terrain)
	if err != nil {
		return nil, err
	}

	caves, err := NewFractal(c.Caves.Seed, c.TotalOctaves, 1/c.Caves.Scale, c.Caves.Amplitude)
	if err != nil {
		return nil, err
	}

	ores := make([]oreRule, 0, len(c.Ores))
	for _, o := range c.Ores {
		m, ok := ParseMaterial(o.Material)
		if !ok || !m.Solid() {
			return nil, errors.New("ore material is not a known solid material").
				WithType(ErrTypeUnknownMaterial).
				WithTag("material", o.Material)
		}
		field, err := NewFractal(o.Seed, o.Octaves, 1/o.Scale, 1)
		if err != nil {
			return nil, err
		}
		ores = append(ores, oreRule{
			material:  m,
			field:     field,
			threshold: o.Threshold,
			minDepth:  o.MinDepth,
			maxDepth:  o.MaxDepth,
			openEnded: o.OpenEnded(),
		})
	}

	return &Classifier{
		terrain:       terrain,
		caves:         caves,
		ores:          ores,
		threshold:     c.ThresholdDensity,
		waterLevel:    c.WaterLevel,
		caveThreshold: c.Caves.Threshold,
		grassDepth:    c.Soil.GrassDepth,
		dirtDepth:     c.Soil.DirtDepth,
	}, nil
}

// Terrain returns the surface heightfield.
func (c *Classifier) Terrain() Heightfield { return c.terrain }

// Caves returns the cave carving field.
func (c *Classifier) Caves() Fractal { return c.caves }

// CaveThreshold returns the cave value above which stone is carved out.
func (c *Classifier) CaveThreshold() float64 { return c.caveThreshold }

// Threshold returns the occupancy boundary: a cell is solid when its density is at least this.
func (c *Classifier) Threshold() float64 { return c.threshold }

// WaterLevel returns the height below which empty surface cells hold water.
func (c *Classifier) WaterLevel() float64 { return c.waterLevel }

// SurfaceHeight returns the terrain height over a column.
func (c *Classifier) SurfaceHeight(x, z int) float64 {
	return c.terrain.HeightAt(float64(x), float64(z))
}

func cellPoint(cell CellCoord) mgl64.Vec3 {
	return mgl64.Vec3{float64(cell[0]), float64(cell[1]), float64(cell[2])}
}

// HeightDensity is the surface term of the density: positive below the surface.
func (c *Classifier) HeightDensity(cell CellCoord) float64 {
	return c.SurfaceHeight(cell[0], cell[2]) - float64(cell[1])
}

// CaveDensity is the cave term of the density: negative inside caves.
func (c *Classifier) CaveDensity(cell CellCoord) float64 {
	return c.caveThreshold - c.caves.Sample3D(cellPoint(cell))
}

// Density is the occupancy field sampled at a cell. The cell is solid
// exactly when Density >= Threshold.
func (c *Classifier) Density(cell CellCoord) float64 {
	return min(c.HeightDensity(cell), c.CaveDensity(cell))
}

// Classify returns the material of an LOD 0 cell. The first matching rule
// wins: open sky or water, caves, soil bands, ores, stone.
func (c *Classifier) Classify(cell CellCoord) Material {
	depth := c.HeightDensity(cell)
	if depth < c.threshold {
		if float64(cell[1]) < c.waterLevel {
			return MaterialWater
		}
		return MaterialAir
	}

	p := cellPoint(cell)
	if c.caveThreshold-c.caves.Sample3D(p) < c.threshold {
		return MaterialAir
	}

	if depth < c.grassDepth {
		return MaterialGrass
	}
	if depth < c.dirtDepth {
		return MaterialDirt
	}

	for _, o := range c.ores {
		if !o.inBand(depth) {
			continue
		}
		if o.field.Sample3D(p) > o.threshold {
			return o.material
		}
	}
	return MaterialStone
}

// IsSolid reports whether the cell at x,y,z stops rays.
func (c *Classifier) IsSolid(x, y, z int) bool {
	return c.Classify(CellCoord{x, y, z}).Solid()
}
