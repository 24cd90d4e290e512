package render

import (
	"image/color"
	"math"

	"voxel-engine/internal/march"
	"voxel-engine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader turns a march result into a pixel colour.
type Shader interface {
	Shade(ray march.Ray, res march.Result) color.RGBA
}

// PaletteShader colours hits with flat material colours, darkens faces by
// orientation and fades distant hits into a sky gradient.
type PaletteShader struct {
	Classifier  *world.Classifier
	SkyZenith   mgl32.Vec3
	SkyHorizon  mgl32.Vec3
	FogDistance float64
}

// NewPaletteShader returns a shader with the default sky and fog.
func NewPaletteShader(cls *world.Classifier) *PaletteShader {
	return &PaletteShader{
		Classifier:  cls,
		SkyZenith:   mgl32.Vec3{0.25, 0.45, 0.85},
		SkyHorizon:  mgl32.Vec3{0.7, 0.82, 0.95},
		FogDistance: 2048,
	}
}

// Shade implements Shader.
func (s *PaletteShader) Shade(ray march.Ray, res march.Result) color.RGBA {
	sky := s.sky(ray)
	if !res.Hit {
		return toRGBA(sky)
	}

	base := s.Classifier.Classify(res.Cell).Color()
	lit := base.Mul(faceLight(res))

	fog := float32(0)
	if s.FogDistance > 0 {
		fog = float32(1 - math.Exp(-res.Distance/s.FogDistance))
	}
	return toRGBA(lerpColor(lit, sky, fog))
}

func (s *PaletteShader) sky(ray march.Ray) mgl32.Vec3 {
	t := float32(math.Max(0, ray.Direction.Y()))
	return lerpColor(s.SkyHorizon, s.SkyZenith, t)
}

// faceLight picks the face the ray entered through from the hit position's
// offset inside its cell.
func faceLight(res march.Result) float32 {
	best := math.Inf(1)
	axis := 1
	for a := 0; a < 3; a++ {
		frac := res.Position[a] - float64(res.Cell[a])
		d := math.Min(frac, 1-frac)
		if d < best {
			best = d
			axis = a
		}
	}

	switch axis {
	case 1:
		if res.Position[1]-float64(res.Cell[1]) > 0.5 {
			return 1.0 // top
		}
		return 0.5 // bottom
	case 0:
		return 0.8
	default:
		return 0.7
	}
}

func lerpColor(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{
		R: channel(c.X()),
		G: channel(c.Y()),
		B: channel(c.Z()),
		A: 255,
	}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
