package world

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is what a cell is made of.
type Material uint8

const (
	MaterialAir Material = iota
	MaterialWater
	MaterialGrass
	MaterialDirt
	MaterialStone
	MaterialCoal
	MaterialIron
	MaterialGold
	MaterialDiamond
	MaterialSand
	MaterialGravel
	MaterialWood
	MaterialLeaves
	MaterialCount // Sentinel value for array sizing
)

// CellCoord is an integer cell coordinate. It is only meaningful together
// with the LOD it was computed at.
type CellCoord [3]int

type materialInfo struct {
	name  string
	solid bool
	color mgl32.Vec3
}

var materials = [MaterialCount]materialInfo{
	MaterialAir:     {"air", false, mgl32.Vec3{0.0, 0.0, 0.0}},
	MaterialWater:   {"water", false, mgl32.Vec3{0.16, 0.32, 0.75}},
	MaterialGrass:   {"grass", true, mgl32.Vec3{0.36, 0.62, 0.24}},
	MaterialDirt:    {"dirt", true, mgl32.Vec3{0.47, 0.33, 0.21}},
	MaterialStone:   {"stone", true, mgl32.Vec3{0.5, 0.5, 0.5}},
	MaterialCoal:    {"coal", true, mgl32.Vec3{0.15, 0.15, 0.15}},
	MaterialIron:    {"iron", true, mgl32.Vec3{0.72, 0.56, 0.45}},
	MaterialGold:    {"gold", true, mgl32.Vec3{0.98, 0.82, 0.2}},
	MaterialDiamond: {"diamond", true, mgl32.Vec3{0.36, 0.9, 0.88}},
	MaterialSand:    {"sand", true, mgl32.Vec3{0.86, 0.8, 0.56}},
	MaterialGravel:  {"gravel", true, mgl32.Vec3{0.53, 0.5, 0.49}},
	MaterialWood:    {"wood", true, mgl32.Vec3{0.4, 0.3, 0.18}},
	MaterialLeaves:  {"leaves", true, mgl32.Vec3{0.22, 0.5, 0.16}},
}

// Solid reports whether rays stop at this material. Air and water let rays through.
func (m Material) Solid() bool {
	if m >= MaterialCount {
		return false
	}
	return materials[m].solid
}

// String returns the lower-case material name
func (m Material) String() string {
	if m >= MaterialCount {
		return "unknown"
	}
	return materials[m].name
}

// Color returns the flat albedo of the material
func (m Material) Color() mgl32.Vec3 {
	if m >= MaterialCount {
		return mgl32.Vec3{1.0, 0.0, 1.0} // Magenta (fallback)
	}
	return materials[m].color
}

// ParseMaterial looks a material up by name, case-insensitively.
func ParseMaterial(name string) (Material, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range MaterialCount {
		if materials[i].name == name {
			return i, true
		}
	}
	return MaterialAir, false
}
