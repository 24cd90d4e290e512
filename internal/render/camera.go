package render

import (
	"math"

	"voxel-engine/internal/march"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultFOV is the vertical field of view in radians (60°).
	DefaultFOV = 1.0471976

	// InitialYaw points the camera down -Z.
	InitialYaw = -math.Pi / 2
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Camera turns pixels into primary rays. Yaw and pitch are in radians.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64
}

// NewCamera creates a camera at pos looking down -Z.
func NewCamera(pos mgl64.Vec3) Camera {
	return Camera{
		Position: pos,
		Yaw:      InitialYaw,
		FOV:      DefaultFOV,
	}
}

// Forward returns the unit view direction.
func (c Camera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{
		math.Cos(c.Yaw) * cp,
		math.Sin(c.Pitch),
		math.Sin(c.Yaw) * cp,
	}.Normalize()
}

// Basis returns the orthonormal forward, right and up vectors.
func (c Camera) Basis() (forward, right, up mgl64.Vec3) {
	forward = c.Forward()
	right = forward.Cross(worldUp).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// RayAt returns the primary ray through the centre of pixel (px, py) of a
// width×height image. Row 0 is the top of the image.
func (c Camera) RayAt(px, py, width, height int) march.Ray {
	forward, right, up := c.Basis()

	aspect := float64(width) / float64(height)
	scale := math.Tan(c.FOV / 2)
	x := (2*(float64(px)+0.5)/float64(width) - 1) * scale * aspect
	y := (1 - 2*(float64(py)+0.5)/float64(height)) * scale

	dir := forward.Add(right.Mul(x)).Add(up.Mul(y)).Normalize()
	return march.Ray{Origin: c.Position, Direction: dir}
}
