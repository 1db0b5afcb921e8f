package draw

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking down -Z, pitched about X.
type Camera struct {
	Position mgl64.Vec3
	Pitch    float64 // Radians, negative looks down
	FovY     float64 // Vertical field of view in radians
	Near     float64
	Far      float64

	view mgl64.Mat4
}

// DefaultCamera sits above and behind the player, tilted down at the playfield.
func DefaultCamera() Camera {
	c := Camera{
		Position: mgl64.Vec3{0, 8, 15},
		Pitch:    -0.3,
		FovY:     mgl64.DegToRad(90),
		Near:     0.1,
		Far:      1000,
	}
	c.Update()
	return c
}

// Update recomputes the view matrix after Position or Pitch changed.
func (c *Camera) Update() {
	c.view = mgl64.HomogRotate3DX(-c.Pitch).Mul4(mgl64.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

// Projection is the result of projecting one world point.
type Projection struct {
	X, Y  float64 // Viewport coordinates, origin top-left, y down
	Depth float64 // Distance along the view axis
	Scale float64 // Viewport units per world unit at this depth
}

// Project maps a world point into a width x height viewport.
// ok is false for points behind the near plane or beyond the far plane.
func (c *Camera) Project(p mgl64.Vec3, width, height float64) (Projection, bool) {
	eye := c.view.Mul4x1(p.Vec4(1))
	depth := -eye.Z()
	if depth < c.Near || depth > c.Far {
		return Projection{}, false
	}

	proj := mgl64.Perspective(c.FovY, width/height, c.Near, c.Far)
	win := mgl64.Project(p, c.view, proj, 0, 0, int(math.Round(width)), int(math.Round(height)))

	focal := height / 2 / math.Tan(c.FovY/2)
	return Projection{
		X:     win.X(),
		Y:     height - win.Y(),
		Depth: depth,
		Scale: focal / depth,
	}, true
}

// RotateEuler applies XYZ Euler rotation to v.
func RotateEuler(v, rot mgl64.Vec3) mgl64.Vec3 {
	m := mgl64.AnglesToQuat(rot[0], rot[1], rot[2], mgl64.XYZ).Mat4()
	return m.Mul4x1(v.Vec4(1)).Vec3()
}
