// Package physics provides proximity tests and the small scalar helpers
// used by the motion rules.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Distance calculates the Euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Within reports whether a and b are strictly closer than radius.
func Within(a, b mgl64.Vec3, radius float64) bool {
	return DistanceSquared(a, b) < radius*radius
}

// Direction returns the unit vector from -> to, or the zero vector when
// the points coincide.
func Direction(from, to mgl64.Vec3) mgl64.Vec3 {
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return d.Mul(1 / l)
}

// Clamp saturates v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Smooth moves current toward target by factor, a first-order low-pass step.
func Smooth(current, target, factor float64) float64 {
	return current + (target-current)*factor
}
