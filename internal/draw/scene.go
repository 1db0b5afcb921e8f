package draw

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/object"
)

// boltHalfLength is half the visual length of a projectile along Z.
const boltHalfLength = 1.0

// Scene rasterizes snapshots onto a canvas through a camera.
type Scene struct {
	Camera Camera
	Stars  bool // Draw the starfield

	items []sprite
}

// sprite is one thing to paint, sorted far to near.
type sprite struct {
	depth  float64
	x, y   float64
	w, h   float64
	line   bool
	x2, y2 float64
	poly   []Point
	color  RGB
}

// NewScene creates a scene with the default camera.
func NewScene() *Scene {
	return &Scene{Camera: DefaultCamera(), Stars: true}
}

// Render clears c and paints s onto it. Rendering never depends on the
// game phase: explosions and the starfield keep animating after game over.
func (sc *Scene) Render(c *Canvas, s *game.Snapshot) {
	c.Clear()
	if s == nil {
		return
	}
	width, height := c.LogicalWidth(), c.LogicalHeight()
	sc.items = sc.items[:0]

	if sc.Stars {
		sc.addStars(s, width, height)
	}
	if s.Player.Visible {
		sc.addComposite(s.Player, width, height)
	}
	for _, e := range s.Enemies {
		sc.addComposite(e, width, height)
	}
	for _, p := range s.Projectiles {
		sc.addBolt(p, width, height)
	}
	for _, g := range s.Explosions {
		for _, p := range g.Particles {
			sc.addParticle(p, width, height)
		}
	}

	sort.SliceStable(sc.items, func(i, j int) bool {
		return sc.items[i].depth > sc.items[j].depth
	})
	for _, it := range sc.items {
		if it.line {
			c.DrawLine(Point{it.x, it.y}, Point{it.x2, it.y2}, it.color)
			continue
		}
		if it.poly != nil {
			c.DrawPolygon(it.poly, true, it.color)
			continue
		}
		if it.w == 0 && it.h == 0 {
			c.SetFloat(it.x, it.y, it.color)
			continue
		}
		c.FillRect(it.x, it.y, it.w, it.h, it.color)
	}
}

func (sc *Scene) addStars(s *game.Snapshot, width, height float64) {
	sin, cos := math.Sincos(s.StarRoll)
	for _, star := range s.Stars {
		rolled := mgl64.Vec3{star[0]*cos - star[1]*sin, star[0]*sin + star[1]*cos, star[2]}
		pr, ok := sc.Camera.Project(rolled, width, height)
		if !ok || !inside(pr, width, height) {
			continue
		}
		bright := math.Max(0.25, 1-pr.Depth/200)
		sc.items = append(sc.items, sprite{
			depth: pr.Depth,
			x:     pr.X,
			y:     pr.Y,
			color: RGBFloat(1, 1, 1, bright),
		})
	}
}

// addComposite paints each part as the projected quad of its top face.
func (sc *Scene) addComposite(v game.EntityView, width, height float64) {
	for _, part := range v.Parts {
		hx, hz := part.Size.X()/2, part.Size.Z()/2
		corners := [4]mgl64.Vec3{
			{-hx, 0, -hz}, {hx, 0, -hz}, {hx, 0, hz}, {-hx, 0, hz},
		}
		poly := make([]Point, 0, len(corners))
		depth := 0.0
		for _, corner := range corners {
			pos := v.Position.Add(RotateEuler(part.Offset.Add(corner), v.Rotation))
			pr, ok := sc.Camera.Project(pos, width, height)
			if !ok {
				break
			}
			poly = append(poly, Point{pr.X, pr.Y})
			depth += pr.Depth
		}
		if len(poly) != len(corners) {
			continue
		}
		col, glow := part.Color, part.Emissive
		sc.items = append(sc.items, sprite{
			depth: depth / float64(len(corners)),
			poly:  poly,
			color: RGBFloat(col.R+glow.R, col.G+glow.G, col.B+glow.B, part.Opacity),
		})
	}
}

func (sc *Scene) addBolt(v game.EntityView, width, height float64) {
	tail, ok1 := sc.Camera.Project(v.Position.Add(mgl64.Vec3{0, 0, boltHalfLength}), width, height)
	head, ok2 := sc.Camera.Project(v.Position.Sub(mgl64.Vec3{0, 0, boltHalfLength}), width, height)
	if !ok1 || !ok2 {
		return
	}
	sc.items = append(sc.items, sprite{
		depth: (tail.Depth + head.Depth) / 2,
		line:  true,
		x:     tail.X,
		y:     tail.Y,
		x2:    head.X,
		y2:    head.Y,
		color: RGBFloat(v.Tint.R, v.Tint.G, v.Tint.B, 0.5+v.Opacity/2),
	})
}

func (sc *Scene) addParticle(p game.ParticleView, width, height float64) {
	if p.Opacity <= 0 {
		return
	}
	pr, ok := sc.Camera.Project(p.Position, width, height)
	if !ok {
		return
	}
	size := p.Size * p.Scale * pr.Scale
	sc.items = append(sc.items, sprite{
		depth: pr.Depth,
		x:     pr.X,
		y:     pr.Y,
		w:     size,
		h:     size,
		color: RGBFloat(p.Color.R, p.Color.G, p.Color.B, p.Opacity),
	})
}

func inside(pr Projection, width, height float64) bool {
	return pr.X >= 0 && pr.X < width && pr.Y >= 0 && pr.Y < height
}

// Tint converts an entity colour to a terminal colour.
func Tint(c object.Color) RGB {
	return RGBFloat(c.R, c.G, c.B, 1)
}
