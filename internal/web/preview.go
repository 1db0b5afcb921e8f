package web

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/object"
)

const (
	defaultPreviewWidth  = 640
	defaultPreviewHeight = 400
	maxPreviewSide       = 1920
)

// previewItem is one shape to paint, sorted far to near.
type previewItem struct {
	depth float64
	paint func(dc *gg.Context)
}

// renderPreview rasterizes a snapshot to PNG through the same camera the
// terminal client uses.
func renderPreview(w io.Writer, s *game.Snapshot, width, height int) error {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0.02)
	dc.Clear()

	cam := draw.DefaultCamera()
	fw, fh := float64(width), float64(height)
	var items []previewItem

	project := func(p mgl64.Vec3) (draw.Projection, bool) {
		return cam.Project(p, fw, fh)
	}

	sin, cos := math.Sincos(s.StarRoll)
	for _, star := range s.Stars {
		pr, ok := project(mgl64.Vec3{star[0]*cos - star[1]*sin, star[0]*sin + star[1]*cos, star[2]})
		if !ok {
			continue
		}
		bright := math.Max(0.25, 1-pr.Depth/200)
		items = append(items, previewItem{pr.Depth, func(dc *gg.Context) {
			dc.SetRGBA(1, 1, 1, bright)
			dc.DrawPoint(pr.X, pr.Y, 0.8)
			dc.Fill()
		}})
	}

	composite := func(v game.EntityView) {
		for _, part := range v.Parts {
			pr, ok := project(v.Position.Add(draw.RotateEuler(part.Offset, v.Rotation)))
			if !ok {
				continue
			}
			pw := part.Size.X() * pr.Scale
			ph := (part.Size.Y() + part.Size.Z()*0.3) * pr.Scale
			col := mix(part.Color, part.Emissive)
			opacity := part.Opacity
			items = append(items, previewItem{pr.Depth, func(dc *gg.Context) {
				dc.SetRGBA(col.R, col.G, col.B, opacity)
				dc.DrawRectangle(pr.X-pw/2, pr.Y-ph/2, pw, ph)
				dc.Fill()
			}})
		}
	}
	if s.Player.Visible {
		composite(s.Player)
	}
	for _, e := range s.Enemies {
		composite(e)
	}

	for _, p := range s.Projectiles {
		tail, ok1 := project(p.Position.Add(mgl64.Vec3{0, 0, 1}))
		head, ok2 := project(p.Position.Sub(mgl64.Vec3{0, 0, 1}))
		if !ok1 || !ok2 {
			continue
		}
		tint, opacity := p.Tint, p.Opacity
		items = append(items, previewItem{(tail.Depth + head.Depth) / 2, func(dc *gg.Context) {
			dc.SetRGBA(tint.R, tint.G, tint.B, opacity)
			dc.SetLineWidth(math.Max(1, 0.15*head.Scale))
			dc.DrawLine(tail.X, tail.Y, head.X, head.Y)
			dc.Stroke()
		}})
	}

	for _, g := range s.Explosions {
		for _, p := range g.Particles {
			if p.Opacity <= 0 {
				continue
			}
			pr, ok := project(p.Position)
			if !ok {
				continue
			}
			r := math.Max(0.5, p.Size*p.Scale*pr.Scale/2)
			col, opacity := p.Color, p.Opacity
			items = append(items, previewItem{pr.Depth, func(dc *gg.Context) {
				dc.SetRGBA(col.R, col.G, col.B, opacity)
				dc.DrawCircle(pr.X, pr.Y, r)
				dc.Fill()
			}})
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].depth > items[j].depth })
	for _, it := range items {
		it.paint(dc)
	}

	drawPreviewHUD(dc, s.Display)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

func drawPreviewHUD(dc *gg.Context, d game.Display) {
	dc.SetRGB(0.8, 0.9, 1)
	dc.DrawString(fmt.Sprintf("Score: %d", d.Score), 8, 16)
	dc.DrawStringAnchored(fmt.Sprintf("Lives: %d", d.Lives), float64(dc.Width())-8, 16, 1, 0)
	if d.GameOverVisible {
		dc.SetRGB(1, 0.3, 0.2)
		cx, cy := float64(dc.Width())/2, float64(dc.Height())/2
		dc.DrawStringAnchored("GAME OVER", cx, cy-10, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("Final Score: %d", d.FinalScore), cx, cy+10, 0.5, 0.5)
	}
}

func mix(base, glow object.Color) object.Color {
	return object.Color{
		R: math.Min(1, base.R+glow.R),
		G: math.Min(1, base.G+glow.G),
		B: math.Min(1, base.B+glow.B),
	}
}

// previewSize clamps a requested image size, falling back to the defaults.
func previewSize(w, h int) (int, int) {
	if w <= 0 {
		w = defaultPreviewWidth
	}
	if h <= 0 {
		h = defaultPreviewHeight
	}
	return min(w, maxPreviewSide), min(h, maxPreviewSide)
}
