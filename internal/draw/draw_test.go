package draw

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/game"
)

func TestCanvasRenderHalfBlocks(t *testing.T) {
	red := NewRGB(255, 0, 0)
	blue := NewRGB(0, 0, 255)

	c := NewCanvas(3, 1)
	c.setPixel(0, 0, red)
	c.setPixel(1, 0, red)
	c.setPixel(1, 1, red)
	c.setPixel(2, 0, red)
	c.setPixel(2, 1, blue)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "\033[1;1H\033[38;2;255;0;0m▀")
	assert.Contains(t, out, "\033[1;2H█")
	assert.Contains(t, out, "\033[1;3H\033[48;2;0;0;255m▀")
	assert.True(t, strings.HasSuffix(out, ResetColor))
}

func TestCanvasRenderSkipsEmpty(t *testing.T) {
	c := NewCanvas(4, 2)
	var buf bytes.Buffer
	c.Render(&buf)
	assert.Empty(t, buf.String())
}

func TestCanvasScaling(t *testing.T) {
	c := NewScaledCanvas(10, 5, 20, 20)
	c.SetFloat(10, 10, NewRGB(1, 2, 3))
	assert.Equal(t, NewRGB(1, 2, 3), c.At(5, 5))

	c.Resize(20, 10)
	c.Clear()
	c.SetFloat(10, 10, NewRGB(1, 2, 3))
	assert.Equal(t, NewRGB(1, 2, 3), c.At(10, 10))
	assert.Equal(t, RGB(0), c.At(-1, 0))
}

func TestCanvasPolygonFill(t *testing.T) {
	c := NewCanvas(10, 5)
	col := NewRGB(0, 255, 0)
	c.DrawPolygon([]Point{{1, 1}, {8, 1}, {8, 8}, {1, 8}}, true, col)
	assert.Equal(t, col, c.At(4, 4))
	assert.Equal(t, RGB(0), c.At(9, 9))
}

func TestRGBFloatSaturates(t *testing.T) {
	r, g, b := RGBFloat(2, 0.5, -1, 1).Channels()
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(128), g)
	assert.Equal(t, uint8(0), b)
	assert.NotZero(t, NewRGB(0, 0, 0), "black is still a pixel")
}

func TestCameraProjectsViewAxisToCenter(t *testing.T) {
	cam := DefaultCamera()
	forward := mgl64.Vec3{0, math.Sin(cam.Pitch), -math.Cos(cam.Pitch)}
	p := cam.Position.Add(forward.Mul(10))

	pr, ok := cam.Project(p, 120, 80)
	require.True(t, ok)
	assert.InDelta(t, 60, pr.X, 1e-6)
	assert.InDelta(t, 40, pr.Y, 1e-6)
	assert.InDelta(t, 10, pr.Depth, 1e-9)
	assert.InDelta(t, 4, pr.Scale, 1e-9)

	_, ok = cam.Project(mgl64.Vec3{0, 8, 20}, 120, 80)
	assert.False(t, ok, "behind the camera")
}

func TestCameraPlayerBelowCenter(t *testing.T) {
	cam := DefaultCamera()
	pr, ok := cam.Project(mgl64.Vec3{}, 120, 80)
	require.True(t, ok)
	assert.InDelta(t, 60, pr.X, 1e-6)
	assert.Greater(t, pr.Y, 40.0)

	right, _ := cam.Project(mgl64.Vec3{5, 0, 0}, 120, 80)
	assert.Greater(t, right.X, pr.X)
}

func TestRotateEuler(t *testing.T) {
	v := RotateEuler(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, math.Pi / 2})
	assert.InDelta(t, 0, v.X(), 1e-9)
	assert.InDelta(t, 1, v.Y(), 1e-9)
}

func TestSceneRendersWorld(t *testing.T) {
	tun := config.DefaultTuning()
	tun.Stars.Count = 0
	w := game.NewWorld(tun, game.WithRand(rand.New(rand.NewSource(1))))

	c := NewScaledCanvas(60, 20, 120, 80)
	sc := NewScene()
	sc.Render(c, w.Snapshot())

	found := false
	for y := 0; y < 40 && !found; y++ {
		for x := 0; x < 60; x++ {
			if c.At(x, y) != 0 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "player ship should be painted")

	sc.Render(c, nil)
	var buf bytes.Buffer
	c.Render(&buf)
	assert.Empty(t, buf.String())
}

func TestCenteredText(t *testing.T) {
	txt := Centered(20, 3, "GAME OVER")
	assert.Equal(t, 6, txt.X)
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf, 2, 1)
	cw.WriteText(txt)
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[4;8HGAME OVER", buf.String())
}

func TestCanvasRenderOnlyChanges(t *testing.T) {
	c := NewCanvas(2, 1)
	col := NewRGB(9, 9, 9)
	c.setPixel(0, 0, col)

	var buf bytes.Buffer
	c.Render(&buf)
	require.NotEmpty(t, buf.String())

	buf.Reset()
	c.Render(&buf)
	assert.Empty(t, buf.String(), "unchanged frame writes nothing")

	c.ForceRedraw()
	c.Render(&buf)
	assert.Contains(t, buf.String(), "▀")

	buf.Reset()
	c.Clear()
	c.Render(&buf)
	assert.Equal(t, "\033[1;1H ", buf.String(), "emptied cell is blanked")
}
