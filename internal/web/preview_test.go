package web

import (
	"bytes"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/input"
)

func TestRenderPreview(t *testing.T) {
	tun := config.DefaultTuning()
	tun.Stars.Count = 50
	w := game.NewWorld(tun, game.WithRand(rand.New(rand.NewSource(5))))
	w.Step(input.Intent{Shoot: true})

	var buf bytes.Buffer
	require.NoError(t, renderPreview(&buf, w.Snapshot(), 200, 120))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
}

func TestPreviewSize(t *testing.T) {
	w, h := previewSize(0, -1)
	assert.Equal(t, defaultPreviewWidth, w)
	assert.Equal(t, defaultPreviewHeight, h)

	w, h = previewSize(5000, 300)
	assert.Equal(t, maxPreviewSide, w)
	assert.Equal(t, 300, h)
}
