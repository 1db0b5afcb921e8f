package object

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tomz197/starstrike/internal/config"
)

// Starfield is the background dust drifting toward the camera.
// Stars that pass the near bound wrap to the far bound at a new x/y.
type Starfield struct {
	Stars []mgl64.Vec3
	Roll  float64

	cfg config.StarTuning
}

// NewStarfield scatters the stars uniformly in the cube of half-extent cfg.Extent.
func NewStarfield(rng Rand, cfg config.StarTuning) *Starfield {
	s := &Starfield{
		Stars: make([]mgl64.Vec3, cfg.Count),
		cfg:   cfg,
	}
	for i := range s.Stars {
		s.Stars[i] = mgl64.Vec3{
			uniform(rng, -cfg.Extent, cfg.Extent),
			uniform(rng, -cfg.Extent, cfg.Extent),
			uniform(rng, -cfg.Extent, cfg.Extent),
		}
	}
	return s
}

// Advance drifts every star one frame and spins the field.
func (s *Starfield) Advance(rng Rand) {
	ext := s.cfg.Extent
	s.Roll += s.cfg.Spin
	for i := range s.Stars {
		star := &s.Stars[i]
		star[2] += s.cfg.Speed
		if star[2] > ext {
			star[2] = -ext
			star[0] = uniform(rng, -ext, ext)
			star[1] = uniform(rng, -ext, ext)
		}
	}
}
