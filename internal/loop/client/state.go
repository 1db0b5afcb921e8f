package client

import (
	"time"

	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/input"
)

// ScreenState represents which screen the client shows.
type ScreenState int

const (
	ScreenStart    ScreenState = iota // Title screen
	ScreenPlaying                     // Game running, including game over
	ScreenShutdown                    // Server is shutting down
)

// ClientState holds the per-connection view of the game.
type ClientState struct {
	Input         input.Input
	Screen        ScreenState
	Display       game.Display // Latest HUD values from the server
	termSizeFunc  draw.TermSizeFunc
	Running       bool
	delta         time.Duration
	shutdownTimer float64
	isInactive    bool

	prevScreen  ScreenState
	wasInactive bool
	wasGameOver bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:  ScreenStart,
		Running: true,
	}
}
