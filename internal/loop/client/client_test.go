package client

import (
	"bufio"
	"bytes"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/loop/server"
)

type fakeServer struct {
	mu      sync.Mutex
	world   *game.World
	intents []input.Intent
	resets  int
	events  chan server.Event
}

func newFakeServer() *fakeServer {
	tun := config.DefaultTuning()
	tun.Stars.Count = 0
	return &fakeServer{
		world:  game.NewWorld(tun, game.WithRand(rand.New(rand.NewSource(1)))),
		events: make(chan server.Event, 8),
	}
}

func (f *fakeServer) SetIntent(in input.Intent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, in)
}

func (f *fakeServer) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

func (f *fakeServer) Snapshot() *game.Snapshot {
	return f.world.Snapshot()
}

func (f *fakeServer) Events() <-chan server.Event {
	return f.events
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(fs *fakeServer, in string, out *bytes.Buffer) *Client {
	return NewClient(fs, bufio.NewReader(strings.NewReader(in)), out, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
	})
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(80, 24)
	assert.Equal(t, []int{80, 24, 0, 0}, []int{w, h, col, row})

	w, h, col, row = clampTermSize(200, 60)
	assert.Equal(t, []int{160, 50, 20, 5}, []int{w, h, col, row})

	w, h, _, _ = clampTermSize(0, 0)
	assert.Equal(t, []int{1, 1}, []int{w, h})
}

func TestRunStartsGameAndQuitsOnEOF(t *testing.T) {
	fs := newFakeServer()
	var out bytes.Buffer
	c := newTestClient(fs, " ", &out)

	require.NoError(t, c.Run())

	assert.Equal(t, 1, fs.resets)
	assert.Equal(t, ScreenPlaying, c.state.Screen)
	require.NotEmpty(t, fs.intents)
	assert.Equal(t, input.Intent{}, fs.intents[len(fs.intents)-1], "keys released on exit")
	assert.Contains(t, out.String(), "\033[?25h")
}

func TestHUDFollowsDisplayEvents(t *testing.T) {
	fs := newFakeServer()
	var out bytes.Buffer
	c := newTestClient(fs, "", &out)
	c.state.Screen = ScreenPlaying

	fs.events <- server.Event{Type: server.EventDisplay, Display: game.Display{Score: 7, Lives: 2}}
	c.processServerEvents()
	require.NoError(t, c.drawFrame())
	assert.Contains(t, out.String(), "Score: 7")
	assert.Contains(t, out.String(), "Lives: 2")
	assert.NotContains(t, out.String(), "GAME OVER")

	out.Reset()
	fs.events <- server.Event{Type: server.EventGameOver, Display: game.Display{Score: 7, GameOverVisible: true, FinalScore: 7}}
	c.processServerEvents()
	require.NoError(t, c.drawFrame())
	assert.Contains(t, out.String(), "GAME OVER")
	assert.Contains(t, out.String(), "Final Score: 7")
}

func TestGameOverWaitsForRestart(t *testing.T) {
	fs := newFakeServer()
	var out bytes.Buffer
	c := newTestClient(fs, "", &out)
	c.state.Screen = ScreenPlaying
	c.state.Display = game.Display{GameOverVisible: true}

	c.state.Input = input.Input{Intent: input.Intent{Left: true}}
	c.updatePlayingState()
	assert.Equal(t, 0, fs.resets)
	assert.Equal(t, input.Intent{}, fs.intents[len(fs.intents)-1])

	c.state.Input = input.Input{Restart: true}
	c.updatePlayingState()
	assert.Equal(t, 1, fs.resets)
}

func TestShutdownEventEndsClient(t *testing.T) {
	fs := newFakeServer()
	var out bytes.Buffer
	c := newTestClient(fs, "", &out)

	fs.events <- server.Event{Type: server.EventServerShutdown}
	c.processServerEvents()
	assert.Equal(t, ScreenShutdown, c.state.Screen)

	c.state.delta = 10e9
	c.updateShutdownState()
	assert.False(t, c.state.Running)
}
