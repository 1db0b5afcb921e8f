// Package server runs one game world on its own goroutine at a fixed tick
// rate and publishes immutable snapshots for any number of readers.
package server

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/logging"
	loopconfig "github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/object"
)

// GameServer is the interface clients use to drive a game.
// Decouples the terminal and web clients from the concrete Server.
type GameServer interface {
	SetIntent(in input.Intent)
	Reset()
	Snapshot() *game.Snapshot
	Events() <-chan Event
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// EventType identifies the type of server event.
type EventType int

const (
	EventDisplay  EventType = iota // HUD values changed
	EventGameOver                  // Final explosion finished
	EventServerShutdown
)

// Event is sent from the server to its client.
type Event struct {
	Type    EventType
	Display game.Display
}

// TickStats summarizes one tick for observers such as metrics.
type TickStats struct {
	Elapsed     time.Duration
	Phase       game.Phase
	Enemies     int
	Projectiles int
	Explosions  int
	Stats       game.Stats
}

// TickObserver is called from the server goroutine after every tick.
type TickObserver interface {
	ObserveTick(TickStats)
}

// Options configures a Server. The zero value is usable.
type Options struct {
	Logger   *log.Logger
	Rand     object.Rand
	Clock    game.Clock
	Observer TickObserver
}

// Server owns one World. Only the Run goroutine touches it.
type Server struct {
	world    *game.World
	tickTime time.Duration
	snapshot atomic.Pointer[game.Snapshot]
	intentCh chan input.Intent
	resetCh  chan struct{}
	events   chan Event
	log      *log.Logger
	observer TickObserver
	intent   input.Intent
}

// New creates a server for a fresh game.
func New(t config.Tuning, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.SystemClock()
	}

	s := &Server{
		tickTime: t.TickTime(),
		intentCh: make(chan input.Intent, loopconfig.IntentBufferSize),
		resetCh:  make(chan struct{}, 1),
		events:   make(chan Event, loopconfig.EventBufferSize),
		log:      logger,
		observer: opts.Observer,
	}
	s.world = game.NewWorld(t,
		game.WithRand(rng),
		game.WithClock(clock),
		game.WithLogger(logger),
		game.WithDisplayObserver(s.onDisplay),
	)

	// Create initial snapshot
	s.snapshot.Store(s.world.Snapshot())
	return s
}

// Run ticks the world until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.Tick()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < s.tickTime {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.tickTime - elapsed):
			}
		}
	}
}

// Tick runs exactly one frame: apply pending input and reset, step,
// publish the snapshot. Run calls it; tests may call it directly.
func (s *Server) Tick() {
	start := time.Now()

	s.collectIntents()
	select {
	case <-s.resetCh:
		s.world.Reset()
	default:
	}

	s.world.Step(s.intent)
	snap := s.world.Snapshot()
	s.snapshot.Store(snap)

	if s.observer != nil {
		r := s.world.Registry
		s.observer.ObserveTick(TickStats{
			Elapsed:     time.Since(start),
			Phase:       s.world.State.Phase,
			Enemies:     r.Enemies.Len(),
			Projectiles: r.PlayerShots.Len() + r.EnemyShots.Len(),
			Explosions:  r.Explosions.Len(),
			Stats:       s.world.Stats,
		})
	}
}

// SetIntent queues the control state for the next tick. The latest
// intent wins when several arrive between ticks.
func (s *Server) SetIntent(in input.Intent) {
	select {
	case s.intentCh <- in:
	default:
		// Intent channel full, drop input
	}
}

// Reset requests a new game at the start of the next tick.
func (s *Server) Reset() {
	select {
	case s.resetCh <- struct{}{}:
	default:
		// Reset already pending
	}
}

// Snapshot returns the latest published frame.
func (s *Server) Snapshot() *game.Snapshot {
	return s.snapshot.Load()
}

// Events delivers HUD changes and lifecycle events.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Shutdown tells the client the server is going away.
func (s *Server) Shutdown() {
	s.push(Event{Type: EventServerShutdown, Display: s.Snapshot().Display})
}

func (s *Server) collectIntents() {
	for {
		select {
		case in := <-s.intentCh:
			s.intent = in
		default:
			return
		}
	}
}

func (s *Server) onDisplay(d game.Display) {
	s.push(Event{Type: EventDisplay, Display: d})
	if d.GameOverVisible {
		s.push(Event{Type: EventGameOver, Display: d})
	}
}

// push never blocks the tick: when the buffer is full the oldest event is
// dropped. Display events carry the full HUD, so the latest one suffices.
func (s *Server) push(ev Event) {
	for {
		select {
		case s.events <- ev:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}
