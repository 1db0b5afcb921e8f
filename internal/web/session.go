package web

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/loop/server"
)

var (
	errSessionNotFound = errors.New("session not found")
	errTooManySessions = errors.New("too many sessions")
)

// Session is one browser player with their own game server.
type Session struct {
	ID      string
	Created time.Time

	server   *server.Server
	observer *sessionObserver
	cancel   context.CancelFunc
	done     chan struct{}
}

// Server returns the game server driving this session.
func (s *Session) Server() *server.Server {
	return s.server
}

// Sessions tracks running web sessions by id.
type Sessions struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	tuning  config.Tuning
	metrics *Metrics
	log     *log.Logger
	limit   int
}

// NewSessions creates an empty session table. limit <= 0 means unlimited.
func NewSessions(t config.Tuning, m *Metrics, logger *log.Logger, limit int) *Sessions {
	return &Sessions{
		byID:    make(map[string]*Session),
		tuning:  t,
		metrics: m,
		log:     logger,
		limit:   limit,
	}
}

// Start creates a session and runs its game server until Stop is called
// or parent is cancelled.
func (s *Sessions) Start(parent context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.byID) >= s.limit {
		return nil, errTooManySessions
	}

	id := uuid.NewString()
	obs := s.metrics.newSessionObserver()
	sess := &Session{
		ID:       id,
		Created:  time.Now(),
		observer: obs,
		done:     make(chan struct{}),
		server: server.New(s.tuning, server.Options{
			Logger:   s.log.With("session", id),
			Observer: obs,
		}),
	}

	ctx, cancel := context.WithCancel(parent)
	sess.cancel = cancel
	go func() {
		defer close(sess.done)
		sess.server.Run(ctx)
	}()

	s.byID[id] = sess
	s.log.Info("session started", "session", id, "active", len(s.byID))
	return sess, nil
}

// Get looks up a running session.
func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil, errSessionNotFound
	}
	return sess, nil
}

// Stop ends a session and waits for its game server to return.
func (s *Sessions) Stop(id string) {
	s.mu.Lock()
	sess, ok := s.byID[id]
	delete(s.byID, id)
	active := len(s.byID)
	s.mu.Unlock()
	if !ok {
		return
	}

	sess.cancel()
	<-sess.done
	sess.observer.close()
	s.log.Info("session ended", "session", id,
		"score", sess.server.Snapshot().Display.Score,
		"duration", time.Since(sess.Created).Round(time.Second),
		"active", active)
}

// Len returns the number of running sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Shutdown tells every connected player that the server is going away.
// Each socket closes itself after delivering the notice.
func (s *Sessions) Shutdown() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.byID {
		sess.server.Shutdown()
	}
}
