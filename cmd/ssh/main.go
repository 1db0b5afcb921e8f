package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	wishlogging "github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/draw"
	"github.com/tomz197/starstrike/internal/logging"
	"github.com/tomz197/starstrike/internal/loop/client"
	loopconfig "github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// games tracks the running per-session servers so they can be told about
// a shutdown.
type games struct {
	mu   sync.Mutex
	byID map[string]*server.Server
	wg   sync.WaitGroup
}

func (g *games) add(id string, s *server.Server) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.byID[id] = s
	g.wg.Add(1)
}

func (g *games) remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.byID[id]; ok {
		delete(g.byID, id)
		g.wg.Done()
	}
}

// shutdown notifies every session and waits until they have all ended
// or the timeout passes.
func (g *games) shutdown(timeout time.Duration) {
	g.mu.Lock()
	for _, s := range g.byID {
		s.Shutdown()
	}
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func main() {
	config.LoadDotEnv()
	logger := logging.FromEnv("ssh")

	tuning, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir)

	running := &games{byID: make(map[string]*server.Server)}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(tuning, running, logger),
			activeterm.Middleware(),
			wishlogging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Show the shutdown screen to every player, then wait for them to leave
	running.shutdown(time.Duration(loopconfig.ShutdownDisplaySeconds+2) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware gives every SSH session its own game.
func gameMiddleware(tuning config.Tuning, running *games, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			id := uuid.NewString()
			sessLog := logger.With("session", id, "user", sess.User())
			sessLog.Info("new game session", "terminal", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

			// Listen for window size changes in a goroutine
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			ctx, cancel := context.WithCancel(sess.Context())
			gs := server.New(tuning, server.Options{Logger: sessLog})
			running.add(id, gs)
			serverDone := make(chan struct{})
			go func() {
				defer close(serverDone)
				gs.Run(ctx)
			}()

			reader := bufio.NewReader(sess)
			c := client.NewClient(gs, reader, sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Logger:       sessLog,
			})
			if err := c.Run(); err != nil {
				sessLog.Error("game error", "err", err)
			}

			cancel()
			<-serverDone
			running.remove(id)
			sessLog.Info("session ended", "score", gs.Snapshot().Display.Score)
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
