package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/starstrike/internal/config"
	"github.com/tomz197/starstrike/internal/logging"
	loopconfig "github.com/tomz197/starstrike/internal/loop/config"
	"github.com/tomz197/starstrike/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

func main() {
	config.LoadDotEnv()
	logger := logging.FromEnv("web")

	tuning, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	maxSessions := config.GetEnvInt("WEB_MAX_SESSIONS", 200)

	metrics := web.NewMetrics()
	sessions := web.NewSessions(tuning, metrics, logger, maxSessions)
	router := web.NewRouter(web.RouterConfig{
		Sessions:       sessions,
		Metrics:        metrics,
		Logger:         logger,
		SSHHost:        sshHost,
		MessageRate:    config.GetEnvFloat("WEB_MESSAGE_RATE", 0),
		MessageBurst:   config.GetEnvInt("WEB_MESSAGE_BURST", 0),
		DisableLogging: !config.GetEnvBool("WEB_ACCESS_LOG", true),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", "sessions", sessions.Len())

		// Tell players first; their sockets close after the notice
		sessions.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(loopconfig.ShutdownDisplaySeconds)*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
