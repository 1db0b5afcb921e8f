package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomz197/starstrike/internal/game"
	"github.com/tomz197/starstrike/internal/input"
	"github.com/tomz197/starstrike/internal/loop/server"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	frameInterval  = time.Second / 30
)

var errServerShutdown = errors.New("server shutting down")

// clientMessage is sent by the browser.
type clientMessage struct {
	Type  string `json:"type"` // "intent" or "reset"
	Left  bool   `json:"left"`
	Right bool   `json:"right"`
	Up    bool   `json:"up"`
	Down  bool   `json:"down"`
	Shoot bool   `json:"shoot"`
}

func (m clientMessage) intent() input.Intent {
	return input.Intent{Left: m.Left, Right: m.Right, Up: m.Up, Down: m.Down, Shoot: m.Shoot}
}

type sessionMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type frameMessage struct {
	Type string `json:"type"`
	*game.Snapshot
}

type displayMessage struct {
	Type string `json:"type"`
	game.Display
}

func displayType(t server.EventType) string {
	switch t {
	case server.EventGameOver:
		return "game_over"
	case server.EventServerShutdown:
		return "shutdown"
	default:
		return "display"
	}
}

// handleWebSocket plays one game over one socket. The session lives
// exactly as long as the connection.
func (h *handlers) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Start(r.Context())
	if err != nil {
		h.metrics.rejected.WithLabelValues("session_limit").Inc()
		http.Error(w, "Too many sessions", http.StatusServiceUnavailable)
		return
	}
	defer h.sessions.Stop(sess.ID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		return
	}
	defer conn.Close()

	logger := h.log.With("session", sess.ID)
	logger.Debug("websocket connected", "remote", r.RemoteAddr)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return h.readPump(conn, sess)
	})
	g.Go(func() error {
		return h.writePump(ctx, conn, sess)
	})
	g.Go(func() error {
		// Unblocks readPump once the writer is done
		<-ctx.Done()
		conn.Close()
		return nil
	})

	err = g.Wait()
	switch {
	case errors.Is(err, errServerShutdown):
		logger.Debug("websocket closed for shutdown")
	case websocket.IsCloseError(errors.Unwrap(err), websocket.CloseNormalClosure, websocket.CloseGoingAway):
		logger.Debug("websocket closed by client")
	default:
		logger.Debug("websocket closed", "err", err)
	}
}

// readPump applies browser messages to the session. It always returns a
// non-nil error so the group cancels the writer.
func (h *handlers) readPump(conn *websocket.Conn, sess *Session) error {
	limiter := rate.NewLimiter(rate.Limit(h.messageRate), h.messageBurst)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		h.metrics.wsMessages.WithLabelValues("in").Inc()

		if !limiter.Allow() {
			h.metrics.rejected.WithLabelValues("rate_limit").Inc()
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.metrics.rejected.WithLabelValues("bad_message").Inc()
			continue
		}
		switch msg.Type {
		case "intent":
			sess.server.SetIntent(msg.intent())
		case "reset":
			sess.server.Reset()
		default:
			h.metrics.rejected.WithLabelValues("bad_message").Inc()
		}
	}
}

// writePump is the only writer of data frames on the socket.
func (h *handlers) writePump(ctx context.Context, conn *websocket.Conn, sess *Session) error {
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	if err := h.writeJSON(conn, sessionMessage{Type: "session", ID: sess.ID}); err != nil {
		return err
	}

	var lastFrame uint64
	sent := false
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return ctx.Err()

		case ev := <-sess.server.Events():
			if err := h.writeJSON(conn, displayMessage{Type: displayType(ev.Type), Display: ev.Display}); err != nil {
				return err
			}
			if ev.Type == server.EventServerShutdown {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return errServerShutdown
			}

		case <-frames.C:
			snap := sess.server.Snapshot()
			if sent && snap.Frame == lastFrame {
				continue
			}
			if err := h.writeJSON(conn, frameMessage{Type: "frame", Snapshot: withoutStars(snap)}); err != nil {
				return err
			}
			lastFrame, sent = snap.Frame, true

		case <-pings.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func (h *handlers) writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	h.metrics.wsMessages.WithLabelValues("out").Inc()
	return nil
}

// withoutStars drops the starfield, which browsers generate locally.
// Snapshots are immutable, so a shallow copy is enough.
func withoutStars(s *game.Snapshot) *game.Snapshot {
	c := *s
	c.Stars = nil
	return &c
}
