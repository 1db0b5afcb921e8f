// Package web serves the game to browsers: a landing page with a canvas
// client, one websocket game session per connection, Prometheus metrics
// and PNG previews of running sessions.
package web

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/tomz197/starstrike/internal/logging"
)

//go:embed index.html
var indexPage string

// RouterConfig contains everything needed to construct the HTTP router.
type RouterConfig struct {
	// Sessions runs the per-socket games (required)
	Sessions *Sessions

	// Metrics is shared with Sessions (required)
	Metrics *Metrics

	Logger *log.Logger

	// CORSOrigins defaults to localhost only.
	CORSOrigins []string

	// MessageRate and MessageBurst limit inbound websocket messages per
	// socket. Zero values use 120/s with a burst of 60.
	MessageRate  float64
	MessageBurst int

	// SSHHost is shown on the landing page for terminal play.
	SSHHost string

	// DisableLogging disables the request logger middleware.
	DisableLogging bool
}

type handlers struct {
	sessions     *Sessions
	metrics      *Metrics
	log          *log.Logger
	upgrader     websocket.Upgrader
	messageRate  float64
	messageBurst int
	page         string
}

// NewRouter constructs the HTTP router with all middleware and routes.
// It starts no goroutines, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !cfg.DisableLogging {
		r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  logger.StandardLog(),
			NoColor: true,
		}))
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &handlers{
		sessions:     cfg.Sessions,
		metrics:      cfg.Metrics,
		log:          logger,
		messageRate:  cfg.MessageRate,
		messageBurst: cfg.MessageBurst,
		page:         strings.ReplaceAll(indexPage, "{{.SSHHost}}", cfg.SSHHost),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
		},
	}
	if h.messageRate <= 0 {
		h.messageRate = 120
	}
	if h.messageBurst <= 0 {
		h.messageBurst = 60
	}

	r.Get("/", h.handleIndex)
	r.Get("/ws", h.handleWebSocket)
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	r.Get("/sessions/{id}/preview.png", h.handlePreview)

	return r
}

func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(h.page))
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

func (h *handlers) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	width, _ := strconv.Atoi(r.URL.Query().Get("w"))
	height, _ := strconv.Atoi(r.URL.Query().Get("h"))
	width, height = previewSize(width, height)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := renderPreview(w, sess.Server().Snapshot(), width, height); err != nil {
		h.log.Error("preview failed", "session", sess.ID, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
