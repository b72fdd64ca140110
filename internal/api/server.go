// Package api serves probes, JSON reads of the stored content and the live
// pulse feed.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/internal/session"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

// Checker is a dependency probed by the readiness endpoint
type Checker interface {
	Health(ctx context.Context) error
}

// Session is the part of the viewer session the API reads and mutates
type Session interface {
	State() session.State
	IsSignedIn() bool
	Location() *time.Location
	SignIn(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	SetTimeZone(ctx context.Context, name string) error
}

// Deps are the collaborators of the server. Hub and Checks are optional.
type Deps struct {
	Briefs  brief.Repository
	Pulses  pulse.Repository
	Session Session
	Hub     *Hub
	Checks  map[string]Checker
}

// Server provides probes and the content API
type Server struct {
	server    *http.Server
	deps      Deps
	ready     bool
	readyMu   sync.RWMutex
	startTime time.Time
	now       func() time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessStatus represents system readiness
type ReadinessStatus struct {
	Ready     bool              `json:"ready"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

const checkTimeout = 2 * time.Second

// NewServer creates API server listening on port
func NewServer(port int, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		deps:      deps,
		startTime: time.Now(),
		now:       time.Now,
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReadiness)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReadiness)

	mux.HandleFunc("GET /api/v1/briefs", s.handleListBriefs)
	mux.HandleFunc("GET /api/v1/briefs/today", s.handleTodayBrief)
	mux.HandleFunc("GET /api/v1/pulse", s.handleListPulse)
	mux.HandleFunc("GET /api/v1/pulse/latest", s.handleLatestPulse)
	if deps.Hub != nil {
		mux.Handle("GET /api/v1/pulse/stream", deps.Hub)
	}

	mux.HandleFunc("POST /api/v1/portfolio/analyze", s.handleAnalyzePortfolio)

	mux.HandleFunc("GET /api/v1/session", s.handleGetSession)
	mux.HandleFunc("POST /api/v1/session", s.handleSignIn)
	mux.HandleFunc("DELETE /api/v1/session", s.handleSignOut)
	mux.HandleFunc("PUT /api/v1/session/timezone", s.handleSetTimeZone)

	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	logger.Info("api server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping api server...")
	if s.deps.Hub != nil {
		s.deps.Hub.Close()
	}
	return s.server.Shutdown(ctx)
}

// SetReady marks the service as ready
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready

	if ready {
		logger.Info("✅ service marked as READY")
	} else {
		logger.Warn("⚠️ service marked as NOT READY")
	}
}

// runChecks probes every dependency and reports whether all are healthy
func (s *Server) runChecks(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	names := make([]string, 0, len(s.deps.Checks))
	for name := range s.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	allHealthy := true
	for _, name := range names {
		if err := s.deps.Checks[name].Health(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks[name] = "healthy"
		}
	}

	return checks, allHealthy
}

// handleHealth returns 200 while the process is alive, even if dependencies are down
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.Checks, _ = s.runChecks(r.Context())
	}

	writeJSON(w, http.StatusOK, status)
}

// handleReadiness returns 200 only after startup completed and dependencies are healthy
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.readyMu.RLock()
	ready := s.ready
	s.readyMu.RUnlock()

	checks, allHealthy := s.runChecks(r.Context())
	isReady := ready && allHealthy

	code := http.StatusOK
	if !isReady {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, ReadinessStatus{
		Ready:     isReady,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
