package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/getmockd/crudcontract/pkg/logging"
	"github.com/getmockd/crudcontract/pkg/stub"
)

// ErrServerRunning is returned by Start when the server is already running.
var ErrServerRunning = errors.New("server is already running")

// Server exposes an Engine over HTTP on a local port, with the admin API
// under AdminPrefix.
type Server struct {
	engine *Engine
	log    *slog.Logger

	readTimeout  time.Duration
	writeTimeout time.Duration

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	done       chan struct{}
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithServerLogger sets the operational logger for the server.
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTimeouts sets the read and write timeouts of the HTTP server.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// NewServer creates a Server for e. A nil engine gets a fresh one.
func NewServer(e *Engine, opts ...ServerOption) *Server {
	if e == nil {
		e = New()
	}
	s := &Server{
		engine:       e,
		log:          logging.Nop(),
		readTimeout:  30 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Component(s.log, "server")
	return s
}

// Start listens on 127.0.0.1:port and serves in the background.
// Port 0 picks a free ephemeral port; Port reports the one chosen.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerRunning
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.engine.Router(),
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}
	s.done = make(chan struct{})
	s.running = true
	s.startTime = time.Now()

	srv, done := s.httpServer, s.done
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	s.log.Info("mock server started", "url", s.urlLocked())
	return nil
}

// Stop shuts the server down, waiting up to five seconds for in-flight
// requests. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	<-s.done

	s.running = false
	s.httpServer = nil
	s.listener = nil
	s.log.Info("mock server stopped")

	if err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime in seconds.
func (s *Server) Uptime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return int(time.Since(s.startTime).Seconds())
}

// Port returns the bound port, or 0 when the server is not running.
func (s *Server) Port() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return 0
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// URL returns the base URL of the running server, or "" when stopped.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.urlLocked()
}

func (s *Server) urlLocked() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Engine returns the engine behind the server.
func (s *Server) Engine() *Engine {
	return s.engine
}

// RegisterStub registers a stub on the engine.
func (s *Server) RegisterStub(st *stub.Stub) (*stub.Stub, error) {
	return s.engine.RegisterStub(st)
}

// ResetAll clears the engine's stubs, scenarios and journal.
func (s *Server) ResetAll() {
	s.engine.ResetAll()
}
