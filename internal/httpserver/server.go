package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"announcement-dashboard/internal/logging"
)

const (
	defaultAddr        = "127.0.0.1"
	defaultReadTimeout = 10 * time.Second
)

// Config describes how the HTTP server should be initialised.
type Config struct {
	Addr        string
	Port        string
	ReadTimeout time.Duration
	Logger      logging.Logger
	Handler     http.Handler
}

// Server wraps the configured http.Server alongside its listener for shutdown handling.
type Server struct {
	Config
	mu         sync.Mutex
	listener   net.Listener
	ready      chan struct{}
	httpServer *http.Server
}

// New builds a Server from the supplied configuration.
func New(config Config) (*Server, error) {
	if config.Logger == nil {
		config.Logger = logging.New()
	}
	if config.Addr == "" {
		config.Addr = defaultAddr
	}
	if config.Port == "" {
		return nil, errors.New("no valid port must be set")
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = defaultReadTimeout
	}

	srv := &Server{Config: config, ready: make(chan struct{})}
	handler := config.Handler
	if handler == nil {
		handler = http.HandlerFunc(srv.defaultHandler)
	}

	srv.httpServer = &http.Server{
		ReadHeaderTimeout: config.ReadTimeout,
		Handler:           handler,
		ErrorLog:          logging.AsStdLogger(config.Logger),
	}
	return srv, nil
}

// ListenAndServe starts the HTTP server with the configured address and port.
func (s *Server) ListenAndServe() error {
	addr := s.listenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)
	s.Logger.Printf("Listening on %s", ln.Addr())

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// ListenerAddr returns the bound address, or nil before ListenAndServe binds.
func (s *Server) ListenerAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) listenAddr() string {
	port := strings.TrimPrefix(s.Port, ":")
	if port == "" {
		return s.Addr
	}
	return net.JoinHostPort(s.Addr, port)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Close stops the underlying http.Server.
func (s *Server) Close() error {
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) defaultHandler(w http.ResponseWriter, r *http.Request) {
	s.Logger.Printf("no handler configured for %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
