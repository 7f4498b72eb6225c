package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/todo-mock/internal/audit"
	"github.com/nerrad567/todo-mock/internal/infrastructure/config"
	"github.com/nerrad567/todo-mock/internal/infrastructure/logging"
	"github.com/nerrad567/todo-mock/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-mock/internal/task"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Publisher mirrors task events onto a message broker. *mqtt.Client
// satisfies it.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
	Topics() mqtt.Topics
}

// StatsRecorder keeps a time series of collection activity. *influxdb.Client
// satisfies it.
type StatsRecorder interface {
	WriteTaskEvent(action, taskID string)
	WriteTaskStats(total, completed, pending int, ratio float64)
}

// Deps holds the dependencies required by the API server.
//
// MQTT, Stats and Audit are optional. Leave them nil (not a typed nil
// pointer) when the integration is disabled.
type Deps struct {
	Config  config.APIConfig
	Auth    config.AuthConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Store   *task.Store
	MQTT    Publisher
	Stats   StatsRecorder
	Audit   audit.Repository
	Version string
}

// Server is the HTTP API server for the mock backend.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	auth      config.AuthConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	store     *task.Store
	mqtt      Publisher
	stats     StatsRecorder
	auditRepo audit.Repository
	version   string

	auditCh   chan *audit.Entry
	auditDone chan struct{}

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	hub      *Hub
	cancel   context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("task store is required")
	}
	if deps.Auth.Key == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if deps.Auth.Header == "" {
		deps.Auth.Header = config.DefaultAPIKeyHeader
	}

	s := &Server{
		cfg:       deps.Config,
		auth:      deps.Auth,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		store:     deps.Store,
		mqtt:      deps.MQTT,
		stats:     deps.Stats,
		auditRepo: deps.Audit,
		version:   deps.Version,
	}

	if s.auditRepo != nil {
		s.auditCh = make(chan *audit.Entry, auditChanSize)
	}

	return s, nil
}

// Start binds the listener and serves HTTP in a background goroutine.
//
// It starts the WebSocket hub and the audit writer. Binding happens before
// Start returns, so a port already in use is reported here. The server can
// be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return fmt.Errorf("api server already started")
	}

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	s.hub.stats = func() task.Stats { return s.store.Stats(srvCtx) }
	go s.hub.Run(srvCtx)

	if s.auditCh != nil {
		s.auditDone = make(chan struct{})
		go func() {
			defer close(s.auditDone)
			s.drainAuditLog(srvCtx)
		}()
	}

	s.listener = ln
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func(srv *http.Server) {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", ln.Addr().String(),
				"cert", s.cfg.TLS.CertFile,
			)
			err = srv.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", ln.Addr().String())
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}(s.server)

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// flushes queued audit entries before returning.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	shutdownErr := s.server.Shutdown(ctx)

	// Cancel background goroutines (hub, audit writer) after in-flight
	// handlers have queued their last entries.
	if s.cancel != nil {
		s.cancel()
	}
	if s.auditDone != nil {
		<-s.auditDone
	}

	s.server = nil
	if shutdownErr != nil {
		return fmt.Errorf("shutting down API server: %w", shutdownErr)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
