package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bpowers/editor-bridge/internal/logging"
)

// Config is constructed once at process start and passed in explicitly; the
// server never consults ambient globals for its port or identity.
type Config struct {
	// Range is scanned for a free port when FixedPort is zero.
	Range PortRange
	// FixedPort skips allocation and binds exactly this port.
	FixedPort int
	// Info identifies the server to initialize callers.
	Info Implementation
}

const shutdownTimeout = 5 * time.Second

// Server owns the one process-lifetime mutable resource: the bound socket.
// It holds no business logic; every request is handed to the Handler.
type Server struct {
	handler *Handler
	cfg     Config
	httpSrv *http.Server
	ln      net.Listener
	port    int
}

// NewServer wires a registry and config into an unbound server.
func NewServer(registry *Registry, cfg Config) (*Server, error) {
	handler, err := NewHandler(registry, cfg.Info)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}
	return &Server{
		handler: handler,
		cfg:     cfg,
	}, nil
}

// Listen allocates a port (unless overridden) and binds it. A bind failure
// after allocation means another process won the race; that is fatal and
// reported as-is. Retrying on a different port would make the advertised
// port unpredictable for clients doing port-range discovery.
func (s *Server) Listen(ctx context.Context) error {
	if s.ln != nil {
		return fmt.Errorf("listen: already listening on port %d", s.port)
	}

	port := s.cfg.FixedPort
	if port == 0 {
		var err error
		port, err = FindAvailablePort(ctx, s.cfg.Range)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	ln, err := net.Listen("tcp", loopbackAddr(port))
	if err != nil {
		return fmt.Errorf("listen: binding port %d: %w", port, err)
	}

	s.ln = ln
	s.port = port
	s.httpSrv = &http.Server{Handler: s.handler}
	logging.Logger().Info("listening", "port", port, "server", s.cfg.Info.Name)
	return nil
}

// Port returns the bound port. Valid only after Listen succeeds.
func (s *Server) Port() int {
	return s.port
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully and releases the socket.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return fmt.Errorf("serve: not listening, call Listen first")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpSrv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("serve: shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
