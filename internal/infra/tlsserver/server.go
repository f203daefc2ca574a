package tlsserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

// Server owns one TCP listener and terminates TLS in front of an http.Handler.
type Server struct {
	cfg    domain.ServerConfig
	tlsCfg *tls.Config
	srv    *http.Server
	log    *slog.Logger

	mu sync.Mutex
	ln net.Listener
}

func New(cfg domain.ServerConfig, cert tls.Certificate, h http.Handler, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	s := &Server{
		cfg: cfg,
		log: log,
		tlsCfg: &tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{"http/1.1"},
		},
	}

	s.srv = &http.Server{
		Handler: h,
		// Handshake failures and malformed requests land here; the accept loop keeps running.
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		TLSNextProto: map[string]func(*http.Server, *tls.Conn, http.Handler){},
		ConnState: func(c net.Conn, st http.ConnState) {
			log.Debug("conn.state", "remote", c.RemoteAddr().String(), "state", st.String())
		},
	}
	return s
}

// NewServer adapts New to ports.ServerFactory.
func NewServer(cfg domain.ServerConfig, cert tls.Certificate, h http.Handler, log *slog.Logger) ports.Server {
	return New(cfg, cert, h, log)
}

var _ ports.Server = (*Server)(nil)

// Listen binds the TCP listener. Calling it twice is a no-op.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return &domain.OpError{
			Op:   "tlsserver.listen",
			Kind: domain.KindBind,
			Path: s.cfg.Addr,
			Err:  fmt.Errorf("%w: %w", domain.ErrBind, err),
		}
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.Addr
}

// Serve accepts connections until ctx is done, then shuts down within
// ShutdownTimeout and closes whatever is left. A clean stop returns nil.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := tls.NewListener(s.ln, s.tlsCfg)
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	s.log.Info("server.listening", "addr", s.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return &domain.OpError{Op: "tlsserver.serve", Kind: domain.KindExecution, Path: s.Addr(), Err: err}

	case <-ctx.Done():
	}

	s.log.Info("server.stopping", "addr", s.Addr(), "timeout", s.cfg.ShutdownTimeout)
	start := time.Now()

	if err := s.shutdown(); err != nil {
		s.log.Warn("server.shutdown_forced", "err", err)
		_ = s.srv.Close()
	}
	<-errCh

	s.log.Info("server.stopped", "addr", s.Addr(), "took", time.Since(start))
	return nil
}

func (s *Server) shutdown() error {
	if s.cfg.ShutdownTimeout <= 0 {
		return s.srv.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
