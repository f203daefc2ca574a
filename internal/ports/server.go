package ports

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/stauffenbits/casg/internal/domain"
)

// Server is a bound TLS listener serving a handler until its context ends.
type Server interface {
	Listen() error
	Addr() string
	Serve(ctx context.Context) error
}

// ServerFactory builds a Server for a configuration, certificate and handler.
type ServerFactory func(cfg domain.ServerConfig, cert tls.Certificate, h http.Handler, log *slog.Logger) Server

// HandlerFactory builds the document-root handler.
type HandlerFactory func(cfg domain.Config, log *slog.Logger) (http.Handler, error)
