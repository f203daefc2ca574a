package usecase

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type Serve struct {
	creds    ports.CredentialLoader
	handlers ports.HandlerFactory
	servers  ports.ServerFactory

	log     *slog.Logger
	onReady func(domain.ServeResult)
	now     func() time.Time
}

type ServeOption func(*Serve)

func WithLogger(l *slog.Logger) ServeOption {
	return func(uc *Serve) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithOnReady is called once the listener is bound, before the first accept.
func WithOnReady(fn func(domain.ServeResult)) ServeOption {
	return func(uc *Serve) { uc.onReady = fn }
}

func NewServe(cl ports.CredentialLoader, hf ports.HandlerFactory, sf ports.ServerFactory, opts ...ServeOption) *Serve {
	uc := &Serve{
		creds:    cl,
		handlers: hf,
		servers:  sf,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		onReady:  func(domain.ServeResult) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute loads credentials, binds the listener and serves until ctx is done.
// Credential and bind failures are returned before anything is served.
func (uc *Serve) Execute(ctx context.Context, cfg domain.Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cert, info, err := uc.creds.Load(cfg.TLS.KeyFile, cfg.TLS.CertFile)
	if err != nil {
		return err
	}
	if !info.ValidAt(uc.now()) {
		uc.log.Warn("credentials.outside_validity", "not_before", info.NotBefore, "not_after", info.NotAfter)
	}

	h, err := uc.handlers(cfg, uc.log)
	if err != nil {
		return err
	}

	srv := uc.servers(cfg.Server, cert, h, uc.log)
	if err := srv.Listen(); err != nil {
		return err
	}

	res := domain.ServeResult{
		Addr:       srv.Addr(),
		URL:        URLFor(srv.Addr()),
		Root:       cfg.Root.Dir,
		Credential: info,
	}
	uc.log.Info("server.ready", "url", res.URL, "root", res.Root, "cert_subject", info.Subject)
	uc.onReady(res)

	return srv.Serve(ctx)
}

// URLFor builds the https URL clients should visit for a listen address.
func URLFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "https://" + addr + "/"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "https://" + net.JoinHostPort(host, port) + "/"
}
