package usecase

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type fakeCredentialLoader struct {
	info domain.CredentialInfo
	err  error

	gotKey, gotCert string
}

func (f *fakeCredentialLoader) Load(keyPath, certPath string) (tls.Certificate, domain.CredentialInfo, error) {
	f.gotKey, f.gotCert = keyPath, certPath
	if f.err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, f.err
	}
	return tls.Certificate{}, f.info, nil
}

type fakeServer struct {
	addr      string
	listenErr error

	listened bool
	served   bool
}

func (s *fakeServer) Listen() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	s.listened = true
	return nil
}

func (s *fakeServer) Addr() string { return s.addr }

func (s *fakeServer) Serve(ctx context.Context) error {
	s.served = true
	<-ctx.Done()
	return nil
}

func serverFactory(s *fakeServer) ports.ServerFactory {
	return func(domain.ServerConfig, tls.Certificate, http.Handler, *slog.Logger) ports.Server {
		return s
	}
}

func handlerFactory(err error) ports.HandlerFactory {
	return func(domain.Config, *slog.Logger) (http.Handler, error) {
		if err != nil {
			return nil, err
		}
		return http.NotFoundHandler(), nil
	}
}

type fakeGenerator struct {
	spec  domain.CertificateSpec
	force bool
}

func (g *fakeGenerator) Generate(spec domain.CertificateSpec, force bool) ([]string, error) {
	g.spec, g.force = spec, force
	return []string{spec.KeyFile, spec.CertFile}, nil
}

var (
	_ ports.CredentialLoader    = (*fakeCredentialLoader)(nil)
	_ ports.Server              = (*fakeServer)(nil)
	_ ports.CredentialGenerator = (*fakeGenerator)(nil)
)
