package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
)

type Config struct {
	// Total timeout for the entire request (includes redirects, reading body, etc).
	// A context deadline can still override this.
	Timeout time.Duration

	// Transport / dial timeouts.
	DialTimeout    time.Duration
	TLSHandshake   time.Duration
	ResponseHeader time.Duration

	// CAFile adds a PEM bundle to the trusted roots (e.g. a self-signed certificate.pem).
	CAFile string
	// ServerName overrides SNI and the verified host name.
	ServerName string
	// Insecure skips certificate verification entirely.
	Insecure bool
}

func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		DialTimeout:    5 * time.Second,
		TLSHandshake:   5 * time.Second,
		ResponseHeader: 5 * time.Second,
	}
}

func New(cfg Config) (*http.Client, error) {
	tlsCfg := &tls.Config{
		ServerName:         cfg.ServerName,
		InsecureSkipVerify: cfg.Insecure,
	}

	if cfg.CAFile != "" {
		pem, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, &domain.OpError{Op: "httpclient.ca", Kind: domain.KindNotFound, Path: cfg.CAFile, Err: fmt.Errorf("%w: %w", domain.ErrNotFound, err)}
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, &domain.OpError{
				Op:   "httpclient.ca",
				Kind: domain.KindInvalidCredentials,
				Path: cfg.CAFile,
				Err:  errors.New("no certificates found in CA file"),
			}
		}
		tlsCfg.RootCAs = pool
	}

	dialer := &net.Dialer{Timeout: cfg.DialTimeout}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		TLSClientConfig:       tlsCfg,
		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
		DisableKeepAlives:     true,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}
