package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

// ResponseData captures the response details and duration.
type ResponseData struct {
	Status   int
	Proto    string
	TLS      *tls.ConnectionState
	Duration time.Duration
}

// Executor executes HTTP requests with timing.
type Executor struct {
	client  *http.Client
	timeout time.Duration
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the default timeout applied to requests.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

// NewExecutor builds an Executor with a default client and timeout.
func NewExecutor(opts ...ExecutorOption) *Executor {
	cfg := DefaultConfig()
	client, _ := New(cfg)
	e := &Executor{
		client:  client,
		timeout: cfg.Timeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Prober = (*Executor)(nil)

// Do executes the request and returns response data plus duration. The body is drained and discarded.
func (e *Executor) Do(ctx context.Context, req *http.Request) (ResponseData, error) {
	start := time.Now()
	ctxWithTimeout := ctx
	cancel := func() {}
	if e.timeout > 0 {
		ctxWithTimeout, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	resp, err := e.client.Do(req.WithContext(ctxWithTimeout))
	duration := time.Since(start)
	if err != nil {
		return ResponseData{Duration: duration}, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return ResponseData{
		Status:   resp.StatusCode,
		Proto:    resp.Proto,
		TLS:      resp.TLS,
		Duration: duration,
	}, nil
}

// Probe sends a HEAD request to url and reports the negotiated TLS parameters.
func (e *Executor) Probe(ctx context.Context, url string) (domain.ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return domain.ProbeResult{}, &domain.OpError{Op: "httpclient.probe", Kind: domain.KindInvalidConfig, Path: url, Err: err}
	}

	at := time.Now().UTC()
	data, err := e.Do(ctx, req)
	if err != nil {
		return domain.ProbeResult{URL: url, At: at, LatencyMS: data.Duration.Milliseconds()},
			&domain.OpError{Op: "httpclient.probe", Kind: domain.KindExecution, Path: url, Err: err}
	}

	res := domain.ProbeResult{
		URL:        url,
		At:         at,
		StatusCode: data.Status,
		Proto:      data.Proto,
		LatencyMS:  data.Duration.Milliseconds(),
	}
	if cs := data.TLS; cs != nil {
		res.TLSVersion = tls.VersionName(cs.Version)
		res.CipherSuite = tls.CipherSuiteName(cs.CipherSuite)
		if len(cs.PeerCertificates) > 0 {
			leaf := cs.PeerCertificates[0]
			res.PeerSubject = leaf.Subject.String()
			res.PeerExpires = leaf.NotAfter.UTC().Format(time.RFC3339)
		}
	}
	return res, nil
}
