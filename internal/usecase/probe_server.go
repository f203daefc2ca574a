package usecase

import (
	"context"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type ProbeServer struct {
	prober ports.Prober
	store  ports.ProbeStore
}

type ProbeOption func(*ProbeServer)

// WithProbeStore saves every successful probe.
func WithProbeStore(s ports.ProbeStore) ProbeOption {
	return func(uc *ProbeServer) { uc.store = s }
}

func NewProbeServer(p ports.Prober, opts ...ProbeOption) *ProbeServer {
	uc := &ProbeServer{prober: p}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute probes url, or the URL Serve would print for cfg when url is empty.
// The returned id is empty unless a store is configured.
func (uc *ProbeServer) Execute(ctx context.Context, cfg domain.Config, url string) (domain.ProbeResult, string, error) {
	if url == "" {
		url = URLFor(cfg.Server.Addr)
	}
	res, err := uc.prober.Probe(ctx, url)
	if err != nil || uc.store == nil {
		return res, "", err
	}
	id, err := uc.store.SaveProbe(res)
	return res, id, err
}
