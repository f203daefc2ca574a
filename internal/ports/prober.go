package ports

import (
	"context"

	"github.com/stauffenbits/casg/internal/domain"
)

// Prober requests a URL over TLS and reports what the handshake negotiated.
type Prober interface {
	Probe(ctx context.Context, url string) (domain.ProbeResult, error)
}

// ProbeStore persists probe results and returns an identifier for the saved record.
type ProbeStore interface {
	SaveProbe(res domain.ProbeResult) (id string, err error)
}
