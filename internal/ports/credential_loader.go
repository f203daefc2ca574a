package ports

import (
	"crypto/tls"

	"github.com/stauffenbits/casg/internal/domain"
)

// CredentialLoader reads a PEM key/certificate pair (e.g., from the filesystem).
type CredentialLoader interface {
	Load(keyPath, certPath string) (tls.Certificate, domain.CredentialInfo, error)
}
