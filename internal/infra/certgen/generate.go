package certgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	utils_tls "github.com/flashbots/go-utils/tls"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

const DefaultValidFor = 365 * 24 * time.Hour

var DefaultHosts = []string{"localhost", "127.0.0.1"}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

var _ ports.CredentialGenerator = (*Generator)(nil)

// PEM returns a freshly generated self-signed certificate and its private key.
func PEM(hosts []string, validFor time.Duration) (certPEM, keyPEM []byte, err error) {
	if len(hosts) == 0 {
		hosts = DefaultHosts
	}
	if validFor <= 0 {
		validFor = DefaultValidFor
	}
	return utils_tls.GenerateTLS(validFor, hosts)
}

// Generate writes a key/certificate pair under spec.Dir. Without force, an existing
// key or certificate aborts the run before anything is written.
func (g *Generator) Generate(spec domain.CertificateSpec, force bool) ([]string, error) {
	dir := filepath.Clean(spec.Dir)
	if strings.TrimSpace(spec.Dir) == "" {
		dir = "."
	}

	keyPath := resolve(dir, spec.KeyFile, domain.DefaultKeyFile)
	certPath := resolve(dir, spec.CertFile, domain.DefaultCertFile)

	if !force {
		for _, p := range []string{keyPath, certPath} {
			if _, err := os.Stat(p); err == nil {
				return nil, &domain.OpError{
					Op:   "certgen.generate",
					Kind: domain.KindExecution,
					Path: p,
					Err:  fmt.Errorf("%w (use --force to overwrite)", domain.ErrExists),
				}
			}
		}
	}

	certPEM, keyPEM, err := PEM(spec.Hosts, spec.ValidFor)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "certgen.generate",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	if err := writeFile(keyPath, keyPEM, 0o600); err != nil {
		return nil, err
	}
	if err := writeFile(certPath, certPEM, 0o644); err != nil {
		return []string{keyPath}, err
	}

	return []string{keyPath, certPath}, nil
}

func resolve(dir, name, def string) string {
	if strings.TrimSpace(name) == "" {
		name = def
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}

// writeFile writes to path+".tmp" and renames it into place.
func writeFile(path string, b []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{Op: "certgen.mkdir", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return &domain.OpError{Op: "certgen.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	// WriteFile keeps the mode of an existing file; force it.
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "certgen.chmod", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "certgen.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return nil
}
