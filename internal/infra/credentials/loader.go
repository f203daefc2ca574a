package credentials

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.CredentialLoader = (*Loader)(nil)

// Load reads and pairs a PEM private key and certificate chain.
func (l *Loader) Load(keyPath, certPath string) (tls.Certificate, domain.CredentialInfo, error) {
	keyPEM, err := readFile(keyPath)
	if err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, err
	}
	certPEM, err := readFile(certPath)
	if err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, err
	}

	if err := expectBlock(certPEM, certPath, "CERTIFICATE"); err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, err
	}
	if err := expectBlock(keyPEM, keyPath, "PRIVATE KEY"); err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, err
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		if strings.Contains(err.Error(), "does not match") {
			err = fmt.Errorf("%w: %v", domain.ErrKeyMismatch, err)
		}
		return tls.Certificate{}, domain.CredentialInfo{}, &domain.OpError{
			Op:   "credentials.pair",
			Kind: domain.KindInvalidCredentials,
			Path: keyPath,
			Err:  err,
		}
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return tls.Certificate{}, domain.CredentialInfo{}, &domain.OpError{
			Op:   "credentials.parse",
			Kind: domain.KindInvalidCredentials,
			Path: certPath,
			Err:  err,
		}
	}
	cert.Leaf = leaf

	info := Describe(leaf)
	info.KeyPath = keyPath
	info.CertPath = certPath
	info.ChainLength = len(cert.Certificate)

	return cert, info, nil
}

// Describe summarizes a parsed leaf certificate.
func Describe(leaf *x509.Certificate) domain.CredentialInfo {
	sum := sha256.Sum256(leaf.Raw)

	info := domain.CredentialInfo{
		Subject:     leaf.Subject.String(),
		Issuer:      leaf.Issuer.String(),
		DNSNames:    append([]string(nil), leaf.DNSNames...),
		NotBefore:   leaf.NotBefore.UTC(),
		NotAfter:    leaf.NotAfter.UTC(),
		Fingerprint: hex.EncodeToString(sum[:]),
		ChainLength: 1,
	}
	for _, ip := range leaf.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}
	if bytes.Equal(leaf.RawIssuer, leaf.RawSubject) && leaf.CheckSignatureFrom(leaf) == nil {
		info.SelfSigned = true
	}
	return info
}

func readFile(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &domain.OpError{
			Op:   "credentials.read",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("path is empty"),
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "credentials.read",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  fmt.Errorf("%w: %w", domain.ErrNotFound, err),
		}
	}
	return b, nil
}

// expectBlock checks that data holds at least one PEM block whose type ends with suffix.
func expectBlock(data []byte, path, suffix string) error {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if strings.HasSuffix(block.Type, suffix) {
			return nil
		}
	}
	return &domain.OpError{
		Op:   "credentials.decode",
		Kind: domain.KindInvalidCredentials,
		Path: path,
		Err:  fmt.Errorf("no %s PEM block found", suffix),
	}
}
