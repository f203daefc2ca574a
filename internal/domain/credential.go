package domain

import "time"

// CredentialInfo is a transport-agnostic summary of the loaded certificate.
type CredentialInfo struct {
	KeyPath  string
	CertPath string

	Subject     string
	Issuer      string
	DNSNames    []string
	IPAddresses []string

	NotBefore time.Time
	NotAfter  time.Time

	SelfSigned  bool
	Fingerprint string // SHA-256 of the leaf, hex encoded
	ChainLength int
}

// ValidAt reports whether t falls inside the certificate validity window.
func (c CredentialInfo) ValidAt(t time.Time) bool {
	if c.NotBefore.IsZero() && c.NotAfter.IsZero() {
		return false
	}
	return !t.Before(c.NotBefore) && !t.After(c.NotAfter)
}

// Hosts returns DNS names followed by IP addresses.
func (c CredentialInfo) Hosts() []string {
	out := make([]string, 0, len(c.DNSNames)+len(c.IPAddresses))
	out = append(out, c.DNSNames...)
	out = append(out, c.IPAddresses...)
	return out
}

// CertificateSpec describes a self-signed development pair to generate.
type CertificateSpec struct {
	Dir      string
	KeyFile  string
	CertFile string
	Hosts    []string
	ValidFor time.Duration
}

// CredentialCheck is the outcome of inspecting a credential pair without serving.
type CredentialCheck struct {
	Info     CredentialInfo
	Problems []string
}

func (c CredentialCheck) OK() bool {
	return len(c.Problems) == 0
}
