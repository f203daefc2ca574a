package usecase

import (
	"fmt"
	"net"
	"slices"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/ports"
)

type CheckCredentials struct {
	creds ports.CredentialLoader
	now   func() time.Time
}

func NewCheckCredentials(cl ports.CredentialLoader) *CheckCredentials {
	return &CheckCredentials{creds: cl, now: time.Now}
}

// Execute loads the configured pair without binding anything. Load failures are
// returned as errors; a loadable but questionable certificate yields Problems.
func (uc *CheckCredentials) Execute(cfg domain.Config) (domain.CredentialCheck, error) {
	_, info, err := uc.creds.Load(cfg.TLS.KeyFile, cfg.TLS.CertFile)
	if err != nil {
		return domain.CredentialCheck{}, err
	}

	out := domain.CredentialCheck{Info: info}

	now := uc.now()
	switch {
	case now.Before(info.NotBefore):
		out.Problems = append(out.Problems, fmt.Sprintf("certificate not valid before %s", info.NotBefore.Format(time.RFC3339)))
	case now.After(info.NotAfter):
		out.Problems = append(out.Problems, fmt.Sprintf("certificate expired at %s", info.NotAfter.Format(time.RFC3339)))
	}

	if host := listenHost(cfg.Server.Addr); host != "" && !covers(info, host) {
		out.Problems = append(out.Problems, fmt.Sprintf("certificate does not cover host %q", host))
	}

	return out, nil
}

func listenHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	switch host {
	case "0.0.0.0", "::":
		return ""
	}
	return host
}

func covers(info domain.CredentialInfo, host string) bool {
	if ip := net.ParseIP(host); ip != nil {
		for _, s := range info.IPAddresses {
			if other := net.ParseIP(s); other != nil && other.Equal(ip) {
				return true
			}
		}
		return false
	}
	if slices.Contains(info.DNSNames, host) {
		return true
	}
	for _, name := range info.DNSNames {
		if len(name) > 2 && name[:2] == "*." && matchWildcard(name[1:], host) {
			return true
		}
	}
	return false
}

// matchWildcard reports whether host is exactly one label in front of suffix (".example.com").
func matchWildcard(suffix, host string) bool {
	if len(host) <= len(suffix) || host[len(host)-len(suffix):] != suffix {
		return false
	}
	label := host[:len(host)-len(suffix)]
	for i := 0; i < len(label); i++ {
		if label[i] == '.' {
			return false
		}
	}
	return true
}
