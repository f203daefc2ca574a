package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
)

// printBanner announces the URL. logPath is shown when logs go to a file instead of stderr.
func printBanner(w io.Writer, r domain.ServeResult, logPath string) {
	th := defaultTheme()
	fmt.Fprintln(w, th.Title.Render("Visit "+r.URL))
	fmt.Fprintln(w, th.Subtitle.Render(fmt.Sprintf("serving %s with %s (expires %s)",
		r.Root, r.Credential.CertPath, r.Credential.NotAfter.Format(time.DateOnly))))
	if logPath != "" {
		fmt.Fprintln(w, th.Subtitle.Render("logging to "+logPath))
	}
}

func printCheck(w io.Writer, c domain.CredentialCheck) {
	th := defaultTheme()
	info := c.Info

	hosts := strings.Join(info.Hosts(), ", ")
	if hosts == "" {
		hosts = "(none)"
	}

	rows := [][2]string{
		{"Key", info.KeyPath},
		{"Certificate", info.CertPath},
		{"Subject", info.Subject},
		{"Issuer", info.Issuer},
		{"Hosts", hosts},
		{"Not before", info.NotBefore.Format(time.RFC3339)},
		{"Not after", info.NotAfter.Format(time.RFC3339)},
		{"Self-signed", fmt.Sprint(info.SelfSigned)},
		{"Chain", fmt.Sprintf("%d certificate(s)", info.ChainLength)},
		{"SHA-256", info.Fingerprint},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(th.Label.Render(r[0]))
		b.WriteString(r[1])
	}
	fmt.Fprintln(w, th.Card.Render(b.String()))

	if c.OK() {
		fmt.Fprintln(w, th.OK.Render("✓ key and certificate match"))
		return
	}
	for _, p := range c.Problems {
		fmt.Fprintln(w, th.Fail.Render("✗ "+p))
	}
}

func printProbe(w io.Writer, r domain.ProbeResult) {
	th := defaultTheme()

	rows := [][2]string{
		{"URL", r.URL},
		{"Status", fmt.Sprintf("%d", r.StatusCode)},
		{"Protocol", r.Proto},
		{"TLS", r.TLSVersion},
		{"Cipher", r.CipherSuite},
		{"Peer", r.PeerSubject},
		{"Expires", r.PeerExpires},
		{"Latency", fmt.Sprintf("%dms", r.LatencyMS)},
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(th.Label.Render(row[0]))
		b.WriteString(row[1])
	}
	fmt.Fprintln(w, th.Card.Render(b.String()))
}
