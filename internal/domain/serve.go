package domain

import "time"

// ServeResult describes a server that has bound its listener and is about to accept.
type ServeResult struct {
	Addr       string
	URL        string
	Root       string
	Credential CredentialInfo
}

// ProbeResult is what a client observed when requesting a URL from a running server.
type ProbeResult struct {
	URL         string    `json:"url"`
	At          time.Time `json:"at"`
	StatusCode  int       `json:"status_code"`
	Proto       string    `json:"proto"`
	TLSVersion  string    `json:"tls_version"`
	CipherSuite string    `json:"cipher_suite"`
	PeerSubject string    `json:"peer_subject"`
	PeerExpires string    `json:"peer_expires"`
	LatencyMS   int64     `json:"latency_ms"`
}
