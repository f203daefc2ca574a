package domain

import (
	"testing"
	"time"
)

func TestCredentialInfoValidAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	info := CredentialInfo{NotBefore: start, NotAfter: start.Add(24 * time.Hour)}

	cases := []struct {
		at   time.Time
		want bool
	}{
		{start.Add(-time.Second), false},
		{start, true},
		{start.Add(12 * time.Hour), true},
		{start.Add(24 * time.Hour), true},
		{start.Add(25 * time.Hour), false},
	}
	for _, c := range cases {
		if got := info.ValidAt(c.at); got != c.want {
			t.Errorf("ValidAt(%s) = %v, want %v", c.at, got, c.want)
		}
	}

	if (CredentialInfo{}).ValidAt(start) {
		t.Errorf("expected zero CredentialInfo to be invalid")
	}
}

func TestCredentialInfoHosts(t *testing.T) {
	info := CredentialInfo{
		DNSNames:    []string{"localhost"},
		IPAddresses: []string{"127.0.0.1"},
	}
	got := info.Hosts()
	if len(got) != 2 || got[0] != "localhost" || got[1] != "127.0.0.1" {
		t.Fatalf("unexpected hosts: %v", got)
	}
}
