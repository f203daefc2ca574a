package cli

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/stauffenbits/casg/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage returns a one-line summary for known error kinds, or "".
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			switch {
			case strings.HasPrefix(oe.Op, "credentials"):
				return "Credential file not found: " + oe.Path
			case strings.HasPrefix(oe.Op, "config"):
				return "Config file not found: " + oe.Path
			case strings.HasPrefix(oe.Op, "fileserver"):
				return "Document root not found: " + oe.Path
			case strings.HasPrefix(oe.Op, "httpclient"):
				return "CA file not found: " + oe.Path
			}
			return "Not found"

		case domain.KindInvalidCredentials:
			if errors.Is(err, domain.ErrKeyMismatch) {
				return "Private key does not match certificate"
			}
			return "Invalid PEM file: " + filepath.Base(oe.Path)

		case domain.KindBind:
			return "Cannot listen on " + oe.Path + " (port in use, or binding below 1024 needs privileges)"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if field := extractField(err.Error()); field != "" {
				return "Invalid setting " + field + " in " + base
			}
			return "Invalid config"

		case domain.KindExecution:
			if strings.HasPrefix(oe.Op, "httpclient") {
				return "Cannot reach " + oe.Path
			}

		}
	}

	return ""
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

func extractField(s string) string {
	i := strings.Index(s, "field ")
	if i < 0 {
		return ""
	}
	rest := s[i+len("field "):]
	if j := strings.Index(rest, ":"); j > 0 {
		return rest[:j]
	}
	return ""
}
