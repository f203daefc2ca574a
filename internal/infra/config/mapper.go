package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/stauffenbits/casg/internal/domain"
)

// Apply overlays parsed values on cfg and validates the result.
func Apply(path string, cfg domain.Config, y yamlCasg) (domain.Config, error) {
	if v := strings.TrimSpace(y.Server.Addr); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(y.Server.ShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, invalidField(path, "server.shutdown_timeout", err.Error())
		}
		cfg.Server.ShutdownTimeout = d
	}

	if v := strings.TrimSpace(y.TLS.KeyFile); v != "" {
		cfg.TLS.KeyFile = v
	}
	if v := strings.TrimSpace(y.TLS.CertFile); v != "" {
		cfg.TLS.CertFile = v
	}

	if v := strings.TrimSpace(y.Root.Dir); v != "" {
		cfg.Root.Dir = v
	}
	cfg.Root.Fallback = strings.TrimSpace(y.Root.Fallback)
	if y.Root.HideKey != nil {
		cfg.Root.HideKey = *y.Root.HideKey
	}

	if v := strings.TrimSpace(y.Log.Format); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	cfg.Log.File = strings.TrimSpace(y.Log.File)
	if y.Log.Access != nil {
		cfg.Log.Access = *y.Log.Access
	}
	if y.Log.Debug != nil {
		cfg.Log.Debug = *y.Log.Debug
	}

	return cfg, Validate(path, cfg)
}

// Validate checks a fully-resolved configuration. Flags go through it too.
func Validate(path string, cfg domain.Config) error {
	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		return invalidField(path, "server.addr", err.Error())
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return invalidField(path, "server.shutdown_timeout", "must not be negative")
	}
	if strings.TrimSpace(cfg.TLS.KeyFile) == "" {
		return invalidField(path, "tls.key_file", "key file is required")
	}
	if strings.TrimSpace(cfg.TLS.CertFile) == "" {
		return invalidField(path, "tls.cert_file", "cert file is required")
	}
	if strings.ContainsAny(cfg.Root.Fallback, `/\`) {
		return invalidField(path, "root.fallback", "must be a file name under the root")
	}
	if cfg.Root.HideKey && cfg.Root.Fallback != "" && samePath(filepath.Join(cfg.Root.Dir, cfg.Root.Fallback), cfg.TLS.KeyFile) {
		return invalidField(path, "root.fallback", "must not be the private key file")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return invalidField(path, "log.format", fmt.Sprintf("unsupported format %q (expected text|json)", cfg.Log.Format))
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
