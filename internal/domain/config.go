package domain

import "time"

// Config is the full server configuration. DefaultConfig reproduces the
// zero-configuration behavior: localhost:443, privkey.pem/certificate.pem, cwd as root.
type Config struct {
	Server ServerConfig
	TLS    TLSConfig
	Root   RootConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type TLSConfig struct {
	KeyFile  string
	CertFile string
}

type RootConfig struct {
	Dir string

	// Fallback names a file under Dir served instead of a 404 (single-page apps).
	// Empty disables it.
	Fallback string

	// HideKey answers 404 for the private key file when it lives under Dir.
	HideKey bool
}

type LogConfig struct {
	Format string // text|json
	File   string
	Access bool
	Debug  bool
}

const (
	DefaultAddr       = "localhost:443"
	DefaultKeyFile    = "privkey.pem"
	DefaultCertFile   = "certificate.pem"
	DefaultConfigFile = "casg.yaml"
)

// DefaultConfig provides sane defaults if casg.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: 5 * time.Second,
		},
		TLS: TLSConfig{
			KeyFile:  DefaultKeyFile,
			CertFile: DefaultCertFile,
		},
		Root: RootConfig{
			Dir:     ".",
			HideKey: true,
		},
		Log: LogConfig{
			Format: "text",
			Access: true,
		},
	}
}
