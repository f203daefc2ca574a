package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/config"
)

type globalFlags struct {
	configPath string
	debug      bool
	logFormat  string
	logFile    string
}

type serveFlags struct {
	addr            string
	key             string
	cert            string
	root            string
	fallback        string
	noAccessLog     bool
	shutdownTimeout time.Duration
}

// loadConfig resolves defaults < casg.yaml < flags. A missing casg.yaml is only
// an error when --config names it explicitly.
func loadConfig(cmd *cobra.Command, g *globalFlags) (domain.Config, error) {
	path := strings.TrimSpace(g.configPath)
	explicit := path != ""

	cfg, err := config.NewLoader().LoadConfig(path)
	if err != nil {
		if explicit || !domain.IsKind(err, domain.KindNotFound) {
			return cfg, err
		}
		cfg = domain.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug = g.debug
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(g.logFormat))
	}
	if flags.Changed("log-file") {
		cfg.Log.File = strings.TrimSpace(g.logFile)
	}
	return cfg, nil
}

func applyServeFlags(cmd *cobra.Command, cfg domain.Config, f *serveFlags, configPath string) (domain.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = strings.TrimSpace(f.addr)
	}
	if flags.Changed("shutdown-timeout") {
		cfg.Server.ShutdownTimeout = f.shutdownTimeout
	}
	applyTLSFlags(cmd, &cfg, f.key, f.cert)
	if flags.Changed("root") {
		cfg.Root.Dir = strings.TrimSpace(f.root)
	}
	if flags.Changed("fallback") {
		cfg.Root.Fallback = strings.TrimSpace(f.fallback)
	}
	if flags.Changed("no-access-log") {
		cfg.Log.Access = !f.noAccessLog
	}

	if configPath == "" {
		configPath = "flags"
	}
	return cfg, config.Validate(configPath, cfg)
}

func applyTLSFlags(cmd *cobra.Command, cfg *domain.Config, key, cert string) {
	if cmd.Flags().Changed("key") {
		cfg.TLS.KeyFile = strings.TrimSpace(key)
	}
	if cmd.Flags().Changed("cert") {
		cfg.TLS.CertFile = strings.TrimSpace(cert)
	}
}

func bindServeFlags(cmd *cobra.Command, f *serveFlags) {
	cmd.Flags().StringVarP(&f.addr, "addr", "a", domain.DefaultAddr, "Listen address host:port")
	cmd.Flags().StringVar(&f.key, "key", domain.DefaultKeyFile, "PEM private key file")
	cmd.Flags().StringVar(&f.cert, "cert", domain.DefaultCertFile, "PEM certificate file")
	cmd.Flags().StringVarP(&f.root, "root", "r", ".", "Document root")
	cmd.Flags().StringVar(&f.fallback, "fallback", "", "File under the root served instead of 404 (e.g. index.html)")
	cmd.Flags().BoolVar(&f.noAccessLog, "no-access-log", false, "Disable per-request logging")
	cmd.Flags().DurationVar(&f.shutdownTimeout, "shutdown-timeout", 5*time.Second, "Grace period for in-flight requests on SIGINT/SIGTERM")
}
