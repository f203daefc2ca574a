package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/certgen"
	"github.com/stauffenbits/casg/internal/usecase"
)

func certsCmd(g *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "certs",
		Short: "Manage TLS credentials",
	}

	c.AddCommand(certsGenerateCmd(g))
	return c
}

func certsGenerateCmd(g *globalFlags) *cobra.Command {
	var key, cert string
	var hosts []string
	var validFor time.Duration
	var force bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a self-signed key/certificate pair for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			applyTLSFlags(cmd, &cfg, key, cert)

			spec := domain.CertificateSpec{
				Dir:      ".",
				KeyFile:  cfg.TLS.KeyFile,
				CertFile: cfg.TLS.CertFile,
				Hosts:    hosts,
				ValidFor: validFor,
			}

			written, err := usecase.NewGenerateCredentials(certgen.NewGenerator()).Execute(spec, force)
			if err != nil {
				return err
			}

			th := defaultTheme()
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), th.OK.Render("✓ wrote "+p))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", domain.DefaultKeyFile, "Private key output file")
	cmd.Flags().StringVar(&cert, "cert", domain.DefaultCertFile, "Certificate output file")
	cmd.Flags().StringSliceVar(&hosts, "host", nil, "DNS name or IP to include (repeatable; default localhost,127.0.0.1)")
	cmd.Flags().DurationVar(&validFor, "valid-for", certgen.DefaultValidFor, "Certificate lifetime")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}
