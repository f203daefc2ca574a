package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/certgen"
	"github.com/stauffenbits/casg/internal/infra/fsworkspace"
	"github.com/stauffenbits/casg/internal/usecase"
)

func initCmd() *cobra.Command {
	var force, withCerts bool
	var hosts []string

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a casg.yaml template and ignore the private key in git",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			var spec *domain.CertificateSpec
			if withCerts {
				spec = &domain.CertificateSpec{
					KeyFile:  domain.DefaultKeyFile,
					CertFile: domain.DefaultCertFile,
					Hosts:    hosts,
					ValidFor: certgen.DefaultValidFor,
				}
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(), certgen.NewGenerator())
			written, err := uc.Execute(root, spec, force)
			if err != nil {
				return err
			}

			th := defaultTheme()
			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintln(out, th.Subtitle.Render("nothing to do in "+root))
				return nil
			}
			for _, p := range written {
				fmt.Fprintln(out, th.OK.Render("✓ wrote "+p))
			}
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	c.Flags().BoolVar(&withCerts, "certs", false, "Also generate a self-signed key/certificate pair")
	c.Flags().StringSliceVar(&hosts, "host", nil, "DNS name or IP for --certs (repeatable; default localhost,127.0.0.1)")
	return c
}
