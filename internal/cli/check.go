package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/credentials"
	"github.com/stauffenbits/casg/internal/usecase"
)

func checkCmd(g *globalFlags) *cobra.Command {
	var key, cert, addr string

	c := &cobra.Command{
		Use:   "check",
		Short: "Validate the key/certificate pair (no listener)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			applyTLSFlags(cmd, &cfg, key, cert)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			res, err := usecase.NewCheckCredentials(credentials.NewLoader()).Execute(cfg)
			if err != nil {
				return err
			}

			printCheck(cmd.OutOrStdout(), res)
			if !res.OK() {
				return fmt.Errorf("credentials check failed (%d problem(s))", len(res.Problems))
			}
			return nil
		},
	}

	c.Flags().StringVar(&key, "key", domain.DefaultKeyFile, "PEM private key file")
	c.Flags().StringVar(&cert, "cert", domain.DefaultCertFile, "PEM certificate file")
	c.Flags().StringVarP(&addr, "addr", "a", domain.DefaultAddr, "Address whose host the certificate must cover")
	return c
}
