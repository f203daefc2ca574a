package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/infra/httpclient"
	"github.com/stauffenbits/casg/internal/infra/probestore"
	"github.com/stauffenbits/casg/internal/usecase"
)

func probeCmd(g *globalFlags) *cobra.Command {
	var ca, serverName, addr, saveDir string
	var insecure bool
	var timeout time.Duration

	c := &cobra.Command{
		Use:   "probe [url]",
		Short: "Connect to a running server and report the TLS handshake",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			hc := httpclient.DefaultConfig()
			hc.Timeout = timeout
			hc.ServerName = serverName
			hc.Insecure = insecure
			switch {
			case cmd.Flags().Changed("ca"):
				hc.CAFile = ca
			case fileExists(cfg.TLS.CertFile):
				hc.CAFile = cfg.TLS.CertFile
			}
			if insecure {
				hc.CAFile = ""
			}

			client, err := httpclient.New(hc)
			if err != nil {
				return err
			}

			var url string
			if len(args) == 1 {
				url = args[0]
			}

			exec := httpclient.NewExecutor(httpclient.WithClient(client), httpclient.WithTimeout(timeout))
			var opts []usecase.ProbeOption
			if cmd.Flags().Changed("save") {
				opts = append(opts, usecase.WithProbeStore(probestore.NewJSONStore(saveDir, probestore.WithIndex(true))))
			}

			res, id, err := usecase.NewProbeServer(exec, opts...).Execute(cmd.Context(), cfg, url)
			if err != nil {
				return err
			}

			printProbe(cmd.OutOrStdout(), res)
			if id != "" {
				fmt.Fprintln(cmd.OutOrStdout(), defaultTheme().Subtitle.Render("saved "+id))
			}
			return nil
		},
	}

	c.Flags().StringVar(&ca, "ca", "", "PEM bundle to trust (default: the configured certificate file, if present)")
	c.Flags().StringVar(&serverName, "server-name", "", "Override SNI and the verified host name")
	c.Flags().StringVarP(&addr, "addr", "a", "", "Probe https://<addr>/ instead of the configured address")
	c.Flags().BoolVar(&insecure, "insecure", false, "Skip certificate verification")
	c.Flags().StringVar(&saveDir, "save", probestore.DefaultDir, "Save the result as JSON under this directory")
	c.Flags().Lookup("save").NoOptDefVal = probestore.DefaultDir
	c.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	return c
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
