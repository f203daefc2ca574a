package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		printError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	sf := &serveFlags{}

	cmd := &cobra.Command{
		Use:           "casg",
		Short:         "casg: serve the current directory over HTTPS",
		Long:          "casg terminates TLS with privkey.pem/certificate.pem and serves the working directory on localhost:443.\nRunning it without a subcommand is the same as `casg serve`.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, sf)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "f", "", "Config file (default: ./casg.yaml if present)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format: text|json")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Append logs to this file instead of stderr")
	bindServeFlags(cmd, sf)

	cmd.AddCommand(serveCmd(g))
	cmd.AddCommand(checkCmd(g))
	cmd.AddCommand(certsCmd(g))
	cmd.AddCommand(probeCmd(g))
	cmd.AddCommand(initCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func printError(w io.Writer, err error) {
	th := defaultTheme()
	msg := userMessage(err)
	if msg == "" {
		fmt.Fprintln(w, th.Fail.Render("✗ "+err.Error()))
		return
	}
	fmt.Fprintln(w, th.Fail.Render("✗ "+msg))
	fmt.Fprintln(w, th.Subtitle.Render("  "+err.Error()))
}
