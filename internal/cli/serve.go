package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stauffenbits/casg/internal/domain"
	"github.com/stauffenbits/casg/internal/infra/credentials"
	"github.com/stauffenbits/casg/internal/infra/fileserver"
	"github.com/stauffenbits/casg/internal/infra/logger"
	"github.com/stauffenbits/casg/internal/infra/tlsserver"
	"github.com/stauffenbits/casg/internal/usecase"
)

func serveCmd(g *globalFlags) *cobra.Command {
	sf := &serveFlags{}

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document root over HTTPS until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, sf)
		},
	}

	bindServeFlags(c, sf)
	return c
}

func runServe(cmd *cobra.Command, g *globalFlags, sf *serveFlags) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	cfg, err = applyServeFlags(cmd, cfg, sf, g.configPath)
	if err != nil {
		return err
	}

	cleanup, err := logger.Setup(logger.Config{
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Debug:  cfg.Log.Debug,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = cleanup() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, cmd.OutOrStdout())
}

func serve(ctx context.Context, cfg domain.Config, out io.Writer) error {
	uc := usecase.NewServe(
		credentials.NewLoader(),
		fileserver.Build,
		tlsserver.NewServer,
		usecase.WithLogger(logger.L()),
		usecase.WithOnReady(func(r domain.ServeResult) {
			printBanner(out, r, logger.Path())
		}),
	)
	return uc.Execute(ctx, cfg)
}
