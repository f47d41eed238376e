package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/container"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting invoice dashboard",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port))

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.Start(ctx); err != nil {
		c.Close()
		return fmt.Errorf("starting container: %w", err)
	}

	serveErr := c.Server().Start(ctx)

	if err := c.Close(); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}

	logger.Info("Server exited successfully")
	return nil
}

// startContainer builds and starts a container for one-shot commands.
func startContainer(ctx context.Context, configPath string) (*container.Container, *zap.Logger, error) {
	cfg, logger, err := bootstrap(configPath)
	if err != nil {
		return nil, nil, err
	}

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("starting container: %w", err)
	}
	return c, logger, nil
}
