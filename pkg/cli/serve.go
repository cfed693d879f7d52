package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/cli/config"
	controller "github.com/roshan-abady/churnscope/pkg/controller/http"
	"github.com/roshan-abady/churnscope/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		warehouseCfg config.Warehouse
		firestoreCfg config.Firestore
		slackCfg     config.Slack
		presetsCfg   config.Presets
		frameDelay   time.Duration
	)

	flags := joinFlags(
		serverCfg.Flags(),
		warehouseCfg.Flags(),
		firestoreCfg.Flags(),
		slackCfg.Flags(),
		presetsCfg.Flags(),
		[]cli.Flag{
			&cli.DurationFlag{
				Name:        "frame-delay",
				Usage:       "Pause between animation frames on the analysis stream",
				Category:    "Dashboard",
				Value:       usecase.DefaultFrameDelay,
				Sources:     cli.EnvVars("CHURNSCOPE_FRAME_DELAY"),
				Destination: &frameDelay,
			},
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting churnscope server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("warehouse", warehouseCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("slack", slackCfg),
			)

			src, err := warehouseCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer src.Close()

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			presets, err := presetsCfg.Load()
			if err != nil {
				return err
			}

			catalogUC := usecase.NewCatalog(src)

			opts := []usecase.Option{usecase.WithFrameDelay(frameDelay)}
			if notifier := slackCfg.ConfigureOptional(ctx); notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier))
			}
			analysisUC := usecase.NewAnalysis(src, repo, opts...)

			server, err := controller.NewServer(ctx, serverCfg.Addr, catalogUC, analysisUC, presets)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
