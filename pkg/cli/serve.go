package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/cli/config"
	githubctrl "github.com/tagship/tagship/pkg/controller/github"
	controller "github.com/tagship/tagship/pkg/controller/http"
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/tagship/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		buildCfg  config.Build
		pubCfg    config.Publish
		slackCfg  config.Slack
		sentryCfg config.Sentry
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, buildCfg.Flags()...)
	flags = append(flags, pubCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start webhook server that publishes on pushed release tags",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := buildCfg.Load(); err != nil {
				return err
			}

			if sentryCfg.DSN != "" {
				err := sentry.Init(sentry.ClientOptions{
					Dsn:         sentryCfg.DSN,
					Environment: sentryCfg.Environment,
					Release:     types.AppName + "@" + types.Version,
				})
				if err != nil {
					return goerr.Wrap(err, "failed to initialize Sentry")
				}
				defer sentry.Flush(2 * time.Second)
			}

			logger.Info("Starting tagship server",
				slog.String("addr", serverCfg.Addr),
			)

			// Create use cases and event processor
			webhookUC := usecase.NewWebhook()
			publishUC := newPublishUseCase(&githubCfg, &buildCfg, &pubCfg, &slackCfg)
			processor := githubctrl.NewEventProcessor(publishUC, pubCfg.MarkLatest)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				processor,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
