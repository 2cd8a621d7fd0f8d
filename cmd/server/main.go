package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/foodgram-go/internal/container"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.CachePackage(injector)
	container.RepositoryPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)
}

// newServer builds the API and returns the HTTP server serving it.
func newServer(injector *do.Injector, options *container.Options) (*http.Server, error) {
	// Building the API registers every route on the router.
	if _, err := do.Invoke[huma.API](injector); err != nil {
		return nil, fmt.Errorf("build api: %w", err)
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", options.Port),
		Handler:           do.MustInvoke[*chi.Mux](injector),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}, nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := do.New()
		registerPackages(injector, options)

		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			var err error

			server, err = newServer(injector, options)
			if err != nil {
				logger.Fatal("server setup failed", zap.Error(err))
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("storage", options.Storage),
				zap.String("cache", options.Cache),
				zap.Bool("events", options.Events),
				zap.String("base_url", options.PublicBaseURL()),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			_ = logger.Sync()
		})
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Route registration needs no live backends.
			offline := do.New()
			registerPackages(offline, &container.Options{
				Storage:      container.StorageMemory,
				Cache:        container.CacheMemory,
				LogFormat:    "console",
				LinkAttempts: 1,
				SaltLength:   8,
			})

			api, err := do.Invoke[huma.API](offline)
			if err != nil {
				return err
			}

			doc, err := api.OpenAPI().YAML()
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(doc)

			return err
		},
	})

	cli.Run()
}
