package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/keyframe/internal/presentation/tui"
	httpAdapter "github.com/aretw0/keyframe/pkg/adapters/http"
	"github.com/aretw0/keyframe/pkg/observability"
	"github.com/aretw0/keyframe/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspection HTTP server",
	Long: `Serves the definitions of the configured backend over a JSON API: listing, Mermaid graphs,
validation, script simulation and Prometheus metrics. File and Loam backends are watched and
reloaded on change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")
		cfg := backendFromFlags(cmd)

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		loader, closeFn, err := cfg.open()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector())
		metrics, err := observability.NewMetrics(promReg)
		if err != nil {
			return err
		}

		var server *httpAdapter.Server
		reg := registry.New(loader,
			registry.WithLogger(logger),
			registry.WithOnChange(func(name string) {
				if server != nil {
					server.Notify(name)
				}
			}),
		)
		if err := reg.Reload(ctx); err != nil {
			return err
		}

		server = httpAdapter.NewServer(reg,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(metrics),
			httpAdapter.WithGatherer(promReg),
		)

		if watch {
			if err := reg.Watch(ctx); err != nil {
				if !errors.Is(err, registry.ErrNotWatchable) {
					return err
				}
				logger.Info("backend does not support watching", "backend", cfg.Kind)
			}
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		tui.PrintBanner(os.Stdout)
		go func() {
			fmt.Printf("Starting Keyframe Server on %s\n", srv.Addr)
			fmt.Printf("Serving %d animator(s) from %s backend\n", len(reg.Names()), cfg.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Println("\nStart shutdown...")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Keyframe Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("watch", true, "Reload definitions when the backend changes")
}
