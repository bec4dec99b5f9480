package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"storefront-client/internal/mcptools"
	"storefront-client/internal/middleware"
)

func newMCPCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the storefront tools over MCP (streamable HTTP at /mcp)",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := mcptools.NewHandler(a.gateway, a.cart, a.wishlist, a.session, a.logger)
			server := handler.NewServer()

			mux := http.NewServeMux()
			mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(
				func(r *http.Request) *mcp.Server { return server },
				nil,
			))

			// Recovery outermost so panics in logging are still caught.
			httpHandler := middleware.Chain(
				middleware.Recovery(a.logger),
				middleware.Logging(a.logger),
			)(mux)

			httpServer := &http.Server{
				Addr:         listen,
				Handler:      httpHandler,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			serverErr := make(chan error, 1)
			go func() {
				a.logger.Info("mcp server starting", "addr", listen)
				serverErr <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-serverErr:
				if err != http.ErrServerClosed {
					return fmt.Errorf("server error: %w", err)
				}
			case sig := <-shutdown:
				a.logger.Info("shutdown signal received", "signal", sig.String())

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					httpServer.Close()
					return fmt.Errorf("shutdown error: %w", err)
				}
			}

			a.logger.Info("mcp server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":8080", "listen address")
	return cmd
}
