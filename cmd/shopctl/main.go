// shopctl - command line storefront client.
// Browses the catalog and manages a cart and wishlist, as a guest or an
// authenticated user, against one configured storefront.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"storefront-client/internal/bus"
	"storefront-client/internal/cart"
	"storefront-client/internal/config"
	"storefront-client/internal/gateway"
	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
	"storefront-client/internal/reconcile"
	"storefront-client/internal/wishlist"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the wired services. Built once per invocation in PersistentPreRunE
// so every subcommand sees the same session and event bus.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	events   *bus.Bus
	store    *localstore.Store
	gateway  *gateway.Client
	cart     *cart.Service
	wishlist *wishlist.Service
	merger   *reconcile.Merger
	session  model.Session
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Storefront client: catalog, cart, and wishlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		newProductsCmd(a),
		newProductCmd(a),
		newSearchCmd(a),
		newCategoriesCmd(a),
		newOffersCmd(a),
		newBranchesCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newPasswdCmd(a),
		newResetCmd(a),
		newCartCmd(a),
		newWishlistCmd(a),
		newSummaryCmd(a),
		newCouponCmd(a),
		newOrdersCmd(a),
		newCheckoutCmd(a),
		newMCPCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	a.logger = initLogger(cfg)
	a.events = bus.New()
	a.store = localstore.Open(cfg.StateDir, a.events, a.logger)

	gw, err := gateway.New(gateway.Options{
		BaseURL:           cfg.Store.BaseURL,
		DefaultPackSizeID: model.Ident(cfg.Store.DefaultPackSizeID),
		Events:            a.events,
		Logger:            a.logger,
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	a.gateway = gw

	a.cart = cart.NewService(a.store, gw, a.logger)
	a.wishlist = wishlist.NewService(a.store, gw, a.logger)
	a.merger = reconcile.NewMerger(a.store, gw, a.logger)
	a.session = loadSession(cfg.StateDir)
	return nil
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format, development text format.
func initLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
