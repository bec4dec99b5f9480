// Package reconcile merges guest-held local state into the authenticated
// server-held state after a login or registration.
//
// The merge is one-directional and sequential: each locally held item is
// pushed to the server in order, failures are logged and skipped, and the
// local collection is cleared afterwards regardless of per-item outcomes.
// Clearing unconditionally can drop items whose sync failed; that behavior
// is deliberate and matches the shipped storefront. Do not make the clear
// conditional without product guidance.
package reconcile

import (
	"context"
	"log/slog"

	"storefront-client/internal/gateway"
	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
)

// Gateway is the slice of the remote client the merger needs.
type Gateway interface {
	AddCartItem(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error
	SetCartQuantity(ctx context.Context, session model.Session, productID, packSizeID model.Ident, quantity int) error
	WishlistProductIDs(ctx context.Context, session model.Session) ([]model.Ident, error)
	ToggleFavorite(ctx context.Context, session model.Session, productID model.Ident) (gateway.ToggleOutcome, error)
}

// Store is the slice of the local item store the merger needs.
type Store interface {
	CartItems() []model.CartLine
	WishlistItems() []model.CartLine
	ClearCart() error
	ClearWishlist() error
}

// Merger pushes guest cart and wishlist items to the server.
type Merger struct {
	Store   Store
	Gateway Gateway
	Logger  *slog.Logger
}

// MergeOnLogin runs both merges. Cart first, then wishlist, matching the
// order the storefront has always used. Errors from individual items never
// abort the run; the only returned errors are local clear failures.
func (m *Merger) MergeOnLogin(ctx context.Context, session model.Session) error {
	if err := m.MergeCart(ctx, session); err != nil {
		return err
	}
	return m.MergeWishlist(ctx, session)
}

// MergeCart pushes each guest cart item to the server cart.
//
// The add endpoint always creates a quantity of one, so quantities above
// one need a follow-up quantity write. Per-item failures are logged and
// skipped; the loop is strictly sequential so the final clear runs only
// after every attempt has been made.
func (m *Merger) MergeCart(ctx context.Context, session model.Session) error {
	items := m.Store.CartItems()
	if len(items) == 0 {
		return nil
	}

	for i := range items {
		item := &items[i]
		productID := item.ProductID()
		if productID.IsZero() {
			m.Logger.Warn("skipping cart item with no product id")
			continue
		}
		packID := item.TargetPackID()
		qty := item.LineQuantity()

		if err := m.Gateway.AddCartItem(ctx, session, productID, packID); err != nil {
			m.Logger.Warn("cart item sync failed",
				"product_id", productID, "error", err)
			continue
		}
		if qty > 1 {
			if err := m.Gateway.SetCartQuantity(ctx, session, productID, packID, qty); err != nil {
				m.Logger.Warn("cart quantity sync failed",
					"product_id", productID, "quantity", qty, "error", err)
			}
		}
	}

	m.Logger.Warn("clearing local cart after merge; items that failed to sync are dropped")
	return m.Store.ClearCart()
}

// MergeWishlist pushes guest wishlist membership to the server favorites.
//
// The server only exposes a toggle, so items the server already holds must
// not be toggled again or they would be removed. Remote membership is
// fetched once up front; a failed fetch is treated as an empty set, which
// risks double-toggling but keeps the merge running.
func (m *Merger) MergeWishlist(ctx context.Context, session model.Session) error {
	items := m.Store.WishlistItems()
	if len(items) == 0 {
		return nil
	}

	remote, err := m.Gateway.WishlistProductIDs(ctx, session)
	if err != nil {
		m.Logger.Warn("fetching remote wishlist failed, assuming empty", "error", err)
		remote = nil
	}

	for _, id := range MissingIDs(items, remote) {
		if _, err := m.Gateway.ToggleFavorite(ctx, session, id); err != nil {
			m.Logger.Warn("wishlist item sync failed", "product_id", id, "error", err)
		}
	}

	m.Logger.Warn("clearing local wishlist after merge; items that failed to sync are dropped")
	return m.Store.ClearWishlist()
}

// MissingIDs returns the product ids of local items absent from the remote
// set, preserving local order and dropping duplicates.
func MissingIDs(local []model.CartLine, remote []model.Ident) []model.Ident {
	have := make(map[model.Ident]struct{}, len(remote))
	for _, id := range remote {
		have[id] = struct{}{}
	}

	var missing []model.Ident
	for i := range local {
		id := local[i].ProductID()
		if id.IsZero() {
			continue
		}
		if _, ok := have[id]; ok {
			continue
		}
		have[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}

// NewMerger wires a merger over the concrete store and gateway.
func NewMerger(store *localstore.Store, gw *gateway.Client, logger *slog.Logger) *Merger {
	return &Merger{Store: store, Gateway: gw, Logger: logger}
}
