// Package wishlist routes favorites operations between the server
// favorites list and the local item store, mirroring the cart facade.
package wishlist

import (
	"context"
	"log/slog"

	"storefront-client/internal/gateway"
	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
)

// Remote is the slice of the gateway the service needs.
type Remote interface {
	ProductByID(ctx context.Context, session model.Session, id model.Ident) (*model.Product, error)
	WishlistEntries(ctx context.Context, session model.Session) ([]gateway.WishlistEntry, error)
	ToggleFavorite(ctx context.Context, session model.Session, productID model.Ident) (gateway.ToggleOutcome, error)
	WishlistCount(ctx context.Context, session model.Session) int
}

// Store is the slice of the local item store the service needs.
type Store interface {
	WishlistItems() []model.CartLine
	ToggleWishlistItem(line model.CartLine) (localstore.ToggleStatus, error)
	RemoveFromWishlist(productID model.Ident) error
	WishlistCount() int
}

// Service is the wishlist facade.
type Service struct {
	Remote Remote
	Store  Store
	Logger *slog.Logger
}

// NewService wires a wishlist service over the concrete store and gateway.
func NewService(store *localstore.Store, remote Remote, logger *slog.Logger) *Service {
	return &Service{Remote: remote, Store: store, Logger: logger}
}

// Toggle flips a product's wishlist membership.
//
// Authenticated: the server toggle is authoritative, and any leftover local
// copy of the same product is dropped so it cannot be re-merged at the next
// login and undo a removal. Guest: membership toggles in local storage,
// with the product hydrated on add so the wishlist page can price it.
func (s *Service) Toggle(ctx context.Context, session model.Session, productID model.Ident) (localstore.ToggleStatus, error) {
	if session.Authenticated() {
		outcome, err := s.Remote.ToggleFavorite(ctx, session, productID)
		if err != nil {
			return "", err
		}
		if err := s.Store.RemoveFromWishlist(productID); err != nil {
			s.Logger.Warn("dropping local wishlist copy failed",
				"product_id", productID, "error", err)
		}
		if outcome == gateway.ToggleOutcomeAdded {
			return localstore.ToggleAdded, nil
		}
		return localstore.ToggleRemoved, nil
	}

	line := model.CartLine{ID: productID, Quantity: model.Num(1)}
	if product, err := s.Remote.ProductByID(ctx, session, productID); err == nil {
		line = model.LineFor(product, 1, "")
	} else {
		s.Logger.Warn("wishlist hydration failed, storing bare id",
			"product_id", productID, "error", err)
	}
	return s.Store.ToggleWishlistItem(line)
}

// Count is the badge number, zero on failure.
func (s *Service) Count(ctx context.Context, session model.Session) int {
	if session.Authenticated() {
		return s.Remote.WishlistCount(ctx, session)
	}
	return s.Store.WishlistCount()
}

// Lines returns the wishlist contents as cart lines for display.
func (s *Service) Lines(ctx context.Context, session model.Session) ([]model.CartLine, error) {
	if session.Authenticated() {
		entries, err := s.Remote.WishlistEntries(ctx, session)
		if err != nil {
			return nil, err
		}
		lines := make([]model.CartLine, 0, len(entries))
		for i := range entries {
			lines = append(lines, entries[i].Line())
		}
		return lines, nil
	}
	return s.Store.WishlistItems(), nil
}

// Contains reports whether a product is wishlisted.
func (s *Service) Contains(ctx context.Context, session model.Session, productID model.Ident) bool {
	if session.Authenticated() {
		entries, err := s.Remote.WishlistEntries(ctx, session)
		if err != nil {
			return false
		}
		for i := range entries {
			if entries[i].ResolveID() == productID {
				return true
			}
		}
		return false
	}
	for _, it := range s.Store.WishlistItems() {
		if it.ProductID() == productID {
			return true
		}
	}
	return false
}
