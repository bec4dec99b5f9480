// Package cart routes cart operations to the right backing state: the
// authenticated server cart when a session is present, the local item
// store otherwise. Callers never branch on auth themselves.
package cart

import (
	"context"
	"log/slog"

	"storefront-client/internal/localstore"
	"storefront-client/internal/model"
	"storefront-client/internal/pricing"
)

// taxRateBasisPoints is the flat checkout tax, applied to the subtotal.
const taxRateBasisPoints = 500 // 5%

// Remote is the slice of the gateway the service needs.
type Remote interface {
	ProductByID(ctx context.Context, session model.Session, id model.Ident) (*model.Product, error)
	CartLines(ctx context.Context, session model.Session) ([]model.CartLine, error)
	AddCartItem(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error
	SetCartQuantity(ctx context.Context, session model.Session, productID, packSizeID model.Ident, quantity int) error
	RemoveCartItem(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error
	ClearCart(ctx context.Context, session model.Session) error
	CartCount(ctx context.Context, session model.Session) int
}

// Store is the slice of the local item store the service needs.
type Store interface {
	CartItems() []model.CartLine
	SetCartItems(lines []model.CartLine) error
	UpsertCartItem(line model.CartLine) error
	UpdateCartItemQuantity(productID, packSizeID model.Ident, quantity int) error
	RemoveCartItem(productID, packSizeID model.Ident) error
	ClearCart() error
	CartCount() int
}

// Service is the cart facade.
type Service struct {
	Remote Remote
	Store  Store
	Logger *slog.Logger
}

// NewService wires a cart service over the concrete store and gateway.
func NewService(store *localstore.Store, remote Remote, logger *slog.Logger) *Service {
	return &Service{Remote: remote, Store: store, Logger: logger}
}

// Add puts quantity units of a product in the cart.
//
// Authenticated: the server add creates one unit, so quantities above one
// get a follow-up quantity write. Guest: the product is fetched so the
// stored line carries prices and stock, the quantity is clamped to the
// product's effective ceiling, and the line is merged into local storage.
func (s *Service) Add(ctx context.Context, session model.Session, productID, packSizeID model.Ident, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	if session.Authenticated() {
		if err := s.Remote.AddCartItem(ctx, session, productID, packSizeID); err != nil {
			return err
		}
		if quantity > 1 {
			return s.Remote.SetCartQuantity(ctx, session, productID, packSizeID, quantity)
		}
		return nil
	}

	product, err := s.Remote.ProductByID(ctx, session, productID)
	if err != nil {
		return err
	}
	line := model.LineFor(product, quantity, packSizeID)
	if av := pricing.ComputeAvailability(&line); av.OutOfStock {
		return model.NewValidationError("quantity", "product is out of stock")
	}
	if clamped, ok := clampToCeiling(&line, quantity); ok && clamped != quantity {
		s.Logger.Info("quantity clamped to availability",
			"product_id", productID, "requested", quantity, "allowed", clamped)
		line.Quantity = model.Num(float64(clamped))
	}
	return s.Store.UpsertCartItem(line)
}

// UpdateQuantity replaces an entry's quantity.
func (s *Service) UpdateQuantity(ctx context.Context, session model.Session, productID, packSizeID model.Ident, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if session.Authenticated() {
		return s.Remote.SetCartQuantity(ctx, session, productID, packSizeID, quantity)
	}
	return s.Store.UpdateCartItemQuantity(productID, packSizeID, quantity)
}

// Remove deletes an entry.
func (s *Service) Remove(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error {
	if session.Authenticated() {
		return s.Remote.RemoveCartItem(ctx, session, productID, packSizeID)
	}
	return s.Store.RemoveCartItem(productID, packSizeID)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, session model.Session) error {
	if session.Authenticated() {
		return s.Remote.ClearCart(ctx, session)
	}
	return s.Store.ClearCart()
}

// Count is the badge number: entry count for the server cart, quantity sum
// for the guest cart. Failures resolve to zero.
func (s *Service) Count(ctx context.Context, session model.Session) int {
	if session.Authenticated() {
		return s.Remote.CartCount(ctx, session)
	}
	return s.Store.CartCount()
}

// Lines returns the cart contents. Guest lines stored without a product
// are hydrated from the catalog so pricing works; hydration failures leave
// the bare line in place rather than dropping it.
func (s *Service) Lines(ctx context.Context, session model.Session) ([]model.CartLine, error) {
	if session.Authenticated() {
		return s.Remote.CartLines(ctx, session)
	}

	items := s.Store.CartItems()
	changed := false
	for i := range items {
		if items[i].Product != nil {
			continue
		}
		id := items[i].ProductID()
		if id.IsZero() {
			continue
		}
		product, err := s.Remote.ProductByID(ctx, session, id)
		if err != nil {
			s.Logger.Warn("cart line hydration failed", "product_id", id, "error", err)
			continue
		}
		items[i].Product = product
		changed = true
	}
	if changed {
		if err := s.Store.SetCartItems(items); err != nil {
			s.Logger.Warn("writing hydrated cart back failed", "error", err)
		}
	}
	return items, nil
}

// Totals is a computed cart total, amounts in cents.
type Totals struct {
	Subtotal int64
	Discount int64
	Tax      int64
	Total    int64
}

// ComputeTotals prices every line and applies the flat tax.
func ComputeTotals(lines []model.CartLine) Totals {
	var t Totals
	for i := range lines {
		r := pricing.ComputeLineEconomics(&lines[i])
		t.Subtotal += r.LineFinal
		t.Discount += r.LineDiscount
	}
	t.Tax = t.Subtotal * taxRateBasisPoints / 10000
	t.Total = t.Subtotal + t.Tax
	return t
}

// Totals fetches the lines and computes their totals.
func (s *Service) Totals(ctx context.Context, session model.Session) (Totals, error) {
	lines, err := s.Lines(ctx, session)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(lines), nil
}

// clampToCeiling limits quantity to the line's effective availability.
// The second return is false when the line has no ceiling.
func clampToCeiling(line *model.CartLine, quantity int) (int, bool) {
	av := pricing.ComputeAvailability(line)
	if !av.HasCeiling {
		return quantity, false
	}
	if quantity > av.Ceiling {
		return av.Ceiling, true
	}
	return quantity, true
}
