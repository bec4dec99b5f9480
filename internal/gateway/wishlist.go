package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront-client/internal/bus"
	"storefront-client/internal/model"
)

// WishlistEntry is one row of the favorites list. Which field carries the
// product id varies by backend version, so all known spots are declared.
type WishlistEntry struct {
	ID        model.Ident    `json:"id"`
	ProductID model.Ident    `json:"product_id"`
	Product   *model.Product `json:"product"`
	Pivot     struct {
		ProductID model.Ident `json:"product_id"`
	} `json:"pivot"`
}

// ResolveID returns the entry's product id from whichever field holds it.
func (e *WishlistEntry) ResolveID() model.Ident {
	if !e.ID.IsZero() {
		return e.ID
	}
	if !e.ProductID.IsZero() {
		return e.ProductID
	}
	if e.Product != nil && !e.Product.ID.IsZero() {
		return e.Product.ID
	}
	return e.Pivot.ProductID
}

// Line converts the entry into a cart line for pricing and display.
func (e *WishlistEntry) Line() model.CartLine {
	if e.Product != nil {
		return model.LineFor(e.Product, 1, "")
	}
	return model.CartLine{ID: e.ResolveID(), Quantity: model.Num(1)}
}

// ToggleOutcome reports which way a favorite toggle went.
type ToggleOutcome string

const (
	ToggleOutcomeAdded   ToggleOutcome = "added"
	ToggleOutcomeRemoved ToggleOutcome = "removed"
)

// WishlistEntries fetches the authenticated favorites list.
func (c *Client) WishlistEntries(ctx context.Context, session model.Session) ([]WishlistEntry, error) {
	return getList[WishlistEntry](ctx, c, session, "/favorite-list", nil)
}

// WishlistProductIDs fetches the favorites list as a set of product ids.
func (c *Client) WishlistProductIDs(ctx context.Context, session model.Session) ([]model.Ident, error) {
	entries, err := c.WishlistEntries(ctx, session)
	if err != nil {
		return nil, err
	}
	ids := make([]model.Ident, 0, len(entries))
	for i := range entries {
		if id := entries[i].ResolveID(); !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ToggleFavorite flips a product's membership in the favorites list. It is
// the only wishlist mutation the upstream exposes; there is no separate
// add or remove. The outcome is read from the response message.
func (c *Client) ToggleFavorite(ctx context.Context, session model.Session, productID model.Ident) (ToggleOutcome, error) {
	var resp struct {
		Message string `json:"message"`
	}
	path := "/products/" + url.PathEscape(productID.String()) + "/toggle-favorite"
	if err := c.do(ctx, session, http.MethodPost, path, nil, nil, &resp); err != nil {
		return "", err
	}
	c.publish(bus.WishlistChanged)
	if strings.Contains(strings.ToLower(resp.Message), "added") {
		return ToggleOutcomeAdded, nil
	}
	return ToggleOutcomeRemoved, nil
}

// WishlistCount reports the favorites list length, zero on failure.
func (c *Client) WishlistCount(ctx context.Context, session model.Session) int {
	entries, err := c.WishlistEntries(ctx, session)
	if err != nil {
		c.logger.Debug("wishlist count unavailable", "error", err)
		return 0
	}
	return len(entries)
}
