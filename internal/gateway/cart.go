package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"storefront-client/internal/bus"
	"storefront-client/internal/model"
)

// CartLines fetches the authenticated cart.
func (c *Client) CartLines(ctx context.Context, session model.Session) ([]model.CartLine, error) {
	return getList[model.CartLine](ctx, c, session, "/cart", nil)
}

// AddCartItem adds one unit of a product to the authenticated cart.
// The endpoint accepts no quantity; use SetCartQuantity afterwards for
// amounts above one. An unspecified pack falls back to the default pack id.
func (c *Client) AddCartItem(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error {
	if packSizeID.IsZero() {
		packSizeID = c.defaultPackID
	}
	body := map[string]model.Ident{
		"product_id":   productID,
		"pack_size_id": packSizeID,
	}
	err := c.do(ctx, session, http.MethodPost, "/cart/"+url.PathEscape(productID.String()), nil, body, nil)
	if err != nil {
		return err
	}
	c.publish(bus.CartChanged)
	return nil
}

// SetCartQuantity replaces the quantity of an existing cart entry.
func (c *Client) SetCartQuantity(ctx context.Context, session model.Session, productID, packSizeID model.Ident, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if packSizeID.IsZero() {
		packSizeID = c.defaultPackID
	}
	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	q.Set("pack_size_id", packSizeID.String())
	err := c.do(ctx, session, http.MethodPut, "/cart/"+url.PathEscape(productID.String()), q, nil, nil)
	if err != nil {
		return err
	}
	c.publish(bus.CartChanged)
	return nil
}

// RemoveCartItem deletes one entry from the authenticated cart.
func (c *Client) RemoveCartItem(ctx context.Context, session model.Session, productID, packSizeID model.Ident) error {
	q := url.Values{}
	if !packSizeID.IsZero() {
		q.Set("pack_size_id", packSizeID.String())
	}
	err := c.do(ctx, session, http.MethodDelete, "/cart/"+url.PathEscape(productID.String()), q, nil, nil)
	if err != nil {
		return err
	}
	c.publish(bus.CartChanged)
	return nil
}

// ClearCart empties the authenticated cart.
func (c *Client) ClearCart(ctx context.Context, session model.Session) error {
	if err := c.do(ctx, session, http.MethodDelete, "/cart", nil, nil, nil); err != nil {
		return err
	}
	c.publish(bus.CartChanged)
	return nil
}

// CartCount reports the number of cart entries. Failures resolve to zero
// so badge rendering never blocks on the network.
func (c *Client) CartCount(ctx context.Context, session model.Session) int {
	lines, err := c.CartLines(ctx, session)
	if err != nil {
		c.logger.Debug("cart count unavailable", "error", err)
		return 0
	}
	return len(lines)
}
