package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"storefront-client/internal/model"
)

// ProductQuery filters a catalog listing. Zero values are omitted.
type ProductQuery struct {
	Search     string
	CategoryID model.Ident
	Page       int
	PerPage    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if !q.CategoryID.IsZero() {
		v.Set("category_id", q.CategoryID.String())
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// Category is a catalog category.
type Category struct {
	ID       model.Ident `json:"id"`
	Name     string      `json:"name"`
	Image    string      `json:"image"`
	ParentID model.Ident `json:"parent_id"`
}

// Branch is a physical store location.
type Branch struct {
	ID      model.Ident `json:"id"`
	Name    string      `json:"name"`
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
}

// Products lists catalog products. A session is optional; authenticated
// requests get per-user fields such as is_favorite filled in.
func (c *Client) Products(ctx context.Context, session model.Session, q ProductQuery) ([]model.Product, error) {
	return getList[model.Product](ctx, c, session, "/shop/products", q.values())
}

// ProductByID fetches one product with its pack sizes.
func (c *Client) ProductByID(ctx context.Context, session model.Session, id model.Ident) (*model.Product, error) {
	var raw json.RawMessage
	err := c.do(ctx, session, http.MethodGet, "/shop/products/"+url.PathEscape(id.String()), nil, nil, &raw)
	if err != nil {
		return nil, err
	}
	var p model.Product
	if err := decodeObject(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchProducts is a convenience wrapper over Products.
func (c *Client) SearchProducts(ctx context.Context, session model.Session, term string) ([]model.Product, error) {
	return c.Products(ctx, session, ProductQuery{Search: term})
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context, session model.Session) ([]Category, error) {
	return getList[Category](ctx, c, session, "/shop/categories", nil)
}

// CategoryByID fetches one category.
func (c *Client) CategoryByID(ctx context.Context, session model.Session, id model.Ident) (*Category, error) {
	var raw json.RawMessage
	err := c.do(ctx, session, http.MethodGet, "/shop/categories/"+url.PathEscape(id.String()), nil, nil, &raw)
	if err != nil {
		return nil, err
	}
	var cat Category
	if err := decodeObject(raw, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Offers lists products currently on promotion.
func (c *Client) Offers(ctx context.Context, session model.Session) ([]model.Product, error) {
	return getList[model.Product](ctx, c, session, "/shop/offers", nil)
}

// Branches lists store locations.
func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	return getList[Branch](ctx, c, model.Session{}, "/branches", nil)
}
