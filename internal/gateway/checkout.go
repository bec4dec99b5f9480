package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"storefront-client/internal/model"
)

// CouponRef tolerates the applied coupon arriving as a bare code string or
// as an object carrying the code.
type CouponRef struct {
	Code string
}

func (c *CouponRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Code = s
		return nil
	}
	var obj struct {
		Code   string `json:"code"`
		Coupon string `json:"coupon_code"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.Code != "" {
			c.Code = obj.Code
		} else {
			c.Code = obj.Coupon
		}
	}
	return nil
}

// Summary is the checkout total assembly as the upstream computes it.
type Summary struct {
	Subtotal    model.Scalar `json:"subtotal"`
	Discount    model.Scalar `json:"discount"`
	Tax         model.Scalar `json:"tax"`
	DeliveryFee model.Scalar `json:"delivery_fee"`
	Total       model.Scalar `json:"total"`
	GrandTotal  model.Scalar `json:"grand_total"`

	Coupon     CouponRef `json:"coupon"`
	CouponCode string    `json:"coupon_code"`
}

// AppliedCoupon returns the coupon code in effect, empty when none.
func (s *Summary) AppliedCoupon() string {
	if s.Coupon.Code != "" {
		return s.Coupon.Code
	}
	return s.CouponCode
}

// FinalTotal resolves the payable amount across its aliases, in cents.
func (s *Summary) FinalTotal() int64 {
	v, _ := model.FirstPositive(s.GrandTotal, s.Total, s.Subtotal)
	return model.CentsFromFloat(v)
}

// Coupon is an available promotion.
type Coupon struct {
	ID          model.Ident  `json:"id"`
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Discount    model.Scalar `json:"discount"`
	Type        string       `json:"discount_type"`
	MinSpend    model.Scalar `json:"min_spend"`
}

// Order is a placed order, read-only from the client's point of view.
type Order struct {
	ID        model.Ident      `json:"id"`
	Status    string           `json:"status"`
	Total     model.Scalar     `json:"total"`
	CreatedAt string           `json:"created_at"`
	Lines     []model.CartLine `json:"items"`
}

// Address is a saved delivery address.
type Address struct {
	ID      model.Ident `json:"id"`
	Label   string      `json:"label"`
	Line1   string      `json:"address"`
	City    string      `json:"city"`
	Phone   string      `json:"phone"`
	Default bool        `json:"is_default"`
}

// PaymentMethod is a payment option the store accepts.
type PaymentMethod struct {
	ID   model.Ident `json:"id"`
	Name string      `json:"name"`
	Slug string      `json:"slug"`
}

// CheckoutRequest places an order from the current cart.
type CheckoutRequest struct {
	AddressID       model.Ident `json:"address_id,omitempty"`
	BranchID        model.Ident `json:"branch_id,omitempty"`
	PaymentMethodID model.Ident `json:"payment_method_id,omitempty"`
	Note            string      `json:"note,omitempty"`
}

// CartSummary fetches the upstream's view of the cart totals.
func (c *Client) CartSummary(ctx context.Context, session model.Session) (*Summary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, http.MethodGet, "/cart/summary", nil, nil, &raw); err != nil {
		return nil, err
	}
	var s Summary
	if err := decodeObject(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyCoupon attaches a coupon to the cart and returns the new totals.
func (c *Client) ApplyCoupon(ctx context.Context, session model.Session, code string) (*Summary, error) {
	var raw json.RawMessage
	body := map[string]string{"coupon_code": code}
	if err := c.do(ctx, session, http.MethodPost, "/cart/apply-coupon", nil, body, &raw); err != nil {
		return nil, err
	}
	var s Summary
	if err := decodeObject(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// RemoveCoupon detaches the applied coupon.
func (c *Client) RemoveCoupon(ctx context.Context, session model.Session) error {
	return c.do(ctx, session, http.MethodPost, "/cart/remove-coupon", nil, nil, nil)
}

// ValidateCoupon checks a coupon code without attaching it to the cart.
func (c *Client) ValidateCoupon(ctx context.Context, session model.Session, code string) (*Coupon, error) {
	var raw json.RawMessage
	body := map[string]string{"code": code}
	if err := c.do(ctx, session, http.MethodPost, "/coupons/validate", nil, body, &raw); err != nil {
		return nil, err
	}
	var coupon Coupon
	if err := decodeObject(raw, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// AvailableCoupons lists coupons the user can apply.
func (c *Client) AvailableCoupons(ctx context.Context, session model.Session) ([]Coupon, error) {
	return getList[Coupon](ctx, c, session, "/coupons/available", nil)
}

// Orders lists the user's order history.
func (c *Client) Orders(ctx context.Context, session model.Session) ([]Order, error) {
	return getList[Order](ctx, c, session, "/orders", nil)
}

// OrderByID fetches one order.
func (c *Client) OrderByID(ctx context.Context, session model.Session, id model.Ident) (*Order, error) {
	var raw json.RawMessage
	err := c.do(ctx, session, http.MethodGet, "/orders/"+url.PathEscape(id.String()), nil, nil, &raw)
	if err != nil {
		return nil, err
	}
	var o Order
	if err := decodeObject(raw, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder cancels a placed order while the store still allows it.
func (c *Client) CancelOrder(ctx context.Context, session model.Session, id model.Ident) error {
	return c.do(ctx, session, http.MethodPost, "/orders/"+url.PathEscape(id.String())+"/cancel", nil, nil, nil)
}

// TrackingUpdate is one step in an order's fulfilment history.
type TrackingUpdate struct {
	Status    string `json:"status"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

// OrderTracking is the fulfilment state of an order.
type OrderTracking struct {
	Status  string           `json:"status"`
	Updates []TrackingUpdate `json:"updates"`
}

// TrackOrder fetches the fulfilment state of an order.
func (c *Client) TrackOrder(ctx context.Context, session model.Session, id model.Ident) (*OrderTracking, error) {
	var raw json.RawMessage
	err := c.do(ctx, session, http.MethodGet, "/orders/"+url.PathEscape(id.String())+"/track", nil, nil, &raw)
	if err != nil {
		return nil, err
	}
	var tr OrderTracking
	if err := decodeObject(raw, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// PlaceOrder submits the current cart as an order.
func (c *Client) PlaceOrder(ctx context.Context, session model.Session, req CheckoutRequest) (*Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, http.MethodPost, "/orders", nil, req, &raw); err != nil {
		return nil, err
	}
	var o Order
	if err := decodeObject(raw, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Addresses lists saved delivery addresses.
func (c *Client) Addresses(ctx context.Context, session model.Session) ([]Address, error) {
	return getList[Address](ctx, c, session, "/addresses", nil)
}

// AddAddress saves a new delivery address.
func (c *Client) AddAddress(ctx context.Context, session model.Session, a Address) error {
	return c.do(ctx, session, http.MethodPost, "/addresses", nil, a, nil)
}

// UpdateAddress replaces a saved address.
func (c *Client) UpdateAddress(ctx context.Context, session model.Session, id model.Ident, a Address) error {
	return c.do(ctx, session, http.MethodPut, "/addresses/"+url.PathEscape(id.String()), nil, a, nil)
}

// DeleteAddress removes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, session model.Session, id model.Ident) error {
	return c.do(ctx, session, http.MethodDelete, "/addresses/"+url.PathEscape(id.String()), nil, nil, nil)
}

// SetDefaultAddress marks a saved address as the delivery default.
func (c *Client) SetDefaultAddress(ctx context.Context, session model.Session, id model.Ident) error {
	return c.do(ctx, session, http.MethodPost, "/addresses/"+url.PathEscape(id.String())+"/default", nil, nil, nil)
}

// PaymentRequest settles a placed order through a payment option.
type PaymentRequest struct {
	OrderID         model.Ident `json:"order_id"`
	PaymentMethodID model.Ident `json:"payment_method_id,omitempty"`
}

// PaymentResult is the upstream's acknowledgement of a payment.
type PaymentResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// ProcessPayment settles an order.
func (c *Client) ProcessPayment(ctx context.Context, session model.Session, req PaymentRequest) (*PaymentResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, http.MethodPost, "/payments", nil, req, &raw); err != nil {
		return nil, err
	}
	var res PaymentResult
	if err := decodeObject(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PaymentMethods lists the store's accepted payment options.
func (c *Client) PaymentMethods(ctx context.Context, session model.Session) ([]PaymentMethod, error) {
	return getList[PaymentMethod](ctx, c, session, "/payment-methods", nil)
}

// Ticket is a support ticket.
type Ticket struct {
	ID      model.Ident `json:"id"`
	Subject string      `json:"subject"`
	Status  string      `json:"status"`
}

// Tickets lists the user's support tickets.
func (c *Client) Tickets(ctx context.Context, session model.Session) ([]Ticket, error) {
	return getList[Ticket](ctx, c, session, "/tickets", nil)
}

// CreateTicket opens a support ticket.
func (c *Client) CreateTicket(ctx context.Context, session model.Session, subject, message string) error {
	body := map[string]string{"subject": subject, "message": message}
	return c.do(ctx, session, http.MethodPost, "/tickets", nil, body, nil)
}

// ReplyTicket adds a message to an existing ticket.
func (c *Client) ReplyTicket(ctx context.Context, session model.Session, id model.Ident, message string) error {
	body := map[string]string{"message": message}
	return c.do(ctx, session, http.MethodPost, "/tickets/"+url.PathEscape(id.String())+"/reply", nil, body, nil)
}
