// Package model holds the normalized domain types shared across the client.
// The storefront API returns the same logical fields under several names and
// shapes; these structs declare every alias once so the resolution order
// (pack-level over product-level over line-level) lives in exactly one place.
package model

// PackSize is a purchasable unit variant of a product, carrying its own
// price and stock. The id-like field varies per endpoint.
type PackSize struct {
	ID         Ident `json:"id"`
	PackSizeID Ident `json:"pack_size_id"`
	Value      Ident `json:"value"`
	AltID      Ident `json:"packSizeId"`
	LegacyID   Ident `json:"packsize_id"`

	Name string `json:"name"`

	Price         Scalar `json:"price"`
	RegularPrice  Scalar `json:"regular_price"`
	BasePrice     Scalar `json:"base_price"`
	SalePrice     Scalar `json:"sale_price"`
	DiscountPrice Scalar `json:"discount_price"`
	OfferPrice    Scalar `json:"offer_price"`

	Discount     Scalar `json:"discount"`
	DiscountType string `json:"discount_type"`

	MaxOrderQuantity Scalar `json:"max_order_quantity"`
	MaxQty           Scalar `json:"max_qty"`
	Limit            Scalar `json:"limit"`

	Stock             Scalar `json:"stock"`
	Quantity          Scalar `json:"quantity"`
	AvailableQuantity Scalar `json:"available_quantity"`
	AvailableStock    Scalar `json:"available_stock"`
}

// Ref resolves the pack's identifier from whichever alias the response used.
func (p *PackSize) Ref() Ident {
	return FirstIdent(p.ID, p.PackSizeID, p.Value, p.AltID, p.LegacyID)
}

// Product is a catalog product as returned by the shop endpoints.
type Product struct {
	ID         Ident  `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	ThumbImage string `json:"thumb_image"`

	PackSizes  []PackSize `json:"pack_sizes"`
	PackSizeID Ident      `json:"pack_size_id"`

	Price         Scalar `json:"price"`
	RegularPrice  Scalar `json:"regular_price"`
	BasePrice     Scalar `json:"base_price"`
	OriginalPrice Scalar `json:"original_price"`
	DiscountPrice Scalar `json:"discount_price"`
	SalePrice     Scalar `json:"sale_price"`
	OfferPrice    Scalar `json:"offer_price"`

	Discount          Scalar `json:"discount"`
	DiscountValue     Scalar `json:"discount_value"`
	DiscountType      string `json:"discount_type"`
	DiscountTypeValue string `json:"discount_type_value"`

	MaxOrderQuantity     Scalar `json:"max_order_quantity"`
	MaximumOrderQuantity Scalar `json:"maximum_order_quantity"`
	MaxOrderQty          Scalar `json:"max_order_qty"`
	MaxQty               Scalar `json:"max_qty"`
	PurchaseLimit        Scalar `json:"purchase_limit"`
	OrderLimit           Scalar `json:"order_limit"`
	LimitPerCustomer     Scalar `json:"limit_per_customer"`

	AvailableQuantity Scalar `json:"available_quantity"`
	AvailableStock    Scalar `json:"available_stock"`
	TotalStock        Scalar `json:"total_stock"`
	Stock             Scalar `json:"stock"`
	Quantity          Scalar `json:"quantity"`

	AverageRating Scalar `json:"average_rating"`
	SoldCount     Scalar `json:"sold_count"`
	IsFavorite    bool   `json:"is_favorite"`
}

// CartLine is one line of a cart: either a remote cart entry (with a nested
// product) or a guest entry hydrated from a product lookup.
type CartLine struct {
	ID      Ident    `json:"id"`
	Product *Product `json:"product"`

	Quantity Scalar `json:"quantity"`
	Qty      Scalar `json:"qty"`
	Amount   Scalar `json:"amount"`

	PackSizeID         Ident     `json:"pack_size_id"`
	AltPackSizeID      Ident     `json:"packSizeId"`
	SelectedPackSizeID Ident     `json:"selected_pack_size_id"`
	PackSize           *PackSize `json:"pack_size"`

	// Some responses attach pack_sizes on the line rather than the product.
	PackSizes []PackSize `json:"pack_sizes"`

	UnitPrice     Scalar `json:"unit_price"`
	Price         Scalar `json:"price"`
	OriginalPrice Scalar `json:"original_price"`

	Discount     Scalar `json:"discount"`
	DiscountType string `json:"discount_type"`

	MaxOrderQuantity Scalar `json:"max_order_quantity"`
	MaxQty           Scalar `json:"max_qty"`
	Limit            Scalar `json:"limit"`

	AvailableQuantity Scalar `json:"available_quantity"`
	Stock             Scalar `json:"stock"`

	CategoryName string `json:"category_name"`
}

// ProductID resolves the line's product identifier, preferring the nested
// product's id over the line's own.
func (l *CartLine) ProductID() Ident {
	if l.Product != nil && !l.Product.ID.IsZero() {
		return l.Product.ID
	}
	return l.ID
}

// TargetPackID resolves which pack size the line refers to, across aliases.
func (l *CartLine) TargetPackID() Ident {
	id := FirstIdent(l.PackSizeID, l.AltPackSizeID, l.SelectedPackSizeID)
	if !id.IsZero() {
		return id
	}
	if l.PackSize != nil {
		if ref := l.PackSize.Ref(); !ref.IsZero() {
			return ref
		}
	}
	if l.Product != nil {
		return l.Product.PackSizeID
	}
	return ""
}

// LineQuantity resolves the line's quantity (quantity, then qty, then amount),
// floored to a minimum of 1.
func (l *CartLine) LineQuantity() int {
	for _, c := range []Scalar{l.Quantity, l.Qty, l.Amount} {
		// Truncate before flooring so fractional quantities below one
		// still resolve to 1, never 0.
		if v := int(c.Value); c.Positive() && v >= 1 {
			return v
		}
	}
	return 1
}

// LineFor builds a cart line from a bare product, used where product cards
// and wishlist rows price a product without a surrounding cart entry.
func LineFor(p *Product, quantity int, packSizeID Ident) CartLine {
	if quantity < 1 {
		quantity = 1
	}
	return CartLine{
		Product:    p,
		Quantity:   Num(float64(quantity)),
		PackSizeID: packSizeID,
	}
}

// Session carries the bearer credential for authenticated calls. The zero
// value is a guest session; no Authorization header is sent for it.
type Session struct {
	Token string
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool { return s.Token != "" }
