// Package pricing derives unit prices, discounts, and order ceilings from
// cart lines. The upstream API scatters these across pack-level,
// product-level, and line-level fields under many aliases; everything here
// is pure resolution with no I/O.
package pricing

import (
	"strings"

	"storefront-client/internal/model"
)

// Result holds the economics of one cart line. All amounts are in cents.
type Result struct {
	Quantity int

	BaseUnit     int64
	FinalUnit    int64
	UnitDiscount int64

	LineBase     int64
	LineFinal    int64
	LineDiscount int64
}

// Availability is the effective order ceiling for a line.
type Availability struct {
	// Ceiling is the maximum orderable quantity. Only meaningful when
	// HasCeiling is true; absence of all stock signals means unlimited.
	Ceiling    int
	HasCeiling bool
	OutOfStock bool
}

// SelectPack resolves the pack a line refers to. Packs attached to the
// product win over packs attached to the line. When the line names a target
// pack id the matching entry is used; with no target or no match the first
// pack applies. Returns nil when the line carries no packs at all.
func SelectPack(line *model.CartLine) *model.PackSize {
	var packs []model.PackSize
	if line.Product != nil {
		packs = line.Product.PackSizes
	}
	if len(packs) == 0 {
		packs = line.PackSizes
	}
	if len(packs) == 0 {
		return line.PackSize
	}

	if target := line.TargetPackID(); !target.IsZero() {
		for i := range packs {
			if packs[i].Ref() == target {
				return &packs[i]
			}
		}
	}
	return &packs[0]
}

// ComputeLineEconomics resolves the base and final unit price of a line.
//
// The base price prefers the selected pack's regular fields, then the
// product's, then the line's own. The final price prefers sale and offer
// style fields in the same pack-first order, falling back to the base price
// when nothing discounted is present. When base and final land on the same
// value but a discount is separately declared, the discount is applied
// arithmetically instead.
func ComputeLineEconomics(line *model.CartLine) Result {
	qty := line.LineQuantity()
	pack := SelectPack(line)
	product := line.Product

	var packChain, productBase, productFinal []model.Scalar
	if pack != nil {
		packChain = []model.Scalar{pack.Price, pack.RegularPrice, pack.BasePrice}
	}
	if product != nil {
		productBase = []model.Scalar{
			product.RegularPrice, product.BasePrice, product.OriginalPrice,
		}
		productFinal = []model.Scalar{
			product.DiscountPrice, product.SalePrice, product.OfferPrice,
		}
	}

	baseChain := append(append([]model.Scalar{}, packChain...), productBase...)
	baseChain = append(baseChain, line.OriginalPrice, line.Price)
	if product != nil {
		baseChain = append(baseChain, product.Price)
	}
	base, _ := model.FirstPositive(baseChain...)

	var finalChain []model.Scalar
	if pack != nil {
		finalChain = append(finalChain, pack.SalePrice, pack.DiscountPrice, pack.OfferPrice)
	}
	finalChain = append(finalChain, line.UnitPrice, line.Price)
	finalChain = append(finalChain, productFinal...)
	if product != nil {
		finalChain = append(finalChain, product.Price)
	}
	final, ok := model.FirstPositive(finalChain...)
	if !ok {
		final = base
	}

	baseCents := model.CentsFromFloat(base)
	finalCents := model.CentsFromFloat(final)

	// Prices agreeing while a discount is declared means the upstream left
	// the discounted field unset; apply the declared discount ourselves.
	if baseCents == finalCents {
		if amount, typ, declared := declaredDiscount(pack, product, line); declared {
			if isPercentage(typ) {
				finalCents = model.CentsFromFloat(base * (1 - amount/100))
			} else {
				finalCents = baseCents - model.CentsFromFloat(amount)
			}
			if finalCents < 0 {
				finalCents = 0
			}
		}
	}

	discount := baseCents - finalCents
	if discount < 0 {
		discount = 0
	}

	return Result{
		Quantity:     qty,
		BaseUnit:     baseCents,
		FinalUnit:    finalCents,
		UnitDiscount: discount,
		LineBase:     baseCents * int64(qty),
		LineFinal:    finalCents * int64(qty),
		LineDiscount: discount * int64(qty),
	}
}

// declaredDiscount finds an explicitly declared discount, pack first.
func declaredDiscount(pack *model.PackSize, product *model.Product, line *model.CartLine) (float64, string, bool) {
	if pack != nil && pack.Discount.Positive() {
		return pack.Discount.Value, pack.DiscountType, true
	}
	if line.Discount.Positive() {
		return line.Discount.Value, line.DiscountType, true
	}
	if product != nil {
		if product.Discount.Positive() {
			return product.Discount.Value, firstNonEmpty(product.DiscountType, product.DiscountTypeValue), true
		}
		if product.DiscountValue.Positive() {
			return product.DiscountValue.Value, firstNonEmpty(product.DiscountType, product.DiscountTypeValue), true
		}
	}
	return 0, "", false
}

// isPercentage treats any type naming "percentage" as a percentage discount;
// everything else, including bare "percent", is an absolute amount.
func isPercentage(typ string) bool {
	return strings.Contains(strings.ToLower(typ), "percentage")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ComputeAvailability resolves the effective order ceiling for a line.
//
// Three signals are considered: a per-customer max order limit, aggregate
// product stock, and stock on the selected pack. Each resolves to the first
// value its aliases carry, with negatives treated as an explicit zero. The
// ceiling is the tightest of whichever signals are present; when none are,
// the line is unlimited. Lines without a product carry no catalog signals
// and are never capped.
func ComputeAvailability(line *model.CartLine) Availability {
	product := line.Product
	if product == nil {
		return Availability{}
	}
	pack := SelectPack(line)

	maxOrder, hasMaxOrder := resolveSignal(maxOrderCandidates(line, product, pack)...)
	aggregate, hasAggregate := resolveSignal(
		product.AvailableQuantity, product.AvailableStock,
		product.TotalStock, product.Stock, product.Quantity,
	)

	var packStockCandidates []model.Scalar
	if pack != nil {
		packStockCandidates = append(packStockCandidates,
			pack.Stock, pack.Quantity, pack.AvailableQuantity, pack.AvailableStock)
	}
	packStockCandidates = append(packStockCandidates, line.AvailableQuantity, line.Stock)
	packStock, hasPackStock := resolveSignal(packStockCandidates...)

	av := Availability{}
	if hasMaxOrder {
		av.Ceiling = maxOrder
		av.HasCeiling = true
	}
	if hasAggregate && (!av.HasCeiling || aggregate < av.Ceiling) {
		av.Ceiling = aggregate
		av.HasCeiling = true
	}
	if hasPackStock && (!av.HasCeiling || packStock < av.Ceiling) {
		av.Ceiling = packStock
		av.HasCeiling = true
	}

	if (hasMaxOrder && maxOrder == 0) || (av.HasCeiling && av.Ceiling == 0) {
		av.OutOfStock = true
	}
	return av
}

func maxOrderCandidates(line *model.CartLine, product *model.Product, pack *model.PackSize) []model.Scalar {
	var out []model.Scalar
	if pack != nil {
		out = append(out, pack.MaxOrderQuantity, pack.MaxQty, pack.Limit)
	}
	out = append(out,
		product.MaxOrderQuantity, product.MaximumOrderQuantity, product.MaxOrderQty,
		product.MaxQty, product.PurchaseLimit, product.OrderLimit, product.LimitPerCustomer,
	)
	out = append(out, line.MaxOrderQuantity, line.MaxQty, line.Limit)
	return out
}

// resolveSignal returns the first present candidate, with negative values
// normalized to an explicit zero (a hard stop, not an absence).
func resolveSignal(candidates ...model.Scalar) (int, bool) {
	for _, c := range candidates {
		if !c.Valid {
			continue
		}
		if c.Value < 0 {
			return 0, true
		}
		return int(c.Value), true
	}
	return 0, false
}
