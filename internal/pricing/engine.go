package pricing

// Money represents a monetary value stored in USD minor units (cents).
type Money = int64

// Item describes a resolved cart line used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// Summary aggregates computed pricing components for an order.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	Discount Money `json:"discount"`
	Shipping Money `json:"shipping"`
	Total    Money `json:"total"`
}

// Subtotal sums line totals, skipping non-positive quantities.
func Subtotal(items []Item) Money {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	return subtotal
}

// ShippingFee applies the flat-rate shipping policy: the flat fee when the
// order carries value, zero for an empty order.
func ShippingFee(subtotal, flatRate Money) Money {
	if subtotal <= 0 || flatRate < 0 {
		return 0
	}
	return flatRate
}

// Compute assembles the order summary from resolved items, a discount, and
// the effective shipping fee. The discount is clamped to [0, subtotal] so
// the total can never go negative.
func Compute(items []Item, discount, shipping Money) Summary {
	subtotal := Subtotal(items)
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	if shipping < 0 {
		shipping = 0
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal - discount + shipping,
	}
}
