package checkout

// CartLine is a read-only snapshot of one cart entry. The cart itself is
// owned by the storefront; the checkout flow only derives totals from it.
type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Qty       int    `json:"qty"`
}

// Summary is the projection shown on both the cart and the checkout views.
type Summary struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Summarize derives subtotal and total from the cart lines. Pure, no side
// effects; must be recomputed whenever the cart changes.
func Summarize(lines []CartLine, shippingFee int64) Summary {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Qty)
	}
	return Summary{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Total:    subtotal + shippingFee,
	}
}

// NormalizeCart drops lines with a non-positive quantity. A quantity of zero
// means the line was removed by the cart owner.
func NormalizeCart(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Qty >= 1 {
			out = append(out, l)
		}
	}
	return out
}
