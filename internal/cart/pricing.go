package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// LineAmount computes a line's full amount from scratch:
//
//	unit price * qty + Σ addon price * addon qty + Σ modifier adjustment * qty
//
// Modifier adjustments are per unit and scale with line quantity; addon totals
// depend only on the addon's own quantity. Amounts are never patched
// incrementally; every mutation recomputes from scratch. Negative modifier
// adjustments can push the amount below zero and the result is not clamped.
func LineAmount(unitPrice types.Money, quantity int, modifiers types.ModifierSelections, addons types.AddonSelections) types.Money {
	amount := unitPrice.MulInt(quantity)
	for _, addon := range addons {
		amount = amount.Add(addon.UnitPrice.MulInt(addon.Quantity))
	}
	adjustment := types.ZeroMoney()
	for _, modifier := range modifiers {
		adjustment = adjustment.Add(modifier.PriceAdjustment)
	}
	return amount.Add(adjustment.MulInt(quantity))
}

// TotalsOptions carries the register-supplied discount, tax, and tip inputs.
// DiscountAmount, when set, wins over DiscountPercent.
type TotalsOptions struct {
	TaxRate         float64
	DiscountPercent float64
	DiscountAmount  *types.Money
	Tip             types.Money
}

// Totals is the derived order summary. Invariant:
// Total == (Subtotal - Discount) + Tax + Tip.
type Totals struct {
	Subtotal        types.Money `json:"subtotal"`
	Discount        types.Money `json:"discount"`
	DiscountPercent float64     `json:"discount_percent"`
	Tax             types.Money `json:"tax"`
	TaxRate         float64     `json:"tax_rate"`
	Tip             types.Money `json:"tip"`
	Total           types.Money `json:"total"`
}

// ComputeTotals aggregates the line amounts into order totals. A fixed
// discount amount is clamped to [0, subtotal] and the equivalent percentage is
// back-computed; a percentage discount is applied as-is. Tax applies to the
// discounted subtotal.
func ComputeTotals(lines []LineItem, opts TotalsOptions) Totals {
	subtotal := types.ZeroMoney()
	for _, line := range lines {
		subtotal = subtotal.Add(line.Amount)
	}

	var discount types.Money
	discountPercent := opts.DiscountPercent
	if opts.DiscountAmount != nil {
		discount = *opts.DiscountAmount
		if discount.IsNegative() {
			discount = types.ZeroMoney()
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		if subtotal.IsZero() {
			discountPercent = 0
		} else {
			discountPercent = discount.Decimal.
				Div(subtotal.Decimal).
				Mul(decimal.NewFromInt(100)).
				InexactFloat64()
		}
	} else if discountPercent != 0 {
		discount = subtotal.MulRate(discountPercent)
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.MulRate(opts.TaxRate)
	total := taxable.Add(tax).Add(opts.Tip)

	return Totals{
		Subtotal:        subtotal,
		Discount:        discount,
		DiscountPercent: discountPercent,
		Tax:             tax,
		TaxRate:         opts.TaxRate,
		Tip:             opts.Tip,
		Total:           total,
	}
}
