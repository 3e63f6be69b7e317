package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

func TestLineAmountComponents(t *testing.T) {
	// 10*2 + (2*1 + 1*3) + (0.75 - 0.25)*2 = 26
	amount := LineAmount(
		types.MoneyFromFloat(10), 2,
		types.ModifierSelections{
			{PriceAdjustment: types.MoneyFromFloat(0.75)},
			{PriceAdjustment: types.MoneyFromFloat(-0.25)},
		},
		types.AddonSelections{
			{UnitPrice: types.MoneyFromFloat(2), Quantity: 1},
			{UnitPrice: types.MoneyFromFloat(1), Quantity: 3},
		},
	)
	assert.True(t, amount.Equal(types.MoneyFromFloat(26)), "got %s", amount)
}

func TestComputeTotalsFixedDiscount(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 2, nil, nil)

	five := types.MoneyFromFloat(5)
	totals := ComputeTotals(c.Lines, TotalsOptions{DiscountAmount: &five})

	assert.True(t, totals.Subtotal.Equal(types.MoneyFromFloat(20)))
	assert.True(t, totals.Discount.Equal(five))
	assert.InDelta(t, 25, totals.DiscountPercent, 0.0001)
	assert.True(t, totals.Total.Equal(types.MoneyFromFloat(15)))
}

func TestComputeTotalsTaxAndTip(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 2, nil, nil)

	five := types.MoneyFromFloat(5)
	totals := ComputeTotals(c.Lines, TotalsOptions{
		DiscountAmount: &five,
		TaxRate:        10,
		Tip:            types.MoneyFromFloat(2),
	})

	assert.True(t, totals.Tax.Equal(types.MoneyFromFloat(1.5)), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(types.MoneyFromFloat(18.5)), "total %s", totals.Total)
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	c := New()
	c.AddItem(snapshot(40), 1, nil, nil)

	totals := ComputeTotals(c.Lines, TotalsOptions{DiscountPercent: 25})

	assert.True(t, totals.Discount.Equal(types.MoneyFromFloat(10)))
	assert.Equal(t, 25.0, totals.DiscountPercent)
	assert.True(t, totals.Total.Equal(types.MoneyFromFloat(30)))
}

func TestComputeTotalsClampsFixedDiscount(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 1, nil, nil)

	over := types.MoneyFromFloat(50)
	totals := ComputeTotals(c.Lines, TotalsOptions{DiscountAmount: &over})
	assert.True(t, totals.Discount.Equal(types.MoneyFromFloat(10)))
	assert.InDelta(t, 100, totals.DiscountPercent, 0.0001)
	assert.True(t, totals.Total.Equal(types.ZeroMoney()))

	negative := types.MoneyFromFloat(-5)
	totals = ComputeTotals(c.Lines, TotalsOptions{DiscountAmount: &negative})
	assert.True(t, totals.Discount.Equal(types.ZeroMoney()))
	assert.Equal(t, 0.0, totals.DiscountPercent)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	five := types.MoneyFromFloat(5)
	totals := ComputeTotals(nil, TotalsOptions{DiscountAmount: &five, TaxRate: 10})

	assert.True(t, totals.Subtotal.Equal(types.ZeroMoney()))
	assert.True(t, totals.Discount.Equal(types.ZeroMoney()))
	assert.Equal(t, 0.0, totals.DiscountPercent)
	assert.True(t, totals.Total.Equal(types.ZeroMoney()))
}

// total == (subtotal - discount) + tax + tip must hold for any parameters.
func TestComputeTotalsIdentity(t *testing.T) {
	c := New()
	c.AddItem(snapshot(7.35), 3,
		[]types.ModifierSelection{modifier("Large", 1.50)},
		[]types.AddonSelection{addon("Fries", 2.25, 2)})
	c.AddItem(snapshot(12.80), 1, nil, nil)

	amounts := []*types.Money{nil}
	for _, v := range []float64{0, 3, 12.345, 500} {
		m := types.MoneyFromFloat(v)
		amounts = append(amounts, &m)
	}

	for _, discountAmount := range amounts {
		for _, percent := range []float64{0, 7.5, 100} {
			for _, taxRate := range []float64{0, 8.25, 20} {
				for _, tip := range []float64{0, 1.99} {
					totals := ComputeTotals(c.Lines, TotalsOptions{
						TaxRate:         taxRate,
						DiscountPercent: percent,
						DiscountAmount:  discountAmount,
						Tip:             types.MoneyFromFloat(tip),
					})
					expected := totals.Subtotal.Sub(totals.Discount).Add(totals.Tax).Add(totals.Tip)
					require.True(t, totals.Total.Equal(expected),
						"identity broken: total %s != %s", totals.Total, expected)
					require.False(t, totals.Discount.GreaterThan(totals.Subtotal))
				}
			}
		}
	}
}
