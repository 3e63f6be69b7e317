package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 is exactly 0.3 in decimal space
	sum := MoneyFromFloat(0.1).Add(MoneyFromFloat(0.2))
	assert.True(t, sum.Equal(MoneyFromFloat(0.3)), "got %s", sum)

	total := MoneyFromFloat(7.35).MulInt(3)
	assert.True(t, total.Equal(MoneyFromFloat(22.05)))
}

func TestMoneyMulRate(t *testing.T) {
	tax := MoneyFromFloat(100).MulRate(8.5)
	assert.True(t, tax.Equal(MoneyFromFloat(8.50)), "got %s", tax)

	zero := MoneyFromFloat(100).MulRate(0)
	assert.True(t, zero.Equal(ZeroMoney()))
}

func TestMoneyRoundsOnlyAtEdges(t *testing.T) {
	// a third of a dollar stays unrounded internally
	third, err := MoneyFromString("0.333333")
	require.NoError(t, err)

	tripled := third.MulInt(3)
	assert.Equal(t, "1.00", tripled.String())
	// the internal value is still 0.999999, not a rounded dollar
	assert.False(t, tripled.Equal(MoneyFromFloat(1)))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(MoneyFromFloat(12.5))
	require.NoError(t, err)
	assert.Equal(t, `"12.50"`, string(raw))

	var fromString Money
	require.NoError(t, json.Unmarshal([]byte(`"3.75"`), &fromString))
	assert.True(t, fromString.Equal(MoneyFromFloat(3.75)))

	var fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`4.2`), &fromNumber))
	assert.True(t, fromNumber.Equal(MoneyFromFloat(4.2)))
}

func TestMoneyNegativeValues(t *testing.T) {
	comp := MoneyFromFloat(-5)
	assert.True(t, comp.IsNegative())
	assert.True(t, comp.Neg().Equal(MoneyFromFloat(5)))
	assert.Equal(t, "-5.00", comp.String())
}
