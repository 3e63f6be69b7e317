package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

func snapshot(price float64) ProductSnapshot {
	return ProductSnapshot{
		ID:        uuid.New(),
		SKU:       "SKU-1",
		Name:      "Burger",
		UnitPrice: types.MoneyFromFloat(price),
	}
}

func modifier(name string, adj float64) types.ModifierSelection {
	return types.ModifierSelection{
		GroupID:         uuid.New(),
		GroupName:       "Options",
		ModifierID:      uuid.New(),
		ModifierName:    name,
		PriceAdjustment: types.MoneyFromFloat(adj),
		Quantity:        1,
	}
}

func addon(name string, price float64, qty int) types.AddonSelection {
	return types.AddonSelection{
		AddonID:   uuid.New(),
		Name:      name,
		UnitPrice: types.MoneyFromFloat(price),
		Quantity:  qty,
	}
}

// lineInvariant recomputes the expected amount from scratch and compares.
func lineInvariant(t *testing.T, line *LineItem) {
	t.Helper()
	expected := LineAmount(line.Product.UnitPrice, line.Quantity, line.Modifiers, line.Addons)
	assert.True(t, line.Amount.Equal(expected),
		"amount %s != recomputed %s", line.Amount, expected)
}

func TestAddItemSubtotalAndCount(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 2, nil, nil)

	assert.True(t, c.Subtotal().Equal(types.MoneyFromFloat(20)))
	assert.Equal(t, 2, c.ItemCount())
	assert.False(t, c.IsEmpty())
}

func TestAddItemMergesIdenticalConfiguration(t *testing.T) {
	c := New()
	p := snapshot(4)

	first := c.AddItem(p, 2, nil, nil)
	second := c.AddItem(p, 3, nil, nil)

	require.Equal(t, first, second)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].Amount.Equal(types.MoneyFromFloat(20)))
}

func TestAddItemDistinctModifiersSplitLines(t *testing.T) {
	c := New()
	p := snapshot(4)

	first := c.AddItem(p, 1, []types.ModifierSelection{modifier("Oat", 0.75)}, nil)
	second := c.AddItem(p, 1, []types.ModifierSelection{modifier("Soy", 0.50)}, nil)

	require.NotEqual(t, first, second)
	require.Len(t, c.Lines, 2)
}

func TestAddItemClampsQuantityToOne(t *testing.T) {
	c := New()
	c.AddItem(snapshot(4), 0, nil, nil)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestAddAddonRecomputesAmount(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 2, nil, nil)

	c.AddAddon(lineID, addon("Fries", 2, 1))

	line := c.Item(lineID)
	require.NotNil(t, line)
	assert.True(t, line.Amount.Equal(types.MoneyFromFloat(22)))
	lineInvariant(t, line)
}

func TestAddAddonMergesByID(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 1, nil, nil)

	fries := addon("Fries", 2, 1)
	c.AddAddon(lineID, fries)
	c.AddAddon(lineID, fries)

	line := c.Item(lineID)
	require.Len(t, line.Addons, 1)
	assert.Equal(t, 2, line.Addons[0].Quantity)
	lineInvariant(t, line)
}

func TestAddAddonIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 1, nil, nil)

	c.AddAddon(lineID, addon("Fries", 2, 0))
	c.AddAddon(lineID, addon("Fries", 2, -1))

	require.Empty(t, c.Item(lineID).Addons)
}

func TestRemoveAddon(t *testing.T) {
	c := New()
	fries := addon("Fries", 2, 1)
	lineID := c.AddItem(snapshot(10), 1, nil, []types.AddonSelection{fries})

	c.RemoveAddon(lineID, fries.AddonID)

	line := c.Item(lineID)
	require.Empty(t, line.Addons)
	assert.True(t, line.Amount.Equal(types.MoneyFromFloat(10)))
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 2, nil, nil)

	c.UpdateQuantity(lineID, 0)

	assert.Nil(t, c.Item(lineID))
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityRescalesAddons(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 1, nil, []types.AddonSelection{addon("Fries", 2, 2)})

	c.UpdateQuantity(lineID, 3)

	line := c.Item(lineID)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 6, line.Addons[0].Quantity)
	lineInvariant(t, line)
}

func TestUpdateQuantityRescaleIsLossy(t *testing.T) {
	// The rescale rounds at every step, so round trips are not guaranteed:
	// qty 3 -> 1 rounds the single addon down to zero, and scaling back up
	// cannot recover it.
	c := New()
	lineID := c.AddItem(snapshot(10), 3, nil, []types.AddonSelection{addon("Fries", 2, 1)})

	c.UpdateQuantity(lineID, 1)
	line := c.Item(lineID)
	assert.Equal(t, 0, line.Addons[0].Quantity) // round(1 * 1/3)

	c.UpdateQuantity(lineID, 3)
	assert.Equal(t, 0, line.Addons[0].Quantity)
	lineInvariant(t, line)
}

func TestLineIDStableAcrossRescale(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 1, nil, []types.AddonSelection{addon("Fries", 2, 1)})

	c.UpdateQuantity(lineID, 4)

	// addon quantity changed but the line keeps its identity
	require.NotNil(t, c.Item(lineID))
	assert.Equal(t, lineID, c.Lines[0].LineID)
}

func TestUnknownLineIDsAreNoOps(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 1, nil, nil)
	before := c.Snapshot()

	c.RemoveItem("missing")
	c.UpdateQuantity("missing", 5)
	c.AddAddon("missing", addon("Fries", 2, 1))
	c.RemoveAddon("missing", uuid.New())
	c.SetModifiers("missing", nil)

	assert.Equal(t, before, c.Snapshot())
}

func TestSetModifiersReplacesWholesale(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 2, []types.ModifierSelection{modifier("Oat", 0.75)}, nil)

	replacement := []types.ModifierSelection{modifier("Decaf", 0), modifier("Extra Hot", 0)}
	c.SetModifiers(lineID, replacement)

	line := c.Item(lineID)
	require.Len(t, line.Modifiers, 2)
	assert.True(t, line.Amount.Equal(types.MoneyFromFloat(20)))
	lineInvariant(t, line)
}

func TestNegativeModifierCanPushAmountBelowZero(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(1), 1, []types.ModifierSelection{modifier("Comp", -5)}, nil)

	line := c.Item(lineID)
	assert.True(t, line.Amount.Equal(types.MoneyFromFloat(-4)))
}

func TestAmountInvariantAfterMutationStorm(t *testing.T) {
	c := New()
	p := snapshot(7.35)
	fries := addon("Fries", 2.25, 1)
	lineID := c.AddItem(p, 1, []types.ModifierSelection{modifier("Large", 1.50)}, []types.AddonSelection{fries})

	c.UpdateQuantity(lineID, 4)
	c.AddAddon(lineID, addon("Slaw", 1.10, 2))
	c.UpdateQuantity(lineID, 2)
	c.SetModifiers(lineID, []types.ModifierSelection{modifier("Small", -0.50)})
	c.RemoveAddon(lineID, fries.AddonID)
	c.UpdateQuantity(lineID, 5)

	line := c.Item(lineID)
	require.NotNil(t, line)
	lineInvariant(t, line)
}

func TestClearResetsEverything(t *testing.T) {
	c := New()
	c.AddItem(snapshot(10), 1, nil, nil)
	c.SetCustomer("Walk-in")
	c.SetNotes("no onions")

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.CustomerName)
	assert.Empty(t, c.Notes)
	assert.True(t, c.Subtotal().Equal(types.ZeroMoney()))
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := New()
	lineID := c.AddItem(snapshot(10), 1, nil, []types.AddonSelection{addon("Fries", 2, 1)})

	snap := c.Snapshot()
	c.AddAddon(lineID, addon("Slaw", 1, 1))
	c.Item(lineID).Addons[0].Quantity = 99

	require.Len(t, snap.Lines[0].Addons, 1)
	assert.Equal(t, 1, snap.Lines[0].Addons[0].Quantity)
}
