package modifiers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type fixture struct {
	svc     Service
	db      *gorm.DB
	product *models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	product := &models.Product{
		SKU:      "LATTE-01",
		Name:     "Latte",
		Category: enums.ProductCategoryBeverage,
		Price:    types.MoneyFromFloat(5.00),
		IsActive: true,
	}
	require.NoError(t, conn.Create(product).Error)
	return &fixture{svc: svc, db: conn, product: product}
}

func (f *fixture) mustCreateGroup(t *testing.T, input CreateGroupInput) *models.ModifierGroup {
	t.Helper()
	input.ProductID = f.product.ID
	group, err := f.svc.CreateGroup(context.Background(), input)
	require.NoError(t, err)
	return group
}

func (f *fixture) mustCreateModifier(t *testing.T, groupID uuid.UUID, name string, adj float64) *models.Modifier {
	t.Helper()
	mod, err := f.svc.CreateModifier(context.Background(), CreateModifierInput{
		GroupID:         groupID,
		Name:            name,
		PriceAdjustment: types.MoneyFromFloat(adj),
	})
	require.NoError(t, err)
	return mod
}

func TestCreateGroupValidatesBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateGroup(context.Background(), CreateGroupInput{
		ProductID: f.product.ID,
		Name:      "Size",
		MinSelect: 2,
		MaxSelect: 1,
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = f.svc.CreateGroup(context.Background(), CreateGroupInput{
		ProductID:   f.product.ID,
		Name:        "Size",
		MultiSelect: false,
		MaxSelect:   3,
	})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveSelectionsSnapshotsPricing(t *testing.T) {
	f := newFixture(t)
	group := f.mustCreateGroup(t, CreateGroupInput{Name: "Milk", MaxSelect: 1})
	oat := f.mustCreateModifier(t, group.ID, "Oat", 0.75)

	mods, addons, err := f.svc.ResolveSelections(context.Background(), f.product.ID, SelectionInput{
		ModifierIDs: []uuid.UUID{oat.ID},
	})
	require.NoError(t, err)
	require.Empty(t, addons)
	require.Len(t, mods, 1)
	require.Equal(t, "Milk", mods[0].GroupName)
	require.Equal(t, "Oat", mods[0].ModifierName)
	require.True(t, mods[0].PriceAdjustment.Equal(types.MoneyFromFloat(0.75)))
}

func TestResolveSelectionsEnforcesRequired(t *testing.T) {
	f := newFixture(t)
	group := f.mustCreateGroup(t, CreateGroupInput{Name: "Size", Required: true, MaxSelect: 1})
	f.mustCreateModifier(t, group.ID, "Small", 0)

	_, _, err := f.svc.ResolveSelections(context.Background(), f.product.ID, SelectionInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveSelectionsEnforcesMax(t *testing.T) {
	f := newFixture(t)
	group := f.mustCreateGroup(t, CreateGroupInput{Name: "Syrup", MultiSelect: true, MaxSelect: 1})
	vanilla := f.mustCreateModifier(t, group.ID, "Vanilla", 0.50)
	caramel := f.mustCreateModifier(t, group.ID, "Caramel", 0.50)

	_, _, err := f.svc.ResolveSelections(context.Background(), f.product.ID, SelectionInput{
		ModifierIDs: []uuid.UUID{vanilla.ID, caramel.ID},
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveSelectionsRejectsForeignModifier(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.ResolveSelections(context.Background(), f.product.ID, SelectionInput{
		ModifierIDs: []uuid.UUID{uuid.New()},
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestResolveSelectionsIncludesStorewideAddons(t *testing.T) {
	f := newFixture(t)

	scoped, err := f.svc.CreateAddon(context.Background(), CreateAddonInput{
		ProductID: &f.product.ID,
		Name:      "Extra Shot",
		UnitPrice: types.MoneyFromFloat(1.00),
		IsActive:  true,
	})
	require.NoError(t, err)

	storewide, err := f.svc.CreateAddon(context.Background(), CreateAddonInput{
		Name:      "Cookie",
		UnitPrice: types.MoneyFromFloat(2.50),
		IsActive:  true,
	})
	require.NoError(t, err)

	_, addons, err := f.svc.ResolveSelections(context.Background(), f.product.ID, SelectionInput{
		Addons: []AddonChoice{
			{AddonID: scoped.ID, Quantity: 2},
			{AddonID: storewide.ID, Quantity: 1},
			{AddonID: scoped.ID, Quantity: 0},
		},
	})
	require.NoError(t, err)
	require.Len(t, addons, 2)
	require.Equal(t, 2, addons[0].Quantity)
	require.True(t, addons[1].UnitPrice.Equal(types.MoneyFromFloat(2.50)))
}

func TestDeleteGroupNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.DeleteGroup(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestResolveAddonSkipsGroupRules(t *testing.T) {
	f := newFixture(t)

	// a required group must not block attaching an addon to an existing line
	group := f.mustCreateGroup(t, CreateGroupInput{Name: "Size", Required: true})
	f.mustCreateModifier(t, group.ID, "Small", 0)

	addon, err := f.svc.CreateAddon(context.Background(), CreateAddonInput{
		ProductID: &f.product.ID,
		Name:      "Extra Shot",
		UnitPrice: types.MoneyFromFloat(1.00),
		IsActive:  true,
	})
	require.NoError(t, err)

	resolved, err := f.svc.ResolveAddon(context.Background(), f.product.ID, AddonChoice{AddonID: addon.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "Extra Shot", resolved.Name)
	require.Equal(t, 2, resolved.Quantity)
	require.True(t, resolved.UnitPrice.Equal(types.MoneyFromFloat(1.00)))
}

func TestResolveAddonRejectsUnknownAndNonPositive(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ResolveAddon(context.Background(), f.product.ID, AddonChoice{AddonID: uuid.New(), Quantity: 1})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	addon, err := f.svc.CreateAddon(context.Background(), CreateAddonInput{
		Name:      "Cookie",
		UnitPrice: types.MoneyFromFloat(2.50),
		IsActive:  true,
	})
	require.NoError(t, err)

	_, err = f.svc.ResolveAddon(context.Background(), f.product.ID, AddonChoice{AddonID: addon.ID, Quantity: 0})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
