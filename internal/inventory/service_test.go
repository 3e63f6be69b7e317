package inventory

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), logg)
	require.NoError(t, err)
	return svc, conn
}

func TestCreateAndAdjust(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{
		Name:              "Oat Milk",
		Unit:              "l",
		QuantityOnHand:    decimal.NewFromInt(10),
		LowStockThreshold: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	updated, err := svc.Adjust(ctx, item.ID, decimal.NewFromInt(-3), "spillage")
	require.NoError(t, err)
	require.True(t, updated.QuantityOnHand.Equal(decimal.NewFromInt(7)))

	history, err := svc.History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "spillage", history[0].Reason)
	require.True(t, history[0].Delta.Equal(decimal.NewFromInt(-3)))
}

func TestAdjustValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{Name: "Beans", QuantityOnHand: decimal.NewFromInt(5)})
	require.NoError(t, err)

	var appErr *pkgerrors.Error

	_, err = svc.Adjust(ctx, item.ID, decimal.Zero, "noop")
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Adjust(ctx, item.ID, decimal.NewFromInt(1), "  ")
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.Adjust(ctx, uuid.New(), decimal.NewFromInt(1), "recount")
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAdjustAllowsNegativeStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemInput{Name: "Cups", QuantityOnHand: decimal.NewFromInt(1)})
	require.NoError(t, err)

	updated, err := svc.Adjust(ctx, item.ID, decimal.NewFromInt(-5), "recount")
	require.NoError(t, err)
	require.True(t, updated.QuantityOnHand.Equal(decimal.NewFromInt(-4)))
}

func TestListLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreateItemInput{
		Name:              "Plenty",
		QuantityOnHand:    decimal.NewFromInt(100),
		LowStockThreshold: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	low, err := svc.CreateItem(ctx, CreateItemInput{
		Name:              "Scarce",
		QuantityOnHand:    decimal.NewFromInt(2),
		LowStockThreshold: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	items, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, low.ID, items[0].ID)
}

func TestDeductForOrder(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	milk, err := svc.CreateItem(ctx, CreateItemInput{Name: "Milk", QuantityOnHand: decimal.NewFromInt(10)})
	require.NoError(t, err)
	beans, err := svc.CreateItem(ctx, CreateItemInput{Name: "Beans", QuantityOnHand: decimal.NewFromInt(10)})
	require.NoError(t, err)

	err = conn.Transaction(func(tx *gorm.DB) error {
		return svc.DeductForOrder(ctx, tx, []Deduction{
			{ItemID: milk.ID, Quantity: decimal.NewFromInt(2)},
			{ItemID: beans.ID, Quantity: decimal.NewFromInt(1)},
			{ItemID: beans.ID, Quantity: decimal.Zero},
		}, "POS-00042")
	})
	require.NoError(t, err)

	got, err := svc.GetItem(ctx, milk.ID)
	require.NoError(t, err)
	require.True(t, got.QuantityOnHand.Equal(decimal.NewFromInt(8)))

	history, err := svc.History(ctx, milk.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "order", history[0].Reason)
	require.NotNil(t, history[0].OrderNo)
	require.Equal(t, "POS-00042", *history[0].OrderNo)
}

func TestDeductForOrderRollsBackOnUnknownItem(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	milk, err := svc.CreateItem(ctx, CreateItemInput{Name: "Milk", QuantityOnHand: decimal.NewFromInt(10)})
	require.NoError(t, err)

	err = conn.Transaction(func(tx *gorm.DB) error {
		return svc.DeductForOrder(ctx, tx, []Deduction{
			{ItemID: milk.ID, Quantity: decimal.NewFromInt(2)},
			{ItemID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		}, "POS-00043")
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	got, err := svc.GetItem(ctx, milk.ID)
	require.NoError(t, err)
	require.True(t, got.QuantityOnHand.Equal(decimal.NewFromInt(10)))
}
