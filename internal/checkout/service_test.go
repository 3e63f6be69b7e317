package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/internal/cart"
	"github.com/tavolopos/tavolo-backend/internal/catalog"
	"github.com/tavolopos/tavolo-backend/internal/inventory"
	"github.com/tavolopos/tavolo-backend/internal/orders"
	"github.com/tavolopos/tavolo-backend/pkg/config"
	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type fakeSessions struct {
	carts   map[string]*cart.Cart
	cleared []string
}

func (f *fakeSessions) Load(_ context.Context, sessionID string) (*cart.Cart, error) {
	if c, ok := f.carts[sessionID]; ok {
		return c, nil
	}
	return cart.New(), nil
}

func (f *fakeSessions) Clear(_ context.Context, sessionID string) error {
	delete(f.carts, sessionID)
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeSequence struct {
	n int64
}

func (f *fakeSequence) Incr(context.Context, string) (int64, error) {
	f.n++
	return f.n, nil
}

type harness struct {
	svc       Service
	conn      *gorm.DB
	sessions  *fakeSessions
	inventory inventory.Service
	product   *models.Product
	milk      *models.InventoryItem
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := openTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	invSvc, err := inventory.NewService(inventory.NewRepository(conn), logg)
	require.NoError(t, err)

	milk, err := invSvc.CreateItem(context.Background(), inventory.CreateItemInput{
		Name:           "Milk",
		QuantityOnHand: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	product := &models.Product{
		SKU:          "LATTE-01",
		Name:         "Latte",
		Category:     enums.ProductCategoryBeverage,
		Price:        types.MoneyFromFloat(5.00),
		IsActive:     true,
		InventoryRef: &milk.ID,
	}
	require.NoError(t, conn.Create(product).Error)

	sessions := &fakeSessions{carts: map[string]*cart.Cart{}}
	svc, err := NewService(
		sessions,
		&gormTxRunner{db: conn},
		orders.NewRepository(conn),
		catalog.NewRepository(conn),
		invSvc,
		&fakeSequence{},
		config.CheckoutConfig{DefaultTaxRate: 10, OrderNoPrefix: "POS"},
		logg,
	)
	require.NoError(t, err)

	return &harness{svc: svc, conn: conn, sessions: sessions, inventory: invSvc, product: product, milk: milk}
}

func (h *harness) seedCart(sessionID string, quantity int) {
	c := cart.New()
	c.AddItem(cart.ProductSnapshot{
		ID:        h.product.ID,
		SKU:       h.product.SKU,
		Name:      h.product.Name,
		UnitPrice: h.product.Price,
	}, quantity, nil, nil)
	c.SetCustomer("Walk-in")
	h.sessions.carts[sessionID] = c
}

func TestQuote(t *testing.T) {
	h := newHarness(t)
	h.seedCart("reg-1", 2)

	totals, err := h.svc.Quote(context.Background(), "reg-1", PlaceOrderInput{})
	require.NoError(t, err)
	require.True(t, totals.Subtotal.Equal(types.MoneyFromFloat(10.00)))
	require.True(t, totals.Tax.Equal(types.MoneyFromFloat(1.00)))
	require.True(t, totals.Total.Equal(types.MoneyFromFloat(11.00)))
}

func TestPlaceOrderPersistsAndClearsSession(t *testing.T) {
	h := newHarness(t)
	h.seedCart("reg-1", 2)

	dto, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{
		Tip:           types.MoneyFromFloat(1.50),
		PaymentMethod: enums.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.Equal(t, "POS-00001", dto.OrderNo)
	require.Equal(t, "open", dto.Status)
	require.Equal(t, "Walk-in", dto.CustomerName)
	require.True(t, dto.Subtotal.Equal(types.MoneyFromFloat(10.00)))
	require.True(t, dto.Total.Equal(types.MoneyFromFloat(12.50)))
	require.Len(t, dto.Lines, 1)
	require.Equal(t, 2, dto.Lines[0].Quantity)

	// session cleared
	require.Contains(t, h.sessions.cleared, "reg-1")

	// stock deducted with an audit row pointing at the order
	item, err := h.inventory.GetItem(context.Background(), h.milk.ID)
	require.NoError(t, err)
	require.True(t, item.QuantityOnHand.Equal(decimal.NewFromInt(48)))

	history, err := h.inventory.History(context.Background(), h.milk.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].OrderNo)
	require.Equal(t, "POS-00001", *history[0].OrderNo)
}

func TestPlaceOrderSequencesOrderNumbers(t *testing.T) {
	h := newHarness(t)

	h.seedCart("reg-1", 1)
	first, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{})
	require.NoError(t, err)

	h.seedCart("reg-1", 1)
	second, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{})
	require.NoError(t, err)

	require.Equal(t, "POS-00001", first.OrderNo)
	require.Equal(t, "POS-00002", second.OrderNo)
}

func TestPlaceOrderRejectsStaleExpectedTotal(t *testing.T) {
	h := newHarness(t)
	h.seedCart("reg-1", 2)

	stale := types.MoneyFromFloat(9.99)
	_, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{
		ExpectedTotal: &stale,
	})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	// matching total goes through
	expected := types.MoneyFromFloat(11.00)
	dto, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{
		ExpectedTotal: &expected,
	})
	require.NoError(t, err)
	require.True(t, dto.Total.Equal(expected))
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.PlaceOrder(context.Background(), "reg-empty", PlaceOrderInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())
}

func TestPlaceOrderFixedDiscountClamped(t *testing.T) {
	h := newHarness(t)
	h.seedCart("reg-1", 1)

	tooBig := types.MoneyFromFloat(100)
	zeroTax := 0.0
	dto, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{
		TaxRate:        &zeroTax,
		DiscountAmount: &tooBig,
	})
	require.NoError(t, err)
	require.True(t, dto.Discount.Equal(types.MoneyFromFloat(5.00)))
	require.True(t, dto.Total.Equal(types.ZeroMoney()))
	require.InDelta(t, 100, dto.DiscountPercent, 0.0001)
}

func TestPlaceOrderRollsBackWhenDeductionFails(t *testing.T) {
	h := newHarness(t)

	// point the product at a missing inventory item
	ghost := uuid.New()
	require.NoError(t, h.conn.Model(h.product).Update("inventory_ref", ghost).Error)
	h.seedCart("reg-1", 1)

	_, err := h.svc.PlaceOrder(context.Background(), "reg-1", PlaceOrderInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	var count int64
	require.NoError(t, h.conn.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)

	// session untouched on failure
	require.NotContains(t, h.sessions.cleared, "reg-1")
}
