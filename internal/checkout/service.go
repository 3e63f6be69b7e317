package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/internal/cart"
	"github.com/tavolopos/tavolo-backend/internal/inventory"
	"github.com/tavolopos/tavolo-backend/internal/orders"
	"github.com/tavolopos/tavolo-backend/pkg/config"
	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type sessionStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryDeducter interface {
	DeductForOrder(ctx context.Context, tx *gorm.DB, deductions []inventory.Deduction, orderNo string) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type sequence interface {
	Incr(ctx context.Context, key string) (int64, error)
}

const orderSeqKey = "tavolo:order_no:seq"

// Service turns an open cart session into a persisted order.
type Service interface {
	Quote(ctx context.Context, sessionID string, input PlaceOrderInput) (*cart.Totals, error)
	PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (*orders.OrderDTO, error)
}

// PlaceOrderInput carries the register-supplied pricing inputs at checkout.
// ExpectedTotal, when set, is the total the register displayed; a mismatch
// against the recomputed total aborts the order.
type PlaceOrderInput struct {
	TaxRate         *float64
	DiscountPercent float64
	DiscountAmount  *types.Money
	Tip             types.Money
	PaymentMethod   enums.PaymentMethod
	ExpectedTotal   *types.Money
}

type service struct {
	sessions  sessionStore
	ordersTx  txRunner
	orderRepo *orders.Repository
	products  productLoader
	inventory inventoryDeducter
	seq       sequence
	cfg       config.CheckoutConfig
	logg      *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(
	sessions sessionStore,
	tx txRunner,
	orderRepo *orders.Repository,
	products productLoader,
	inv inventoryDeducter,
	seq sequence,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory deducter required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:  sessions,
		ordersTx:  tx,
		orderRepo: orderRepo,
		products:  products,
		inventory: inv,
		seq:       seq,
		cfg:       cfg,
		logg:      logg,
	}, nil
}

// Quote recomputes the totals for the session without placing an order.
func (s *service) Quote(ctx context.Context, sessionID string, input PlaceOrderInput) (*cart.Totals, error) {
	snapshot, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	totals := cart.ComputeTotals(snapshot.Lines, s.totalsOptions(input))
	return &totals, nil
}

// PlaceOrder freezes the session's cart into an order: totals are recomputed
// from the line snapshots, the order and its lines are persisted, stock is
// deducted, and the session is cleared. Everything up to the session clear
// runs in one transaction.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	snapshot, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	totals := cart.ComputeTotals(snapshot.Lines, s.totalsOptions(input))
	if input.ExpectedTotal != nil && totals.Total.String() != input.ExpectedTotal.String() {
		// Compared at display precision; the register shows two decimals.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart total changed").
			WithDetails(map[string]string{
				"expected": input.ExpectedTotal.String(),
				"computed": totals.Total.String(),
			})
	}

	orderNo, err := s.nextOrderNo(ctx)
	if err != nil {
		return nil, err
	}

	deductions, err := s.collectDeductions(ctx, snapshot.Lines)
	if err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCash
	}

	order := &models.Order{
		OrderNo:         orderNo,
		Status:          enums.OrderStatusOpen,
		CustomerName:    snapshot.CustomerName,
		Notes:           snapshot.Notes,
		Subtotal:        totals.Subtotal,
		Discount:        totals.Discount,
		DiscountPercent: totals.DiscountPercent,
		Tax:             totals.Tax,
		TaxRate:         totals.TaxRate,
		Tip:             totals.Tip,
		Total:           totals.Total,
		PaymentMethod:   method,
		Lines:           make([]models.OrderLineItem, len(snapshot.Lines)),
	}
	for i, line := range snapshot.Lines {
		order.Lines[i] = models.OrderLineItem{
			LineKey:     line.LineID,
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			SKU:         line.Product.SKU,
			UnitPrice:   line.Product.UnitPrice,
			Quantity:    line.Quantity,
			Amount:      line.Amount,
			Modifiers:   line.Modifiers,
			Addons:      line.Addons,
		}
	}

	err = s.ordersTx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		return s.inventory.DeductForOrder(ctx, tx, deductions, orderNo)
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		// The order is already committed. Log and keep going; the stale
		// session expires on its own TTL.
		s.logg.Error(s.logg.WithOrderNo(ctx, orderNo), "clear cart session after checkout", err)
	}

	ctx = s.logg.WithOrderNo(ctx, orderNo)
	s.logg.Info(ctx, "order placed")
	return orders.NewOrderDTO(order), nil
}

func (s *service) loadCart(ctx context.Context, sessionID string) (cart.Cart, error) {
	if sessionID == "" {
		return cart.Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	current, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	return current.Snapshot(), nil
}

func (s *service) totalsOptions(input PlaceOrderInput) cart.TotalsOptions {
	taxRate := s.cfg.DefaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	return cart.TotalsOptions{
		TaxRate:         taxRate,
		DiscountPercent: input.DiscountPercent,
		DiscountAmount:  input.DiscountAmount,
		Tip:             input.Tip,
	}
}

func (s *service) nextOrderNo(ctx context.Context) (string, error) {
	n, err := s.seq.Incr(ctx, orderSeqKey)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
	}
	prefix := s.cfg.OrderNoPrefix
	if prefix == "" {
		prefix = "POS"
	}
	return fmt.Sprintf("%s-%05d", prefix, n), nil
}

// collectDeductions maps the cart's line snapshots to stock movements:
// product stock by line quantity, modifier stock per unit, addon stock by
// the addon's own quantity. Selections without an inventory ref are skipped.
func (s *service) collectDeductions(ctx context.Context, lines []cart.LineItem) ([]inventory.Deduction, error) {
	totals := make(map[uuid.UUID]decimal.Decimal)

	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart references unknown product")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for checkout")
		}
		if product.InventoryRef != nil {
			totals[*product.InventoryRef] = totals[*product.InventoryRef].
				Add(decimal.NewFromInt(int64(line.Quantity)))
		}
		for _, modifier := range line.Modifiers {
			if modifier.InventoryRef == nil {
				continue
			}
			qty := modifier.Quantity
			if qty < 1 {
				qty = 1
			}
			totals[*modifier.InventoryRef] = totals[*modifier.InventoryRef].
				Add(decimal.NewFromInt(int64(qty * line.Quantity)))
		}
		for _, addon := range line.Addons {
			if addon.InventoryRef == nil {
				continue
			}
			totals[*addon.InventoryRef] = totals[*addon.InventoryRef].
				Add(decimal.NewFromInt(int64(addon.Quantity)))
		}
	}

	deductions := make([]inventory.Deduction, 0, len(totals))
	for itemID, qty := range totals {
		deductions = append(deductions, inventory.Deduction{ItemID: itemID, Quantity: qty})
	}
	return deductions, nil
}
