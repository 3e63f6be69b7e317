package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
)

// Deduction is one stock movement to apply when an order is placed.
type Deduction struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// Service exposes stock tracking operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	Adjust(ctx context.Context, itemID uuid.UUID, delta decimal.Decimal, reason string) (*models.InventoryItem, error)
	History(ctx context.Context, itemID uuid.UUID) ([]models.InventoryAdjustment, error)
	DeductForOrder(ctx context.Context, tx *gorm.DB, deductions []Deduction, orderNo string) error
}

// CreateItemInput holds the payload to create an inventory item.
type CreateItemInput struct {
	Name              string
	Unit              string
	QuantityOnHand    decimal.Decimal
	LowStockThreshold decimal.Decimal
}

// UpdateItemInput holds optional mutation values for an item.
type UpdateItemInput struct {
	Name              *string
	Unit              *string
	LowStockThreshold *decimal.Decimal
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.InventoryItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "each"
	}

	item := &models.InventoryItem{
		Name:              strings.TrimSpace(input.Name),
		Unit:              unit,
		QuantityOnHand:    input.QuantityOnHand,
		LowStockThreshold: input.LowStockThreshold,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*models.InventoryItem, error) {
	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Unit != nil {
		if strings.TrimSpace(*input.Unit) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit cannot be empty")
		}
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.LowStockThreshold != nil {
		item.LowStockThreshold = *input.LowStockThreshold
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}
	return updated, nil
}

func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	return s.loadItem(ctx, itemID)
}

func (s *service) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return items, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock items")
	}
	return items, nil
}

// Adjust applies a manual stock movement with an operator-supplied reason.
func (s *service) Adjust(ctx context.Context, itemID uuid.UUID, delta decimal.Decimal, reason string) (*models.InventoryItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if delta.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}

	if err := s.repo.ApplyDelta(ctx, itemID, delta, strings.TrimSpace(reason), nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock adjustment")
	}

	item, err := s.loadItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.QuantityOnHand.LessThanOrEqual(item.LowStockThreshold) {
		lowCtx := s.logg.WithFields(ctx, map[string]any{
			"item_id":  item.ID,
			"on_hand":  item.QuantityOnHand.String(),
			"low_mark": item.LowStockThreshold.String(),
		})
		s.logg.Warn(lowCtx, "inventory item at or below low stock threshold")
	}
	return item, nil
}

func (s *service) History(ctx context.Context, itemID uuid.UUID) ([]models.InventoryAdjustment, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if _, err := s.loadItem(ctx, itemID); err != nil {
		return nil, err
	}
	adjustments, err := s.repo.ListAdjustments(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list adjustments")
	}
	return adjustments, nil
}

// DeductForOrder applies the order's stock movements inside the caller's
// transaction. Unknown item refs fail the whole batch so checkout rolls back.
func (s *service) DeductForOrder(ctx context.Context, tx *gorm.DB, deductions []Deduction, orderNo string) error {
	if orderNo == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	repo := s.repo.WithTx(tx)

	for _, deduction := range deductions {
		if deduction.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		err := repo.ApplyDelta(ctx, deduction.ItemID, deduction.Quantity.Neg(), "order", &orderNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order references unknown inventory item")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deduct stock for order")
		}
	}
	return nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return item, nil
}
