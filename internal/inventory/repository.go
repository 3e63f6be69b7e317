package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
)

// Repository wires together inventory persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads one inventory item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns all inventory items ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns items at or below their low stock threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("quantity_on_hand <= low_stock_threshold").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Create persists a new inventory item.
func (r *Repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the mutated item row.
func (r *Repository) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ApplyDelta moves quantity_on_hand by delta and records the adjustment.
// Stock may go negative; the register never blocks a sale on stock.
func (r *Repository) ApplyDelta(ctx context.Context, itemID uuid.UUID, delta decimal.Decimal, reason string, orderNo *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	adjustment := &models.InventoryAdjustment{
		ItemID:  itemID,
		Delta:   delta,
		Reason:  reason,
		OrderNo: orderNo,
	}
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// ListAdjustments returns the audit trail for one item, newest first.
func (r *Repository) ListAdjustments(ctx context.Context, itemID uuid.UUID) ([]models.InventoryAdjustment, error) {
	var adjustments []models.InventoryAdjustment
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
