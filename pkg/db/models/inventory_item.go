package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem tracks stock for a product or a linked component (an
// ingredient consumed by a modifier or addon).
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name              string          `gorm:"column:name;not null"`
	Unit              string          `gorm:"column:unit;not null;default:'each'"`
	QuantityOnHand    decimal.Decimal `gorm:"column:quantity_on_hand;type:decimal(20,3);not null;default:0"`
	LowStockThreshold decimal.Decimal `gorm:"column:low_stock_threshold;type:decimal(20,3);not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InventoryAdjustment is the audit trail for every stock movement.
type InventoryAdjustment struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index"`
	Delta     decimal.Decimal `gorm:"column:delta;type:decimal(20,3);not null"`
	Reason    string          `gorm:"column:reason;not null"`
	OrderNo   *string         `gorm:"column:order_no"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (a *InventoryAdjustment) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
