package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// Addon is a supplementary item attachable to a product, priced and
// quantified independently of the base product quantity. A nil ProductID
// marks a storewide addon offered on every product.
type Addon struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProductID    *uuid.UUID  `gorm:"column:product_id;type:uuid;index"`
	Name         string      `gorm:"column:name;not null"`
	UnitPrice    types.Money `gorm:"column:unit_price;type:decimal(20,2);not null"`
	InventoryRef *uuid.UUID  `gorm:"column:inventory_ref;type:uuid"`
	IsActive     bool        `gorm:"column:is_active;not null;default:true"`
	SortOrder    int         `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (a *Addon) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
