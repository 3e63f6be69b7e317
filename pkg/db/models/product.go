package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/enums"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// Product is a sellable catalog item. The cart engine snapshots name and
// price at add time, so catalog edits never reprice open carts.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	SKU            string                `gorm:"column:sku;uniqueIndex;not null"`
	Name           string                `gorm:"column:name;not null"`
	Description    *string               `gorm:"column:description"`
	Category       enums.ProductCategory `gorm:"column:category;not null;default:'other'"`
	Price          types.Money           `gorm:"column:price;type:decimal(20,2);not null"`
	Tags           pq.StringArray        `gorm:"column:tags;type:text[]"`
	IsActive       bool                  `gorm:"column:is_active;not null;default:true"`
	SortOrder      int                   `gorm:"column:sort_order;not null;default:0"`
	InventoryRef   *uuid.UUID            `gorm:"column:inventory_ref;type:uuid"`
	ModifierGroups []ModifierGroup       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Addons         []Addon               `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
