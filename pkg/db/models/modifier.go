package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// ModifierGroup is a named variation axis on a product (size, milk, done-ness).
// Min/max selection rules are enforced at the API layer, never by the cart.
type ModifierGroup struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Name        string     `gorm:"column:name;not null"`
	Required    bool       `gorm:"column:required;not null;default:false"`
	MultiSelect bool       `gorm:"column:multi_select;not null;default:false"`
	MinSelect   int        `gorm:"column:min_select;not null;default:0"`
	MaxSelect   int        `gorm:"column:max_select;not null;default:1"`
	SortOrder   int        `gorm:"column:sort_order;not null;default:0"`
	Modifiers   []Modifier `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (g *ModifierGroup) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Modifier is one selectable option inside a group. The price adjustment is
// per unit of the parent line and may be negative.
type Modifier struct {
	ID              uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	GroupID         uuid.UUID   `gorm:"column:group_id;type:uuid;not null;index"`
	Name            string      `gorm:"column:name;not null"`
	PriceAdjustment types.Money `gorm:"column:price_adjustment;type:decimal(20,2);not null;default:0"`
	InventoryRef    *uuid.UUID  `gorm:"column:inventory_ref;type:uuid"`
	IsDefault       bool        `gorm:"column:is_default;not null;default:false"`
	SortOrder       int         `gorm:"column:sort_order;not null;default:0"`
	CreatedAt       time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (m *Modifier) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
