package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/enums"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// Order is a submitted register order with its totals frozen at checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNo         string              `gorm:"column:order_no;uniqueIndex;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'open';index"`
	CustomerName    string              `gorm:"column:customer_name"`
	Notes           string              `gorm:"column:notes"`
	Subtotal        types.Money         `gorm:"column:subtotal;type:decimal(20,2);not null;default:0"`
	Discount        types.Money         `gorm:"column:discount;type:decimal(20,2);not null;default:0"`
	DiscountPercent float64             `gorm:"column:discount_percent;not null;default:0"`
	Tax             types.Money         `gorm:"column:tax;type:decimal(20,2);not null;default:0"`
	TaxRate         float64             `gorm:"column:tax_rate;not null;default:0"`
	Tip             types.Money         `gorm:"column:tip;type:decimal(20,2);not null;default:0"`
	Total           types.Money         `gorm:"column:total;type:decimal(20,2);not null;default:0"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cash'"`
	PaidAt          *time.Time          `gorm:"column:paid_at"`
	VoidedAt        *time.Time          `gorm:"column:voided_at"`
	Lines           []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderLineItem snapshots one cart line at checkout, including the full
// modifier/addon configuration as JSON.
type OrderLineItem struct {
	ID          uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID                `gorm:"column:order_id;type:uuid;not null;index"`
	LineKey     string                   `gorm:"column:line_key;not null"`
	ProductID   uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	ProductName string                   `gorm:"column:product_name;not null"`
	SKU         string                   `gorm:"column:sku;not null"`
	UnitPrice   types.Money              `gorm:"column:unit_price;type:decimal(20,2);not null"`
	Quantity    int                      `gorm:"column:quantity;not null"`
	Amount      types.Money              `gorm:"column:amount;type:decimal(20,2);not null"`
	Modifiers   types.ModifierSelections `gorm:"column:modifiers;type:jsonb"`
	Addons      types.AddonSelections    `gorm:"column:addons;type:jsonb"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (l *OrderLineItem) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
