package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/pagination"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// OrderDTO is the order payload returned to register clients.
type OrderDTO struct {
	ID              uuid.UUID      `json:"id"`
	OrderNo         string         `json:"order_no"`
	Status          string         `json:"status"`
	CustomerName    string         `json:"customer_name,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Subtotal        types.Money    `json:"subtotal"`
	Discount        types.Money    `json:"discount"`
	DiscountPercent float64        `json:"discount_percent"`
	Tax             types.Money    `json:"tax"`
	TaxRate         float64        `json:"tax_rate"`
	Tip             types.Money    `json:"tip"`
	Total           types.Money    `json:"total"`
	PaymentMethod   string         `json:"payment_method"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	VoidedAt        *time.Time     `json:"voided_at,omitempty"`
	Lines           []OrderLineDTO `json:"lines,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// OrderLineDTO is one frozen cart line on an order.
type OrderLineDTO struct {
	ID          uuid.UUID                `json:"id"`
	LineKey     string                   `json:"line_key"`
	ProductID   uuid.UUID                `json:"product_id"`
	ProductName string                   `json:"product_name"`
	SKU         string                   `json:"sku"`
	UnitPrice   types.Money              `json:"unit_price"`
	Quantity    int                      `json:"quantity"`
	Amount      types.Money              `json:"amount"`
	Modifiers   types.ModifierSelections `json:"modifiers,omitempty"`
	Addons      types.AddonSelections    `json:"addons,omitempty"`
}

// OrderListResult is one page of orders plus the cursor for the next page.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:              order.ID,
		OrderNo:         order.OrderNo,
		Status:          order.Status.String(),
		CustomerName:    order.CustomerName,
		Notes:           order.Notes,
		Subtotal:        order.Subtotal,
		Discount:        order.Discount,
		DiscountPercent: order.DiscountPercent,
		Tax:             order.Tax,
		TaxRate:         order.TaxRate,
		Tip:             order.Tip,
		Total:           order.Total,
		PaymentMethod:   order.PaymentMethod.String(),
		PaidAt:          order.PaidAt,
		VoidedAt:        order.VoidedAt,
		CreatedAt:       order.CreatedAt,
	}
	if len(order.Lines) > 0 {
		dto.Lines = make([]OrderLineDTO, len(order.Lines))
		for i, line := range order.Lines {
			dto.Lines[i] = OrderLineDTO{
				ID:          line.ID,
				LineKey:     line.LineKey,
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				SKU:         line.SKU,
				UnitPrice:   line.UnitPrice,
				Quantity:    line.Quantity,
				Amount:      line.Amount,
				Modifiers:   line.Modifiers,
				Addons:      line.Addons,
			}
		}
	}
	return dto
}

// NewOrderListResult trims the buffered page and encodes the next cursor.
func NewOrderListResult(orders []models.Order, limit int) *OrderListResult {
	limit = pagination.NormalizeLimit(limit)

	result := &OrderListResult{}
	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	result.Orders = make([]OrderDTO, len(orders))
	for i := range orders {
		result.Orders[i] = *NewOrderDTO(&orders[i])
	}

	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result
}
