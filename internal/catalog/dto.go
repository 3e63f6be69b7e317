package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/pkg/db/models"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// ProductDTO is the catalog payload returned to register clients.
type ProductDTO struct {
	ID             uuid.UUID          `json:"id"`
	SKU            string             `json:"sku"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	Category       string             `json:"category"`
	Price          types.Money        `json:"price"`
	Tags           []string           `json:"tags"`
	IsActive       bool               `json:"is_active"`
	SortOrder      int                `json:"sort_order"`
	InventoryRef   *uuid.UUID         `json:"inventory_ref,omitempty"`
	ModifierGroups []ModifierGroupDTO `json:"modifier_groups,omitempty"`
	Addons         []AddonDTO         `json:"addons,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ModifierGroupDTO is a variation axis with its options.
type ModifierGroupDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Required    bool          `json:"required"`
	MultiSelect bool          `json:"multi_select"`
	MinSelect   int           `json:"min_select"`
	MaxSelect   int           `json:"max_select"`
	SortOrder   int           `json:"sort_order"`
	Modifiers   []ModifierDTO `json:"modifiers"`
}

// ModifierDTO is one selectable option inside a group.
type ModifierDTO struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	PriceAdjustment types.Money `json:"price_adjustment"`
	InventoryRef    *uuid.UUID  `json:"inventory_ref,omitempty"`
	IsDefault       bool        `json:"is_default"`
	SortOrder       int         `json:"sort_order"`
}

// AddonDTO is a supplementary item attachable to the product.
type AddonDTO struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	UnitPrice    types.Money `json:"unit_price"`
	InventoryRef *uuid.UUID  `json:"inventory_ref,omitempty"`
	IsActive     bool        `json:"is_active"`
	SortOrder    int         `json:"sort_order"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:           product.ID,
		SKU:          product.SKU,
		Name:         product.Name,
		Description:  product.Description,
		Category:     product.Category.String(),
		Price:        product.Price,
		Tags:         append([]string{}, product.Tags...),
		IsActive:     product.IsActive,
		SortOrder:    product.SortOrder,
		InventoryRef: product.InventoryRef,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	if len(product.ModifierGroups) > 0 {
		dto.ModifierGroups = make([]ModifierGroupDTO, len(product.ModifierGroups))
		for i, group := range product.ModifierGroups {
			groupDTO := ModifierGroupDTO{
				ID:          group.ID,
				Name:        group.Name,
				Required:    group.Required,
				MultiSelect: group.MultiSelect,
				MinSelect:   group.MinSelect,
				MaxSelect:   group.MaxSelect,
				SortOrder:   group.SortOrder,
				Modifiers:   make([]ModifierDTO, len(group.Modifiers)),
			}
			for j, mod := range group.Modifiers {
				groupDTO.Modifiers[j] = ModifierDTO{
					ID:              mod.ID,
					Name:            mod.Name,
					PriceAdjustment: mod.PriceAdjustment,
					InventoryRef:    mod.InventoryRef,
					IsDefault:       mod.IsDefault,
					SortOrder:       mod.SortOrder,
				}
			}
			dto.ModifierGroups[i] = groupDTO
		}
	}

	if len(product.Addons) > 0 {
		dto.Addons = make([]AddonDTO, len(product.Addons))
		for i, addon := range product.Addons {
			dto.Addons[i] = AddonDTO{
				ID:           addon.ID,
				Name:         addon.Name,
				UnitPrice:    addon.UnitPrice,
				InventoryRef: addon.InventoryRef,
				IsActive:     addon.IsActive,
				SortOrder:    addon.SortOrder,
			}
		}
	}

	return dto
}
