package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	modsvc "github.com/tavolopos/tavolo-backend/internal/modifiers"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type createGroupRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Required    bool   `json:"required,omitempty"`
	MultiSelect bool   `json:"multi_select,omitempty"`
	MinSelect   int    `json:"min_select,omitempty" validate:"gte=0"`
	MaxSelect   int    `json:"max_select,omitempty" validate:"gte=0"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

type updateGroupRequest struct {
	Name        *string `json:"name,omitempty"`
	Required    *bool   `json:"required,omitempty"`
	MultiSelect *bool   `json:"multi_select,omitempty"`
	MinSelect   *int    `json:"min_select,omitempty" validate:"omitempty,gte=0"`
	MaxSelect   *int    `json:"max_select,omitempty" validate:"omitempty,gte=0"`
	SortOrder   *int    `json:"sort_order,omitempty"`
}

type createModifierRequest struct {
	GroupID         string  `json:"group_id" validate:"required"`
	Name            string  `json:"name" validate:"required"`
	PriceAdjustment float64 `json:"price_adjustment,omitempty"`
	InventoryRef    *string `json:"inventory_ref,omitempty"`
	IsDefault       bool    `json:"is_default,omitempty"`
	SortOrder       int     `json:"sort_order,omitempty"`
}

type updateModifierRequest struct {
	Name            *string  `json:"name,omitempty"`
	PriceAdjustment *float64 `json:"price_adjustment,omitempty"`
	InventoryRef    *string  `json:"inventory_ref,omitempty"`
	IsDefault       *bool    `json:"is_default,omitempty"`
	SortOrder       *int     `json:"sort_order,omitempty"`
}

type createAddonRequest struct {
	ProductID    *string `json:"product_id,omitempty"`
	Name         string  `json:"name" validate:"required"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	InventoryRef *string `json:"inventory_ref,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	SortOrder    int     `json:"sort_order,omitempty"`
}

type updateAddonRequest struct {
	Name         *string  `json:"name,omitempty"`
	UnitPrice    *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	InventoryRef *string  `json:"inventory_ref,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	SortOrder    *int     `json:"sort_order,omitempty"`
}

func ModifierGroupCreate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseURLUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.CreateGroup(r.Context(), modsvc.CreateGroupInput{
			ProductID:   productID,
			Name:        payload.Name,
			Required:    payload.Required,
			MultiSelect: payload.MultiSelect,
			MinSelect:   payload.MinSelect,
			MaxSelect:   payload.MaxSelect,
			SortOrder:   payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

func ModifierGroupUpdate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupId"), "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.UpdateGroup(r.Context(), groupID, modsvc.UpdateGroupInput{
			Name:        payload.Name,
			Required:    payload.Required,
			MultiSelect: payload.MultiSelect,
			MinSelect:   payload.MinSelect,
			MaxSelect:   payload.MaxSelect,
			SortOrder:   payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

func ModifierGroupDelete(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := validators.ParseURLUUID(chi.URLParam(r, "groupId"), "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteGroup(r.Context(), groupID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func ModifierCreate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID, err := validators.ParseURLUUID(payload.GroupID, "group_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inventoryRef, err := parseOptionalUUID(payload.InventoryRef, "inventory_ref")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mod, err := svc.CreateModifier(r.Context(), modsvc.CreateModifierInput{
			GroupID:         groupID,
			Name:            payload.Name,
			PriceAdjustment: types.MoneyFromFloat(payload.PriceAdjustment),
			InventoryRef:    inventoryRef,
			IsDefault:       payload.IsDefault,
			SortOrder:       payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, mod)
	}
}

func ModifierUpdate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := validators.ParseURLUUID(chi.URLParam(r, "modifierId"), "modifierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateModifierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := modsvc.UpdateModifierInput{
			Name:      payload.Name,
			IsDefault: payload.IsDefault,
			SortOrder: payload.SortOrder,
		}
		if payload.PriceAdjustment != nil {
			adj := types.MoneyFromFloat(*payload.PriceAdjustment)
			input.PriceAdjustment = &adj
		}
		if payload.InventoryRef != nil {
			ref, err := parseOptionalUUID(payload.InventoryRef, "inventory_ref")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.InventoryRef = ref
		}

		mod, err := svc.UpdateModifier(r.Context(), modifierID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mod)
	}
}

func ModifierDelete(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modifierID, err := validators.ParseURLUUID(chi.URLParam(r, "modifierId"), "modifierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteModifier(r.Context(), modifierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AddonCreate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createAddonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseOptionalUUID(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inventoryRef, err := parseOptionalUUID(payload.InventoryRef, "inventory_ref")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if payload.IsActive != nil {
			isActive = *payload.IsActive
		}

		addon, err := svc.CreateAddon(r.Context(), modsvc.CreateAddonInput{
			ProductID:    productID,
			Name:         payload.Name,
			UnitPrice:    types.MoneyFromFloat(payload.UnitPrice),
			InventoryRef: inventoryRef,
			IsActive:     isActive,
			SortOrder:    payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addon)
	}
}

func AddonUpdate(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addonID, err := validators.ParseURLUUID(chi.URLParam(r, "addonId"), "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAddonRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := modsvc.UpdateAddonInput{
			Name:      payload.Name,
			IsActive:  payload.IsActive,
			SortOrder: payload.SortOrder,
		}
		if payload.UnitPrice != nil {
			price := types.MoneyFromFloat(*payload.UnitPrice)
			input.UnitPrice = &price
		}
		if payload.InventoryRef != nil {
			ref, err := parseOptionalUUID(payload.InventoryRef, "inventory_ref")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.InventoryRef = ref
		}

		addon, err := svc.UpdateAddon(r.Context(), addonID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addon)
	}
}

func AddonDelete(svc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addonID, err := validators.ParseURLUUID(chi.URLParam(r, "addonId"), "addonId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAddon(r.Context(), addonID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
