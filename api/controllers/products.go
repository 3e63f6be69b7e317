package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	"github.com/tavolopos/tavolo-backend/internal/catalog"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type createProductRequest struct {
	SKU          string   `json:"sku" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	Description  *string  `json:"description,omitempty"`
	Category     string   `json:"category" validate:"required"`
	Price        float64  `json:"price" validate:"gte=0"`
	Tags         []string `json:"tags,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
	SortOrder    int      `json:"sort_order,omitempty"`
	InventoryRef *string  `json:"inventory_ref,omitempty"`
}

type updateProductRequest struct {
	SKU          *string   `json:"sku,omitempty"`
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Tags         *[]string `json:"tags,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	SortOrder    *int      `json:"sort_order,omitempty"`
	InventoryRef *string   `json:"inventory_ref,omitempty"`
}

// ProductCreate handles menu item creation.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseProductCategory(strings.TrimSpace(payload.Category))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
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

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			SKU:          payload.SKU,
			Name:         payload.Name,
			Description:  payload.Description,
			Category:     category,
			Price:        types.MoneyFromFloat(payload.Price),
			Tags:         payload.Tags,
			IsActive:     isActive,
			SortOrder:    payload.SortOrder,
			InventoryRef: inventoryRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate applies a partial update to a menu item.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			SKU:         payload.SKU,
			Name:        payload.Name,
			Description: payload.Description,
			Tags:        payload.Tags,
			IsActive:    payload.IsActive,
			SortOrder:   payload.SortOrder,
		}
		if payload.Category != nil {
			category, err := enums.ParseProductCategory(strings.TrimSpace(*payload.Category))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}
		if payload.Price != nil {
			price := types.MoneyFromFloat(*payload.Price)
			input.Price = &price
		}
		if payload.InventoryRef != nil {
			ref, err := parseOptionalUUID(payload.InventoryRef, "inventory_ref")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.InventoryRef = ref
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete retires a menu item.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductDetail returns one menu item with its modifier groups and addons.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductList returns the register menu, optionally filtered.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := catalog.ListFilter{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			Tag:        strings.TrimSpace(r.URL.Query().Get("tag")),
			ActiveOnly: r.URL.Query().Get("include_inactive") == "",
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			filter.Category = &category
		}

		products, err := svc.ListProducts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid identifier").WithDetails(map[string]any{"field": field})
	}
	return &parsed, nil
}
