package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	invsvc "github.com/tavolopos/tavolo-backend/internal/inventory"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
)

type createItemRequest struct {
	Name              string  `json:"name" validate:"required"`
	Unit              string  `json:"unit,omitempty"`
	QuantityOnHand    float64 `json:"quantity_on_hand,omitempty"`
	LowStockThreshold float64 `json:"low_stock_threshold,omitempty" validate:"gte=0"`
}

type updateItemRequest struct {
	Name              *string  `json:"name,omitempty"`
	Unit              *string  `json:"unit,omitempty"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

type adjustItemRequest struct {
	Delta  float64 `json:"delta" validate:"required"`
	Reason string  `json:"reason" validate:"required"`
}

func InventoryItemCreate(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), invsvc.CreateItemInput{
			Name:              payload.Name,
			Unit:              payload.Unit,
			QuantityOnHand:    decimal.NewFromFloat(payload.QuantityOnHand),
			LowStockThreshold: decimal.NewFromFloat(payload.LowStockThreshold),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func InventoryItemUpdate(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := invsvc.UpdateItemInput{
			Name: payload.Name,
			Unit: payload.Unit,
		}
		if payload.LowStockThreshold != nil {
			threshold := decimal.NewFromFloat(*payload.LowStockThreshold)
			input.LowStockThreshold = &threshold
		}

		item, err := svc.UpdateItem(r.Context(), itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryItemDetail(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryItemList(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("low_stock") != "" {
			items, err := svc.ListLowStock(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, items)
			return
		}

		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// InventoryItemAdjust records a manual stock correction.
func InventoryItemAdjust(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Adjust(r.Context(), itemID, decimal.NewFromFloat(payload.Delta), payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryItemHistory(svc invsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.ParseURLUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
