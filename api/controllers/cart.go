package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	"github.com/tavolopos/tavolo-backend/internal/cart"
	"github.com/tavolopos/tavolo-backend/internal/catalog"
	modsvc "github.com/tavolopos/tavolo-backend/internal/modifiers"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

// cartCommandRequest is the wire form of a cart mutation. The op field picks
// the command; the remaining fields are op-specific.
type cartCommandRequest struct {
	Op string `json:"op" validate:"required"`

	ProductID   string             `json:"product_id,omitempty"`
	LineID      string             `json:"line_id,omitempty"`
	Quantity    int                `json:"quantity,omitempty"`
	ModifierIDs []string           `json:"modifier_ids,omitempty"`
	Addons      []addonChoiceInput `json:"addons,omitempty"`
	AddonID     string             `json:"addon_id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Notes       string             `json:"notes,omitempty"`
}

type addonChoiceInput struct {
	AddonID  string `json:"addon_id" validate:"required"`
	Quantity int    `json:"quantity,omitempty"`
}

// cartView pairs the session cart with its running totals.
type cartView struct {
	Cart      cart.Cart   `json:"cart"`
	Subtotal  types.Money `json:"subtotal"`
	ItemCount int         `json:"item_count"`
}

func newCartView(c *cart.Cart) cartView {
	return cartView{
		Cart:      c.Snapshot(),
		Subtotal:  c.Subtotal(),
		ItemCount: c.ItemCount(),
	}
}

// CartFetch returns the register's open cart.
func CartFetch(store *cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := chi.URLParam(r, "registerId")

		c, err := store.Load(r.Context(), registerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(c))
	}
}

// CartDispatch decodes one mutation, resolves catalog references into frozen
// selections, and applies it to the register's cart.
func CartDispatch(store *cart.SessionStore, catalogSvc catalog.Service, modifierSvc modsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := chi.URLParam(r, "registerId")

		var payload cartCommandRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cmd, err := buildCommand(r, payload, catalogSvc, modifierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := store.Dispatch(r.Context(), registerID, cmd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(c))
	}
}

// CartClear drops the register's session.
func CartClear(store *cart.SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := chi.URLParam(r, "registerId")

		if err := store.Clear(r.Context(), registerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func buildCommand(r *http.Request, payload cartCommandRequest, catalogSvc catalog.Service, modifierSvc modsvc.Service) (cart.Command, error) {
	switch strings.ToLower(strings.TrimSpace(payload.Op)) {
	case "add_item":
		return buildAddItem(r, payload, catalogSvc, modifierSvc)

	case "remove_item":
		if payload.LineID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_id required")
		}
		return cart.RemoveItemCommand{LineID: payload.LineID}, nil

	case "update_quantity":
		if payload.LineID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_id required")
		}
		return cart.UpdateQuantityCommand{LineID: payload.LineID, Quantity: payload.Quantity}, nil

	case "add_addon":
		return buildAddAddon(r, payload, modifierSvc)

	case "remove_addon":
		if payload.LineID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_id required")
		}
		addonID, err := validators.ParseURLUUID(payload.AddonID, "addon_id")
		if err != nil {
			return nil, err
		}
		return cart.RemoveAddonCommand{LineID: payload.LineID, AddonID: addonID}, nil

	case "set_modifiers":
		return buildSetModifiers(r, payload, modifierSvc)

	case "set_customer":
		return cart.SetCustomerCommand{Name: payload.Name}, nil

	case "set_notes":
		return cart.SetNotesCommand{Notes: payload.Notes}, nil

	case "clear":
		return cart.ClearCommand{}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cart command").WithDetails(map[string]any{"op": payload.Op})
}

func buildAddItem(r *http.Request, payload cartCommandRequest, catalogSvc catalog.Service, modifierSvc modsvc.Service) (cart.Command, error) {
	productID, err := validators.ParseURLUUID(payload.ProductID, "product_id")
	if err != nil {
		return nil, err
	}

	product, err := catalogSvc.GetProduct(r.Context(), productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}

	selection, err := parseSelectionInput(payload.ModifierIDs, payload.Addons)
	if err != nil {
		return nil, err
	}
	modifiers, addons, err := modifierSvc.ResolveSelections(r.Context(), productID, selection)
	if err != nil {
		return nil, err
	}

	return cart.AddItemCommand{
		Product: cart.ProductSnapshot{
			ID:        product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			UnitPrice: product.Price,
		},
		Quantity:  payload.Quantity,
		Modifiers: modifiers,
		Addons:    addons,
	}, nil
}

func buildAddAddon(r *http.Request, payload cartCommandRequest, modifierSvc modsvc.Service) (cart.Command, error) {
	if payload.LineID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_id required")
	}
	productID, err := validators.ParseURLUUID(payload.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	addonID, err := validators.ParseURLUUID(payload.AddonID, "addon_id")
	if err != nil {
		return nil, err
	}

	quantity := payload.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	addon, err := modifierSvc.ResolveAddon(r.Context(), productID, modsvc.AddonChoice{AddonID: addonID, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	return cart.AddAddonCommand{LineID: payload.LineID, Addon: addon}, nil
}

func buildSetModifiers(r *http.Request, payload cartCommandRequest, modifierSvc modsvc.Service) (cart.Command, error) {
	if payload.LineID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line_id required")
	}
	productID, err := validators.ParseURLUUID(payload.ProductID, "product_id")
	if err != nil {
		return nil, err
	}

	selection, err := parseSelectionInput(payload.ModifierIDs, nil)
	if err != nil {
		return nil, err
	}
	modifiers, _, err := modifierSvc.ResolveSelections(r.Context(), productID, selection)
	if err != nil {
		return nil, err
	}

	return cart.SetModifiersCommand{LineID: payload.LineID, Modifiers: modifiers}, nil
}

func parseSelectionInput(modifierIDs []string, addons []addonChoiceInput) (modsvc.SelectionInput, error) {
	input := modsvc.SelectionInput{}
	for _, raw := range modifierIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid modifier id")
		}
		input.ModifierIDs = append(input.ModifierIDs, id)
	}
	for _, choice := range addons {
		id, err := uuid.Parse(strings.TrimSpace(choice.AddonID))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid addon id")
		}
		input.Addons = append(input.Addons, modsvc.AddonChoice{AddonID: id, Quantity: choice.Quantity})
	}
	return input, nil
}
