package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tavolopos/tavolo-backend/api/responses"
	"github.com/tavolopos/tavolo-backend/api/validators"
	checkoutsvc "github.com/tavolopos/tavolo-backend/internal/checkout"
	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/types"
)

type checkoutRequest struct {
	TaxRate         *float64 `json:"tax_rate,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent float64  `json:"discount_percent,omitempty" validate:"gte=0,lte=100"`
	DiscountAmount  *float64 `json:"discount_amount,omitempty"`
	Tip             float64  `json:"tip,omitempty" validate:"gte=0"`
	PaymentMethod   string   `json:"payment_method,omitempty"`
	ExpectedTotal   *float64 `json:"expected_total,omitempty" validate:"omitempty,gte=0"`
}

func (c checkoutRequest) toInput() (checkoutsvc.PlaceOrderInput, error) {
	input := checkoutsvc.PlaceOrderInput{
		TaxRate:         c.TaxRate,
		DiscountPercent: c.DiscountPercent,
		Tip:             types.MoneyFromFloat(c.Tip),
	}
	if c.DiscountAmount != nil {
		amount := types.MoneyFromFloat(*c.DiscountAmount)
		input.DiscountAmount = &amount
	}
	if c.ExpectedTotal != nil {
		expected := types.MoneyFromFloat(*c.ExpectedTotal)
		input.ExpectedTotal = &expected
	}
	if raw := strings.TrimSpace(c.PaymentMethod); raw != "" {
		method, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = method
	}
	return input, nil
}

// CheckoutQuote prices the register's cart without committing anything.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := chi.URLParam(r, "registerId")

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := svc.Quote(r.Context(), registerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// CheckoutPlace freezes the cart into an order, deducts stock, and clears the
// session.
func CheckoutPlace(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		registerID := chi.URLParam(r, "registerId")

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), registerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
