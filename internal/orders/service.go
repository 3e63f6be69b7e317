package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tavolopos/tavolo-backend/pkg/enums"
	pkgerrors "github.com/tavolopos/tavolo-backend/pkg/errors"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/pagination"
)

// Service exposes order lifecycle operations after checkout.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetOrderByNo(ctx context.Context, orderNo string) (*OrderDTO, error)
	ListOrders(ctx context.Context, filter ListFilter, params pagination.Params) (*OrderListResult, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod) (*OrderDTO, error)
	Void(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) GetOrderByNo(ctx context.Context, orderNo string) (*OrderDTO, error) {
	if orderNo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter, params pagination.Params) (*OrderListResult, error) {
	orders, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return NewOrderListResult(orders, params.Limit), nil
}

// MarkPaid transitions an open order to paid. Paying twice is a conflict.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, method enums.PaymentMethod) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
	}

	now := time.Now().UTC()
	order.Status = enums.OrderStatusPaid
	order.PaymentMethod = method
	order.PaidAt = &now

	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}

	ctx = s.logg.WithOrderNo(ctx, order.OrderNo)
	s.logg.Info(ctx, "order marked paid")
	return NewOrderDTO(order), nil
}

// Void cancels an open order. Paid orders cannot be voided from the register.
func (s *service) Void(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not open")
	}

	now := time.Now().UTC()
	order.Status = enums.OrderStatusVoid
	order.VoidedAt = &now

	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "void order")
	}

	ctx = s.logg.WithOrderNo(ctx, order.OrderNo)
	s.logg.Info(ctx, "order voided")
	return NewOrderDTO(order), nil
}
