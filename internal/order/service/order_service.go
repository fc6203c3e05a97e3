package service

import (
	"context"

	"hornero/internal/domain"
	"hornero/internal/dto"

	"go.uber.org/zap"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
}

// PaymentGateway is the provider contract consumed by the order layer.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, config dto.PreferenceConfig) (*dto.Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*dto.PaymentData, error)
	ProcessNotification(ctx context.Context, payload []byte) (*dto.PaymentData, error)
	Refund(ctx context.Context, paymentID string, amount *float64) error
	ValidateSignature(payload []byte, signature, requestID string) bool
}

// OrderService drives order lifecycle transitions: each operation loads
// the aggregate, applies one domain method and persists the new version.
type OrderService struct {
	orderRepo OrderRepository
	gateway   PaymentGateway
	logger    *zap.Logger
}

func NewOrderService(orderRepo OrderRepository, gateway PaymentGateway, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		gateway:   gateway,
		logger:    logger,
	}
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	return s.orderRepo.FindByCustomer(ctx, customerID, limit, offset)
}

func (s *OrderService) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*domain.Order, error) {
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindByStatus(ctx, parsed, limit, offset)
}

func (s *OrderService) Confirm(ctx context.Context, id string) (*domain.Order, error) {
	return s.apply(ctx, id, "order confirmed", func(order *domain.Order) error {
		return order.Confirm()
	})
}

func (s *OrderService) MarkAsPaid(ctx context.Context, id, paymentID string) (*domain.Order, error) {
	return s.apply(ctx, id, "order paid", func(order *domain.Order) error {
		return order.MarkAsPaid(paymentID)
	})
}

func (s *OrderService) StartPreparation(ctx context.Context, id string) (*domain.Order, error) {
	return s.apply(ctx, id, "order preparation started", func(order *domain.Order) error {
		return order.StartPreparation()
	})
}

func (s *OrderService) MarkAsReady(ctx context.Context, id string) (*domain.Order, error) {
	return s.apply(ctx, id, "order ready", func(order *domain.Order) error {
		return order.MarkAsReady()
	})
}

func (s *OrderService) Dispatch(ctx context.Context, id string) (*domain.Order, error) {
	return s.apply(ctx, id, "order dispatched", func(order *domain.Order) error {
		return order.Dispatch()
	})
}

func (s *OrderService) MarkAsDelivered(ctx context.Context, id string) (*domain.Order, error) {
	return s.apply(ctx, id, "order delivered", func(order *domain.Order) error {
		return order.MarkAsDelivered()
	})
}

// Cancel refunds an approved gateway payment before cancelling; cash and
// transfer payments are cancelled in place.
func (s *OrderService) Cancel(ctx context.Context, id, reason string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, domain.NewError(domain.KindCannotCancel, "ORDER_CANNOT_BE_CANCELLED", "order can no longer be cancelled").
			With("orderId", order.ID).
			With("status", string(order.Status))
	}

	if order.Payment != nil &&
		order.Payment.Method == domain.PaymentMethodGateway &&
		order.Payment.State == domain.PaymentStateApproved {
		if err := s.gateway.Refund(ctx, order.Payment.PaymentID, nil); err != nil {
			s.logger.Error("refund failed", zap.String("orderId", order.ID), zap.Error(err))
			return nil, err
		}
		if err := order.MarkRefunded(); err != nil {
			return nil, err
		}
		s.logger.Info("payment refunded", zap.String("orderId", order.ID), zap.String("paymentId", order.Payment.PaymentID))
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("order cancelled", zap.String("orderId", order.ID), zap.String("reason", reason))
	return order, nil
}

func (s *OrderService) apply(ctx context.Context, id, event string, op func(*domain.Order) error) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info(event, zap.String("orderId", order.ID), zap.String("status", string(order.Status)))
	return order, nil
}
