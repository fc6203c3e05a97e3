package usecase

import (
	"context"
	"math"

	"hornero/internal/domain"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"go.uber.org/zap"
)

const providerName = "mercadopago"

// amountTolerance absorbs float representation noise between the provider
// and the stored total.
const amountTolerance = 0.01

type WebhookOrderRepository interface {
	FindByExternalReference(ctx context.Context, ref string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
}

type WebhookGateway interface {
	ProcessNotification(ctx context.Context, payload []byte) (*dto.PaymentData, error)
	ValidateSignature(payload []byte, signature, requestID string) bool
}

// PaymentWebhookUseCase applies provider notifications to orders. It is
// idempotent: repeated approvals for an already paid order are dropped.
type PaymentWebhookUseCase struct {
	orderRepo WebhookOrderRepository
	gateway   WebhookGateway
	logger    *zap.Logger
}

func NewPaymentWebhookUseCase(orderRepo WebhookOrderRepository, gateway WebhookGateway, logger *zap.Logger) *PaymentWebhookUseCase {
	return &PaymentWebhookUseCase{
		orderRepo: orderRepo,
		gateway:   gateway,
		logger:    logger,
	}
}

func (uc *PaymentWebhookUseCase) HandleNotification(ctx context.Context, payload []byte, signature, requestID string) error {
	if !uc.gateway.ValidateSignature(payload, signature, requestID) {
		uc.logger.Warn("webhook signature rejected", zap.String("requestId", requestID))
		return apperrors.NewForbiddenError("invalid webhook signature")
	}

	data, err := uc.gateway.ProcessNotification(ctx, payload)
	if err != nil {
		return err
	}
	if data == nil {
		// Non-payment topic; acknowledge without touching any order.
		return nil
	}

	order, err := uc.orderRepo.FindByExternalReference(ctx, data.ExternalReference)
	if err != nil {
		return err
	}

	logger := uc.logger.With(
		zap.String("orderId", order.ID),
		zap.String("paymentId", data.PaymentID),
		zap.String("paymentStatus", data.Status),
	)

	switch data.Status {
	case "approved":
		total, err := order.Total()
		if err != nil {
			return err
		}
		if math.Abs(data.TransactionAmount-total.Float64()) > amountTolerance {
			logger.Error("payment amount mismatch",
				zap.Float64("expected", total.Float64()),
				zap.Float64("received", data.TransactionAmount),
			)
			return apperrors.NewPaymentError("payment amount does not match order total", providerName, data.PaymentID, nil)
		}
		if err := order.MarkAsPaid(data.PaymentID); err != nil {
			if domain.IsAlreadyPaid(err) {
				logger.Info("duplicate payment notification ignored")
				return nil
			}
			return err
		}
	case "rejected":
		if err := order.RejectPayment(data.StatusDetail); err != nil {
			return err
		}
	case "cancelled":
		if err := order.Cancel("payment cancelled by provider"); err != nil {
			if domain.IsCannotCancel(err) {
				logger.Warn("cancellation notification for non-cancellable order ignored")
				return nil
			}
			return err
		}
	default:
		// pending / in_process: nothing to apply yet.
		logger.Debug("payment notification left order unchanged")
		return nil
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return err
	}
	logger.Info("payment notification applied", zap.String("orderStatus", string(order.Status)))
	return nil
}
