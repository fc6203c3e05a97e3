package usecase

import (
	"context"
	"testing"

	"hornero/internal/domain"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWebhookOrderRepository struct {
	FindByExternalReferenceFunc func(ctx context.Context, ref string) (*domain.Order, error)
	UpdateFunc                  func(ctx context.Context, order *domain.Order) error
}

func (m *mockWebhookOrderRepository) FindByExternalReference(ctx context.Context, ref string) (*domain.Order, error) {
	return m.FindByExternalReferenceFunc(ctx, ref)
}

func (m *mockWebhookOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return m.UpdateFunc(ctx, order)
}

type mockWebhookGateway struct {
	ProcessNotificationFunc func(ctx context.Context, payload []byte) (*dto.PaymentData, error)
	ValidateSignatureFunc   func(payload []byte, signature, requestID string) bool
}

func (m *mockWebhookGateway) ProcessNotification(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
	return m.ProcessNotificationFunc(ctx, payload)
}

func (m *mockWebhookGateway) ValidateSignature(payload []byte, signature, requestID string) bool {
	if m.ValidateSignatureFunc == nil {
		return true
	}
	return m.ValidateSignatureFunc(payload, signature, requestID)
}

func gatewayOrder(t *testing.T) *domain.Order {
	t.Helper()
	price, err := domain.NewMoney(3250, domain.CurrencyARS)
	require.NoError(t, err)
	item, err := domain.NewOrderItem("prod-1", "Torta de chocolate", price, 2)
	require.NoError(t, err)

	order, err := domain.NewOrder(
		domain.Customer{ID: "cust-1", Name: "Ana Gomez", Email: "ana@example.com"},
		[]domain.OrderItem{item},
		domain.DeliveryInfo{Type: domain.DeliveryTypePickup},
		domain.PaymentMethodGateway,
		"",
	)
	require.NoError(t, err)
	require.NoError(t, order.AttachPreference("pref-1", order.ID))
	return order
}

func repoFor(order *domain.Order, updated *bool) *mockWebhookOrderRepository {
	return &mockWebhookOrderRepository{
		FindByExternalReferenceFunc: func(ctx context.Context, ref string) (*domain.Order, error) {
			return order, nil
		},
		UpdateFunc: func(ctx context.Context, o *domain.Order) error {
			if updated != nil {
				*updated = true
			}
			return nil
		},
	}
}

func approvedData(order *domain.Order, amount float64) *dto.PaymentData {
	return &dto.PaymentData{
		PaymentID:         "mp-500",
		Status:            "approved",
		ExternalReference: order.ID,
		TransactionAmount: amount,
		Currency:          "ARS",
	}
}

func TestHandleNotification_Approved(t *testing.T) {
	order := gatewayOrder(t)
	updated := false

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return approvedData(order, 6500), nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, &updated), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{"type":"payment","data":{"id":"mp-500"}}`), "", "")

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, domain.OrderStatusPaymentConfirmed, order.Status)
	assert.Equal(t, "mp-500", order.Payment.PaymentID)
}

func TestHandleNotification_DuplicateApprovalIgnored(t *testing.T) {
	order := gatewayOrder(t)
	require.NoError(t, order.MarkAsPaid("mp-500"))
	updated := false

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return approvedData(order, 6500), nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, &updated), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, "mp-500", order.Payment.PaymentID)
}

func TestHandleNotification_AmountMismatch(t *testing.T) {
	order := gatewayOrder(t)

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return approvedData(order, 100), nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, nil), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	_, ok := apperrors.IsPaymentError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.OrderStatusPendingPayment, order.Status)
}

func TestHandleNotification_Rejected(t *testing.T) {
	order := gatewayOrder(t)
	updated := false

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return &dto.PaymentData{
				PaymentID:         "mp-500",
				Status:            "rejected",
				StatusDetail:      "cc_rejected_insufficient_amount",
				ExternalReference: order.ID,
			}, nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, &updated), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, domain.OrderStatusPaymentRejected, order.Status)
	assert.Equal(t, "cc_rejected_insufficient_amount", order.Payment.RejectionReason)
}

func TestHandleNotification_Cancelled(t *testing.T) {
	order := gatewayOrder(t)
	updated := false

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return &dto.PaymentData{
				PaymentID:         "mp-500",
				Status:            "cancelled",
				ExternalReference: order.ID,
			}, nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, &updated), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
}

func TestHandleNotification_PendingLeavesOrderUnchanged(t *testing.T) {
	order := gatewayOrder(t)
	updated := false

	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return &dto.PaymentData{
				PaymentID:         "mp-500",
				Status:            "pending",
				ExternalReference: order.ID,
			}, nil
		},
	}

	uc := NewPaymentWebhookUseCase(repoFor(order, &updated), gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, domain.OrderStatusPendingPayment, order.Status)
}

func TestHandleNotification_InvalidSignature(t *testing.T) {
	gateway := &mockWebhookGateway{
		ValidateSignatureFunc: func(payload []byte, signature, requestID string) bool {
			return false
		},
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			t.Fatal("notification should not be processed with a bad signature")
			return nil, nil
		},
	}

	uc := NewPaymentWebhookUseCase(&mockWebhookOrderRepository{}, gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "ts=1,v1=bad", "req-1")

	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}

func TestHandleNotification_NonPaymentTopicAcknowledged(t *testing.T) {
	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return nil, nil
		},
	}
	repo := &mockWebhookOrderRepository{
		FindByExternalReferenceFunc: func(ctx context.Context, ref string) (*domain.Order, error) {
			t.Fatal("no order lookup expected for non-payment topics")
			return nil, nil
		},
	}

	uc := NewPaymentWebhookUseCase(repo, gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{"type":"merchant_order"}`), "", "")

	assert.NoError(t, err)
}

func TestHandleNotification_OrderNotFound(t *testing.T) {
	gateway := &mockWebhookGateway{
		ProcessNotificationFunc: func(ctx context.Context, payload []byte) (*dto.PaymentData, error) {
			return &dto.PaymentData{
				PaymentID:         "mp-500",
				Status:            "approved",
				ExternalReference: "PED-MISSING1",
			}, nil
		},
	}
	repo := &mockWebhookOrderRepository{
		FindByExternalReferenceFunc: func(ctx context.Context, ref string) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order not found")
		},
	}

	uc := NewPaymentWebhookUseCase(repo, gateway, zap.NewNop())

	err := uc.HandleNotification(context.Background(), []byte(`{}`), "", "")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
