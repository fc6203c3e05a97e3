package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"hornero/internal/domain"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutUseCase interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*domain.Order, string, error)
}

type WebhookUseCase interface {
	HandleNotification(ctx context.Context, payload []byte, signature, requestID string) error
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*domain.Order, error)
	Confirm(ctx context.Context, id string) (*domain.Order, error)
	StartPreparation(ctx context.Context, id string) (*domain.Order, error)
	MarkAsReady(ctx context.Context, id string) (*domain.Order, error)
	Dispatch(ctx context.Context, id string) (*domain.Order, error)
	MarkAsDelivered(ctx context.Context, id string) (*domain.Order, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Order, error)
}

type OrderController struct {
	checkout CheckoutUseCase
	webhook  WebhookUseCase
	service  OrderService
	logger   *zap.Logger
}

func NewOrderController(checkout CheckoutUseCase, webhook WebhookUseCase, service OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{
		checkout: checkout,
		webhook:  webhook,
		service:  service,
		logger:   logger,
	}
}

func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if validationErr := c.validateCheckoutRequest(req); validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	order, checkoutURL, err := c.checkout.Checkout(r.Context(), req)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	orderDTO, err := c.toOrderDTO(order)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.CheckoutResponse{
		TraceID:     traceID,
		Order:       orderDTO,
		CheckoutURL: checkoutURL,
		Timestamp:   time.Now().UTC(),
	})
}

func (c *OrderController) validateCheckoutRequest(req dto.CheckoutRequest) error {
	var details []apperrors.ValidationDetail

	if req.CartID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "cartId",
			Message: "cartId is required",
		})
	}
	if req.Customer.ID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.id",
			Message: "customer id is required",
		})
	}
	if req.Customer.Name == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.name",
			Message: "customer name is required",
		})
	}
	if req.Customer.Email == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.email",
			Message: "customer email is required",
		})
	}
	if req.PaymentMethod == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentMethod",
			Message: "paymentMethod is required",
		})
	}
	switch req.Delivery.Type {
	case string(domain.DeliveryTypePickup):
	case string(domain.DeliveryTypeDelivery):
		if req.Delivery.Address == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "delivery.address",
				Message: "address is required for delivery orders",
			})
		}
	default:
		details = append(details, apperrors.ValidationDetail{
			Field:   "delivery.type",
			Message: "delivery type must be PICKUP or DELIVERY",
		})
	}
	if req.Discount < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "discount",
			Message: "discount must be non-negative",
		})
	}
	if req.Tax < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "tax",
			Message: "tax must be non-negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.service.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	c.writeOrder(w, traceID, http.StatusOK, order, logger)
}

func (c *OrderController) ListOrders(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	customerID := r.URL.Query().Get("customerId")
	status := r.URL.Query().Get("status")
	if customerID == "" && status == "" {
		c.writeValidationError(w, traceID, "missing filter", apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "either customerId or status is required",
		})
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 100 {
		c.writeValidationError(w, traceID, "invalid pagination", apperrors.ValidationDetail{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
		return
	}

	var orders []*domain.Order
	var err error
	if customerID != "" {
		orders, err = c.service.ListByCustomer(r.Context(), customerID, limit, offset)
	} else {
		orders, err = c.service.ListByStatus(r.Context(), status, limit, offset)
	}
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	dtos := make([]dto.OrderDTO, 0, len(orders))
	for _, order := range orders {
		orderDTO, err := c.toOrderDTO(order)
		if err != nil {
			c.handleError(w, traceID, err, logger)
			return
		}
		dtos = append(dtos, orderDTO)
	}

	c.writeJSON(w, http.StatusOK, dto.OrderListResponse{
		Orders: dtos,
		Limit:  limit,
		Offset: offset,
	})
}

func (c *OrderController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	c.applyTransition(w, r, c.service.Confirm)
}

func (c *OrderController) PrepareOrder(w http.ResponseWriter, r *http.Request) {
	c.applyTransition(w, r, c.service.StartPreparation)
}

func (c *OrderController) ReadyOrder(w http.ResponseWriter, r *http.Request) {
	c.applyTransition(w, r, c.service.MarkAsReady)
}

func (c *OrderController) DispatchOrder(w http.ResponseWriter, r *http.Request) {
	c.applyTransition(w, r, c.service.Dispatch)
}

func (c *OrderController) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	c.applyTransition(w, r, c.service.MarkAsDelivered)
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Reason == "" {
		c.writeValidationError(w, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "reason",
			Message: "a cancellation reason is required",
		})
		return
	}

	order, err := c.service.Cancel(r.Context(), chi.URLParam(r, "orderId"), req.Reason)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	c.writeOrder(w, traceID, http.StatusOK, order, logger)
}

// HandleWebhook acknowledges provider notifications. The provider retries
// on anything but 2xx, so business no-ops still return 200.
func (c *OrderController) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		logger.Warn("reading webhook body failed", zap.Error(err))
		c.writeError(w, traceID, http.StatusBadRequest, "INVALID_PAYLOAD", "could not read webhook body")
		return
	}

	signature := r.Header.Get("x-signature")
	requestID := r.Header.Get("x-request-id")

	if err := c.webhook.HandleNotification(r.Context(), payload, signature, requestID); err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *OrderController) applyTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*domain.Order, error)) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := op(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	c.writeOrder(w, traceID, http.StatusOK, order, logger)
}

func (c *OrderController) writeOrder(w http.ResponseWriter, traceID string, status int, order *domain.Order, logger *zap.Logger) {
	orderDTO, err := c.toOrderDTO(order)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}
	c.writeJSON(w, status, orderDTO)
}

func (c *OrderController) toOrderDTO(order *domain.Order) (dto.OrderDTO, error) {
	items := make([]dto.OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return dto.OrderDTO{}, err
		}
		items[i] = dto.OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.UnitPrice.Float64(),
			Quantity:    item.Quantity,
			Subtotal:    subtotal.Float64(),
		}
	}

	history := make([]dto.StatusChangeDTO, len(order.History))
	for i, change := range order.History {
		history[i] = dto.StatusChangeDTO{
			From:   string(change.From),
			To:     string(change.To),
			At:     change.At,
			Reason: change.Reason,
		}
	}

	subtotal, err := order.Subtotal()
	if err != nil {
		return dto.OrderDTO{}, err
	}
	total, err := order.Total()
	if err != nil {
		return dto.OrderDTO{}, err
	}

	result := dto.OrderDTO{
		ID: order.ID,
		Customer: dto.CustomerDTO{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Items:         items,
		Status:        string(order.Status),
		StatusHistory: history,
		Delivery: dto.DeliveryDTO{
			Type:    string(order.Delivery.Type),
			Address: order.Delivery.Address,
			Fee:     order.Delivery.Fee.Float64(),
		},
		Currency:           string(subtotal.Currency()),
		Subtotal:           subtotal.Float64(),
		Discount:           order.Discount.Float64(),
		Tax:                order.Tax.Float64(),
		Total:              total.Float64(),
		CancellationReason: order.CancellationReason,
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}

	if order.Payment != nil {
		result.PaymentMethod = string(order.Payment.Method)
		result.PaymentState = string(order.Payment.State)
		result.PaymentID = order.Payment.PaymentID
	}

	return result, nil
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeError(w, traceID, http.StatusForbidden, "FORBIDDEN", err.Error())
		return
	}
	if pe, ok := apperrors.IsPaymentError(err); ok {
		logger.Error("payment provider error",
			zap.String("provider", pe.Provider),
			zap.String("paymentId", pe.PaymentID),
			zap.Error(err),
		)
		c.writeError(w, traceID, http.StatusBadGateway, "PAYMENT_ERROR", pe.Message)
		return
	}

	if de, ok := domain.AsError(err); ok {
		switch de.Kind {
		case domain.KindValidation, domain.KindInvalidMoney:
			c.writeError(w, traceID, http.StatusBadRequest, de.Code, de.Message)
		case domain.KindLimitExceeded:
			c.writeError(w, traceID, http.StatusUnprocessableEntity, de.Code, de.Message)
		case domain.KindInvalidState, domain.KindCannotCancel, domain.KindAlreadyPaid:
			c.writeError(w, traceID, http.StatusConflict, de.Code, de.Message)
		default:
			c.writeError(w, traceID, http.StatusConflict, de.Code, de.Message)
		}
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

type errorResponse struct {
	TraceID   string    `json:"traceId"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *OrderController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{
		TraceID:   traceID,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
