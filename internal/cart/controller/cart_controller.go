package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"hornero/internal/domain"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	Create(ctx context.Context, customerID string) (*domain.Cart, error)
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
}

type CartController struct {
	service CartService
	logger  *zap.Logger
}

func NewCartController(service CartService, logger *zap.Logger) *CartController {
	return &CartController{
		service: service,
		logger:  logger,
	}
}

type createCartRequest struct {
	CustomerID string `json:"customerId,omitempty"`
}

func (c *CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
				Field:   "body",
				Message: "request body must be valid JSON",
			})
			return
		}
	}

	cart, err := c.service.Create(r.Context(), req.CustomerID)
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusCreated, cart)
}

func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.Get(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusOK, cart)
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if req.ProductID == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
	}
	if req.Quantity < domain.MinItemQuantity || req.Quantity > domain.MaxItemQuantity {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be between 1 and 99",
		})
	}
	if len(details) > 0 {
		c.writeValidationError(w, "validation failed", details...)
		return
	}

	cart, err := c.service.AddItem(r.Context(), chi.URLParam(r, "cartId"), req.ProductID, req.Quantity)
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusOK, cart)
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.service.UpdateQuantity(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusOK, cart)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.RemoveItem(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "productId"))
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusOK, cart)
}

func (c *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := c.service.Clear(r.Context(), chi.URLParam(r, "cartId"))
	if err != nil {
		c.handleError(w, err)
		return
	}
	c.writeCart(w, http.StatusOK, cart)
}

func (c *CartController) writeCart(w http.ResponseWriter, status int, cart *domain.Cart) {
	items := make([]dto.CartItemDTO, len(cart.Items))
	for i, item := range cart.Items {
		subtotal, err := item.Subtotal()
		if err != nil {
			c.handleError(w, err)
			return
		}
		items[i] = dto.CartItemDTO{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Price:     item.UnitPrice.Float64(),
			Quantity:  item.Quantity,
			Subtotal:  subtotal.Float64(),
			Image:     item.Image,
		}
	}

	total, err := cart.Total()
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, status, dto.CartResponse{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Items:      items,
		Total:      total.Float64(),
		ItemCount:  cart.ItemCount(),
		CreatedAt:  cart.CreatedAt,
		UpdatedAt:  cart.UpdatedAt,
	})
}

func (c *CartController) handleError(w http.ResponseWriter, err error) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	if de, ok := domain.AsError(err); ok {
		switch de.Kind {
		case domain.KindValidation, domain.KindInvalidMoney:
			c.writeError(w, http.StatusBadRequest, de.Code, de.Message)
		case domain.KindLimitExceeded:
			c.writeError(w, http.StatusUnprocessableEntity, de.Code, de.Message)
		default:
			c.writeError(w, http.StatusConflict, de.Code, de.Message)
		}
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *CartController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *CartController) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *CartController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
