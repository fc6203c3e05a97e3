package usecase

import (
	"context"

	"hornero/internal/domain"
	"hornero/internal/dto"
	apperrors "hornero/internal/errors"

	"go.uber.org/zap"
)

type CartRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
}

type PaymentGateway interface {
	CreatePreference(ctx context.Context, config dto.PreferenceConfig) (*dto.Preference, error)
}

// CheckoutURLs are the redirect/notification endpoints handed to the
// gateway when a preference is created.
type CheckoutURLs struct {
	Success string
	Failure string
	Notify  string
}

// CheckoutUseCase turns a cart into a pending order. All validation runs
// before any write; the cart is cleared only after the order is persisted.
type CheckoutUseCase struct {
	cartRepo  CartRepository
	orderRepo OrderRepository
	gateway   PaymentGateway
	urls      CheckoutURLs
	logger    *zap.Logger
}

func NewCheckoutUseCase(
	cartRepo CartRepository,
	orderRepo OrderRepository,
	gateway PaymentGateway,
	urls CheckoutURLs,
	logger *zap.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		gateway:   gateway,
		urls:      urls,
		logger:    logger,
	}
}

// Checkout returns the created order and, for gateway payments, the
// provider checkout URL.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, req dto.CheckoutRequest) (*domain.Order, string, error) {
	uc.logger.Info("checkout started", zap.String("cartId", req.CartID), zap.String("customerId", req.Customer.ID))

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, "", err
	}

	cart, err := uc.cartRepo.FindByID(ctx, req.CartID)
	if err != nil {
		return nil, "", err
	}
	if cart.IsEmpty() {
		return nil, "", apperrors.NewValidationError("cart is empty", apperrors.ValidationDetail{
			Field:   "cartId",
			Message: "cannot check out an empty cart",
		})
	}

	items := make([]domain.OrderItem, len(cart.Items))
	for i, ci := range cart.Items {
		item, err := domain.NewOrderItem(ci.ProductID, ci.ProductName, ci.UnitPrice, ci.Quantity)
		if err != nil {
			return nil, "", err
		}
		items[i] = item
	}

	customer := domain.Customer{
		ID:    req.Customer.ID,
		Name:  req.Customer.Name,
		Email: req.Customer.Email,
		Phone: req.Customer.Phone,
	}

	delivery := domain.DeliveryInfo{
		Type:    domain.DeliveryType(req.Delivery.Type),
		Address: req.Delivery.Address,
	}
	currency := items[0].UnitPrice.Currency()
	if req.Delivery.Fee > 0 {
		fee, err := domain.NewMoney(req.Delivery.Fee, currency)
		if err != nil {
			return nil, "", err
		}
		delivery.Fee = fee
	}

	order, err := domain.NewOrder(customer, items, delivery, method, req.Notes)
	if err != nil {
		return nil, "", err
	}

	if req.Discount > 0 {
		discount, err := domain.NewMoney(req.Discount, currency)
		if err != nil {
			return nil, "", err
		}
		if err := order.ApplyDiscount(discount); err != nil {
			return nil, "", err
		}
	}
	if req.Tax > 0 {
		tax, err := domain.NewMoney(req.Tax, currency)
		if err != nil {
			return nil, "", err
		}
		if err := order.ApplyTax(tax); err != nil {
			return nil, "", err
		}
	}

	checkoutURL := ""
	if method == domain.PaymentMethodGateway {
		preference, err := uc.createPreference(ctx, order)
		if err != nil {
			return nil, "", err
		}
		if err := order.AttachPreference(preference.ID, order.ID); err != nil {
			return nil, "", err
		}
		checkoutURL = preference.InitPoint
	}

	if err := uc.orderRepo.Save(ctx, order); err != nil {
		return nil, "", err
	}

	cart.Clear()
	if err := uc.cartRepo.Save(ctx, cart); err != nil {
		// The order exists; a stale cart is not worth failing the checkout.
		uc.logger.Warn("clearing cart after checkout failed", zap.String("cartId", cart.ID), zap.Error(err))
	}

	uc.logger.Info("checkout completed",
		zap.String("orderId", order.ID),
		zap.String("cartId", cart.ID),
		zap.String("paymentMethod", string(method)),
	)
	return order, checkoutURL, nil
}

func (uc *CheckoutUseCase) createPreference(ctx context.Context, order *domain.Order) (*dto.Preference, error) {
	// The preference lines must sum to the order total: the provider
	// charges the line sum, and the webhook validates the charged amount
	// against the total. Fee, tax and discount ride as extra lines.
	currency := string(order.Items[0].UnitPrice.Currency())
	items := make([]dto.PreferenceItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.PreferenceItem{
			Title:     item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Float64(),
			Currency:  string(item.UnitPrice.Currency()),
		}
	}
	if !order.Delivery.Fee.IsZero() {
		items = append(items, dto.PreferenceItem{
			Title:     "Delivery fee",
			Quantity:  1,
			UnitPrice: order.Delivery.Fee.Float64(),
			Currency:  currency,
		})
	}
	if !order.Tax.IsZero() {
		items = append(items, dto.PreferenceItem{
			Title:     "Tax",
			Quantity:  1,
			UnitPrice: order.Tax.Float64(),
			Currency:  currency,
		})
	}
	if !order.Discount.IsZero() {
		items = append(items, dto.PreferenceItem{
			Title:     "Discount",
			Quantity:  1,
			UnitPrice: -order.Discount.Float64(),
			Currency:  currency,
		})
	}

	preference, err := uc.gateway.CreatePreference(ctx, dto.PreferenceConfig{
		ExternalReference: order.ID,
		Items:             items,
		PayerName:         order.Customer.Name,
		PayerEmail:        order.Customer.Email,
		SuccessURL:        uc.urls.Success,
		FailureURL:        uc.urls.Failure,
		NotificationURL:   uc.urls.Notify,
	})
	if err != nil {
		uc.logger.Error("creating payment preference failed", zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}
	return preference, nil
}
