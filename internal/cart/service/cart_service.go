package service

import (
	"context"

	"hornero/internal/domain"
	"hornero/internal/errors"

	"go.uber.org/zap"
)

// MaxDistinctItems caps distinct cart lines so any cart can always become
// an order, whose aggregate enforces the same bound.
const MaxDistinctItems = domain.MaxOrderItems

type CartRepository interface {
	Save(ctx context.Context, cart *domain.Cart) error
	FindByID(ctx context.Context, id string) (*domain.Cart, error)
	FindByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type CartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	logger      *zap.Logger
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create starts an empty cart, optionally bound to a customer.
func (s *CartService) Create(ctx context.Context, customerID string) (*domain.Cart, error) {
	cart := domain.NewCart(customerID)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Info("cart created", zap.String("cartId", cart.ID), zap.String("customerId", customerID))
	return cart, nil
}

func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.cartRepo.FindByID(ctx, cartID)
}

// AddItem validates the product against the catalog, snapshots its name
// and price into the cart, and merges quantities for repeated products.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByIDs(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, errors.NewNotFoundError("product " + productID + " not found")
	}
	product := products[0]
	if !product.CanBeOrdered() {
		return nil, errors.NewConflictError("product " + productID + " is not available")
	}

	if !cartContains(cart, productID) && len(cart.Items) >= MaxDistinctItems {
		return nil, domain.NewError(domain.KindLimitExceeded, "CART_ITEMS_LIMIT", "cart exceeds the maximum number of distinct items").
			With("cartId", cart.ID).
			With("max", MaxDistinctItems)
	}

	price, err := product.UnitPrice()
	if err != nil {
		return nil, err
	}
	item, err := domain.NewCartItem(product.ID, product.Name, price, quantity, product.Image)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(item); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Info("cart item added", zap.String("cartId", cart.ID), zap.String("productId", productID), zap.Int("quantity", quantity))
	return cart, nil
}

// UpdateQuantity sets an item's quantity; zero or negative removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.logger.Info("cart cleared", zap.String("cartId", cart.ID))
	return cart, nil
}

func cartContains(cart *domain.Cart, productID string) bool {
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
