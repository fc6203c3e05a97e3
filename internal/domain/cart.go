package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem mirrors OrderItem but keeps the catalog image for rendering.
type CartItem struct {
	ProductID   string
	ProductName string
	UnitPrice   Money
	Quantity    int
	Image       string
}

func NewCartItem(productID, productName string, unitPrice Money, quantity int, image string) (CartItem, error) {
	base, err := NewOrderItem(productID, productName, unitPrice, quantity)
	if err != nil {
		return CartItem{}, err
	}
	return CartItem{
		ProductID:   base.ProductID,
		ProductName: base.ProductName,
		UnitPrice:   base.UnitPrice,
		Quantity:    base.Quantity,
		Image:       image,
	}, nil
}

func (i CartItem) Subtotal() (Money, error) {
	return i.UnitPrice.Multiply(float64(i.Quantity))
}

// Cart has a simpler lifecycle than Order: it is cleared, never completed.
type Cart struct {
	ID         string
	CustomerID string
	Items      []CartItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewCart(customerID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AddItem merges quantity into an existing line for the same product, or
// appends a new line. The merged quantity still honors the per-item bound.
func (c *Cart) AddItem(item CartItem) error {
	for i, existing := range c.Items {
		if existing.ProductID == item.ProductID {
			merged := existing.Quantity + item.Quantity
			if merged > MaxItemQuantity {
				return NewError(KindLimitExceeded, "CART_ITEM_QUANTITY_LIMIT", "cart item quantity exceeds the maximum").
					With("productId", item.ProductID).
					With("quantity", merged).
					With("max", MaxItemQuantity)
			}
			c.Items[i].Quantity = merged
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, item)
	c.touch()
	return nil
}

// RemoveItem is idempotent: removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	filtered := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	c.Items = filtered
	c.touch()
}

// UpdateQuantity sets the quantity directly; zero or negative removes the
// line. Updating an absent product is a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if quantity > MaxItemQuantity {
		return NewError(KindLimitExceeded, "CART_ITEM_QUANTITY_LIMIT", "cart item quantity exceeds the maximum").
			With("productId", productID).
			With("quantity", quantity).
			With("max", MaxItemQuantity)
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return nil
}

func (c *Cart) Clear() {
	c.Items = nil
	c.touch()
}

func (c *Cart) Total() (Money, error) {
	currency := DefaultCurrency
	if len(c.Items) > 0 {
		currency = c.Items[0].UnitPrice.Currency()
	}
	total, err := ZeroMoney(currency)
	if err != nil {
		return Money{}, err
	}
	for _, item := range c.Items {
		line, err := item.Subtotal()
		if err != nil {
			return Money{}, err
		}
		if total, err = total.Add(line); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
