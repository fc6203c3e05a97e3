package domain

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

// OrderItem is a product snapshot inside an order. The name and price are
// frozen at checkout time.
type OrderItem struct {
	ProductID   string
	ProductName string
	UnitPrice   Money
	Quantity    int
}

func NewOrderItem(productID, productName string, unitPrice Money, quantity int) (OrderItem, error) {
	if productID == "" {
		return OrderItem{}, NewError(KindValidation, "ORDER_ITEM_PRODUCT_ID_REQUIRED", "order item product id is required")
	}
	if productName == "" {
		return OrderItem{}, NewError(KindValidation, "ORDER_ITEM_PRODUCT_NAME_REQUIRED", "order item product name is required").
			With("productId", productID)
	}
	if quantity < MinItemQuantity || quantity > MaxItemQuantity {
		return OrderItem{}, NewError(KindValidation, "ORDER_ITEM_INVALID_QUANTITY", "order item quantity must be between 1 and 99").
			With("productId", productID).
			With("quantity", quantity)
	}
	return OrderItem{
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
	}, nil
}

func (i OrderItem) Subtotal() (Money, error) {
	return i.UnitPrice.Multiply(float64(i.Quantity))
}
