package dto

import "time"

type CustomerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type DeliveryDTO struct {
	Type    string  `json:"type"`
	Address string  `json:"address,omitempty"`
	Fee     float64 `json:"fee,omitempty"`
}

type OrderItemDTO struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type StatusChangeDTO struct {
	From   string    `json:"from,omitempty"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
	Reason string    `json:"reason,omitempty"`
}

type OrderDTO struct {
	ID                 string            `json:"id"`
	Customer           CustomerDTO       `json:"customer"`
	Items              []OrderItemDTO    `json:"items"`
	Status             string            `json:"status"`
	StatusHistory      []StatusChangeDTO `json:"statusHistory"`
	Delivery           DeliveryDTO       `json:"delivery"`
	PaymentMethod      string            `json:"paymentMethod,omitempty"`
	PaymentState       string            `json:"paymentState,omitempty"`
	PaymentID          string            `json:"paymentId,omitempty"`
	Currency           string            `json:"currency"`
	Subtotal           float64           `json:"subtotal"`
	Discount           float64           `json:"discount,omitempty"`
	Tax                float64           `json:"tax,omitempty"`
	Total              float64           `json:"total"`
	CancellationReason string            `json:"cancellationReason,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}
