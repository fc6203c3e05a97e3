package dto

import "time"

type CheckoutRequest struct {
	CartID        string      `json:"cartId"`
	Customer      CustomerDTO `json:"customer"`
	Delivery      DeliveryDTO `json:"delivery"`
	PaymentMethod string      `json:"paymentMethod"`
	Discount      float64     `json:"discount,omitempty"`
	Tax           float64     `json:"tax,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

type CheckoutResponse struct {
	TraceID     string    `json:"traceId"`
	Order       OrderDTO  `json:"order"`
	CheckoutURL string    `json:"checkoutUrl,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
