package dto

import "time"

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	Image     string  `json:"image,omitempty"`
}

type CartResponse struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customerId,omitempty"`
	Items      []CartItemDTO `json:"items"`
	Total      float64       `json:"total"`
	ItemCount  int           `json:"itemCount"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
