package catalog

import "hornero/internal/domain"

type SearchProductsRequest struct {
	ProductIDs []string `json:"productIds"`
}

type SearchProductsResponse struct {
	Products    []ProductDTO `json:"products"`
	NotFoundIDs []string     `json:"notFoundIds,omitempty"`
}

type ProductListResponse struct {
	Products []ProductDTO `json:"products"`
}

type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
	IsAvailable bool    `json:"isAvailable"`
}

func toProductDTO(p domain.Product) ProductDTO {
	currency := p.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    string(currency),
		Category:    p.Category,
		Image:       p.Image,
		IsAvailable: p.IsAvailable,
	}
}
