package domain

import "time"

// Product is a bakery catalog entry. Prices are stored as plain numbers
// and lifted into Money when an item enters a cart or order.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Currency    Currency
	Category    string
	Image       string
	IsActive    bool
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Product) UnitPrice() (Money, error) {
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return NewMoney(p.Price, currency)
}

// CanBeOrdered is the catalog-side gate for cart additions.
func (p Product) CanBeOrdered() bool {
	return p.IsActive && p.IsAvailable
}
