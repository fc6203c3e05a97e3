package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hornero/internal/domain"
	"hornero/internal/errors"
)

type MySQLCartRepository struct {
	db *sql.DB
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{db: db}
}

// cartItemRow is the serialized item shape inside the carts JSON column.
type cartItemRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

// Save upserts the whole cart; carts are deliberately last-write-wins.
func (r *MySQLCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	items, currency, err := marshalItems(cart)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO Carts (id, customerId, currency, items, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE customerId = VALUES(customerId), currency = VALUES(currency),
		                        items = VALUES(items), updatedAt = VALUES(updatedAt)
	`
	var customerID any
	if cart.CustomerID != "" {
		customerID = cart.CustomerID
	}
	if _, err := r.db.ExecContext(ctx, query, cart.ID, customerID, currency, items, cart.CreatedAt, cart.UpdatedAt); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (r *MySQLCartRepository) FindByID(ctx context.Context, id string) (*domain.Cart, error) {
	query := `SELECT id, customerId, currency, items, createdAt, updatedAt FROM Carts WHERE id = ?`
	cart, err := r.scanCart(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cart %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart by id: %w", err)
	}
	return cart, nil
}

func (r *MySQLCartRepository) FindByCustomer(ctx context.Context, customerID string) (*domain.Cart, error) {
	query := `SELECT id, customerId, currency, items, createdAt, updatedAt FROM Carts WHERE customerId = ? ORDER BY updatedAt DESC LIMIT 1`
	cart, err := r.scanCart(r.db.QueryRowContext(ctx, query, customerID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cart for customer %s not found", customerID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cart by customer: %w", err)
	}
	return cart, nil
}

func (r *MySQLCartRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Carts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("cart %s not found", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MySQLCartRepository) scanCart(row rowScanner) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID sql.NullString
	var currency string
	var items []byte

	if err := row.Scan(&cart.ID, &customerID, &currency, &items, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	cart.CustomerID = customerID.String

	var rows []cartItemRow
	if len(items) > 0 {
		if err := json.Unmarshal(items, &rows); err != nil {
			return nil, fmt.Errorf("unmarshalling cart items: %w", err)
		}
	}

	for _, ir := range rows {
		price, err := domain.NewMoney(ir.Price, domain.Currency(currency))
		if err != nil {
			return nil, fmt.Errorf("rebuilding cart %s: %w", cart.ID, err)
		}
		item, err := domain.NewCartItem(ir.ID, ir.Name, price, ir.Quantity, ir.Image)
		if err != nil {
			return nil, fmt.Errorf("rebuilding cart %s: %w", cart.ID, err)
		}
		cart.Items = append(cart.Items, item)
	}
	return &cart, nil
}

func marshalItems(cart *domain.Cart) ([]byte, string, error) {
	currency := string(domain.DefaultCurrency)
	rows := make([]cartItemRow, len(cart.Items))
	for i, item := range cart.Items {
		currency = string(item.UnitPrice.Currency())
		rows[i] = cartItemRow{
			ID:       item.ProductID,
			Name:     item.ProductName,
			Price:    item.UnitPrice.Float64(),
			Quantity: item.Quantity,
			Image:    item.Image,
		}
	}
	items, err := json.Marshal(rows)
	if err != nil {
		return nil, "", fmt.Errorf("marshalling cart items: %w", err)
	}
	return items, currency, nil
}
