package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"hornero/internal/domain"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, name, description, price, currency, category, image,
	       isActive, isAvailable, createdAt, updatedAt`

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM Products
		WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	return r.queryProducts(ctx, query, args...)
}

func (r *MySQLRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Products
		WHERE category = ? AND isActive = 1
		ORDER BY name
	`
	return r.queryProducts(ctx, query, category)
}

func (r *MySQLRepository) FindAllActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM Products
		WHERE isActive = 1
		ORDER BY category, name
	`
	return r.queryProducts(ctx, query)
}

func (r *MySQLRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var description, image sql.NullString
		err := rows.Scan(
			&p.ID, &p.Name, &description, &p.Price, &p.Currency, &p.Category, &image,
			&p.IsActive, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.Description = description.String
		p.Image = image.String
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}
