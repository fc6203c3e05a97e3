package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hornero/internal/domain"
	"hornero/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customerId, customerName, customerEmail, customerPhone,
	       deliveryType, deliveryAddress, deliveryFee, currency, status, statusHistory,
	       paymentMethod, paymentState, paymentAmount, paymentId, preferenceId,
	       externalReference, rejectionReason, discount, tax, cancellationReason,
	       notes, version, createdAt, updatedAt`

// Save inserts a new order and its items in one transaction.
func (r *MySQLOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	rec := order.ToRecord()

	history, err := json.Marshal(rec.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshalling status history: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO Orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		rec.ID, rec.CustomerID, rec.CustomerName, rec.CustomerEmail, nullable(rec.CustomerPhone),
		rec.DeliveryType, nullable(rec.DeliveryAddress), rec.DeliveryFee, rec.Currency, rec.Status, history,
		nullable(rec.PaymentMethod), nullable(rec.PaymentState), rec.PaymentAmount, nullable(rec.PaymentID),
		nullable(rec.PreferenceID), nullable(rec.ExternalReference), nullable(rec.RejectionReason),
		rec.Discount, rec.Tax, nullable(rec.CancellationReason), nullable(rec.Notes),
		rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	if err := insertItems(ctx, tx, rec.ID, rec.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order save: %w", err)
	}
	return nil
}

// Update rewrites the order row guarded by its version; a stale version is
// a conflict, never a silent overwrite. Items are replaced wholesale.
func (r *MySQLOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	rec := order.ToRecord()

	history, err := json.Marshal(rec.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshalling status history: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning update transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE Orders
		SET status = ?, statusHistory = ?, paymentMethod = ?, paymentState = ?,
		    paymentAmount = ?, paymentId = ?, preferenceId = ?, externalReference = ?,
		    rejectionReason = ?, discount = ?, tax = ?, cancellationReason = ?,
		    notes = ?, version = version + 1, updatedAt = ?
		WHERE id = ? AND version = ?
	`
	result, err := tx.ExecContext(ctx, query,
		rec.Status, history, nullable(rec.PaymentMethod), nullable(rec.PaymentState),
		rec.PaymentAmount, nullable(rec.PaymentID), nullable(rec.PreferenceID), nullable(rec.ExternalReference),
		nullable(rec.RejectionReason), rec.Discount, rec.Tax, nullable(rec.CancellationReason),
		nullable(rec.Notes), rec.UpdatedAt,
		rec.ID, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		exists, err := r.Exists(ctx, rec.ID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", rec.ID))
		}
		return errors.NewConflictError(fmt.Sprintf("order %s was modified concurrently", rec.ID))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM OrderItems WHERE orderId = ?`, rec.ID); err != nil {
		return fmt.Errorf("clearing order items: %w", err)
	}
	if err := insertItems(ctx, tx, rec.ID, rec.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order update: %w", err)
	}

	order.Version = rec.Version + 1
	return nil
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItemRecord) error {
	query := `INSERT INTO OrderItems (orderId, productId, productName, price, quantity) VALUES (?, ?, ?, ?, ?)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, query, orderID, item.ProductID, item.ProductName, item.Price, item.Quantity); err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`
	rec, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return r.hydrate(ctx, rec)
}

func (r *MySQLOrderRepository) FindByExternalReference(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE externalReference = ?`
	rec, err := r.scanOrder(r.db.QueryRowContext(ctx, query, ref))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with external reference %s not found", ref))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by external reference: %w", err)
	}
	return r.hydrate(ctx, rec)
}

func (r *MySQLOrderRepository) FindByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE paymentId = ?`
	rec, err := r.scanOrder(r.db.QueryRowContext(ctx, query, paymentID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with payment id %s not found", paymentID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by payment id: %w", err)
	}
	return r.hydrate(ctx, rec)
}

func (r *MySQLOrderRepository) FindByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE customerId = ? ORDER BY createdAt DESC LIMIT ? OFFSET ?`
	return r.queryOrders(ctx, query, customerID, limit, offset)
}

func (r *MySQLOrderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE status = ? ORDER BY createdAt DESC LIMIT ? OFFSET ?`
	return r.queryOrders(ctx, query, string(status), limit, offset)
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	return nil
}

func (r *MySQLOrderRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM Orders WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking order existence: %w", err)
	}
	return exists, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		rec, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		order, err := r.hydrate(ctx, rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MySQLOrderRepository) scanOrder(row rowScanner) (domain.OrderRecord, error) {
	var rec domain.OrderRecord
	var history []byte
	var phone, address, paymentMethod, paymentState, paymentID, preferenceID sql.NullString
	var externalReference, rejectionReason, cancellationReason, notes sql.NullString

	err := row.Scan(
		&rec.ID, &rec.CustomerID, &rec.CustomerName, &rec.CustomerEmail, &phone,
		&rec.DeliveryType, &address, &rec.DeliveryFee, &rec.Currency, &rec.Status, &history,
		&paymentMethod, &paymentState, &rec.PaymentAmount, &paymentID, &preferenceID,
		&externalReference, &rejectionReason, &rec.Discount, &rec.Tax, &cancellationReason,
		&notes, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.OrderRecord{}, err
	}

	rec.CustomerPhone = phone.String
	rec.DeliveryAddress = address.String
	rec.PaymentMethod = paymentMethod.String
	rec.PaymentState = paymentState.String
	rec.PaymentID = paymentID.String
	rec.PreferenceID = preferenceID.String
	rec.ExternalReference = externalReference.String
	rec.RejectionReason = rejectionReason.String
	rec.CancellationReason = cancellationReason.String
	rec.Notes = notes.String

	if len(history) > 0 {
		if err := json.Unmarshal(history, &rec.StatusHistory); err != nil {
			return domain.OrderRecord{}, fmt.Errorf("unmarshalling status history: %w", err)
		}
	}
	return rec, nil
}

// hydrate loads child items and rebuilds the aggregate.
func (r *MySQLOrderRepository) hydrate(ctx context.Context, rec domain.OrderRecord) (*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT productId, productName, price, quantity FROM OrderItems WHERE orderId = ? ORDER BY id`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItemRecord
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		rec.Items = append(rec.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	order, err := domain.OrderFromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("rebuilding order %s: %w", rec.ID, err)
	}
	return order, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
