package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hornero/internal/domain"
	apperrors "hornero/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrder(t *testing.T) *domain.Order {
	t.Helper()
	price, err := domain.NewMoney(3250, domain.CurrencyARS)
	require.NoError(t, err)
	item, err := domain.NewOrderItem("prod-1", "Torta de chocolate", price, 2)
	require.NoError(t, err)

	order, err := domain.NewOrder(
		domain.Customer{ID: "cust-1", Name: "Ana Gomez", Email: "ana@example.com"},
		[]domain.OrderItem{item},
		domain.DeliveryInfo{Type: domain.DeliveryTypePickup},
		domain.PaymentMethodGateway,
		"",
	)
	require.NoError(t, err)
	return order
}

var orderRowColumns = []string{
	"id", "customerId", "customerName", "customerEmail", "customerPhone",
	"deliveryType", "deliveryAddress", "deliveryFee", "currency", "status", "statusHistory",
	"paymentMethod", "paymentState", "paymentAmount", "paymentId", "preferenceId",
	"externalReference", "rejectionReason", "discount", "tax", "cancellationReason",
	"notes", "version", "createdAt", "updatedAt",
}

func orderRow(t *testing.T, order *domain.Order) *sqlmock.Rows {
	t.Helper()
	rec := order.ToRecord()
	history, err := json.Marshal(rec.StatusHistory)
	require.NoError(t, err)

	return sqlmock.NewRows(orderRowColumns).AddRow(
		rec.ID, rec.CustomerID, rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
		rec.DeliveryType, rec.DeliveryAddress, rec.DeliveryFee, rec.Currency, rec.Status, history,
		rec.PaymentMethod, rec.PaymentState, rec.PaymentAmount, rec.PaymentID, rec.PreferenceID,
		rec.ExternalReference, rec.RejectionReason, rec.Discount, rec.Tax, rec.CancellationReason,
		rec.Notes, rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
}

func itemRows(order *domain.Order) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"productId", "productName", "price", "quantity"})
	for _, item := range order.Items {
		rows.AddRow(item.ProductID, item.ProductName, item.UnitPrice.Float64(), item.Quantity)
	}
	return rows
}

func TestOrderRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO OrderItems").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.Save(context.Background(), order)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Save_InsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO Orders").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = repo.Save(context.Background(), order)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)
	order.Version = 2

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM OrderItems").
		WithArgs(order.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO OrderItems").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = repo.Update(context.Background(), order)

	require.NoError(t, err)
	// A successful update bumps the in-memory version.
	assert.Equal(t, 3, order.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Update_StaleVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = repo.Update(context.Background(), order)

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE Orders").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(order.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err = repo.Update(context.Background(), order)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE id = ?").
		WithArgs(order.ID).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	found, err := repo.FindByID(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, order.Status, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "prod-1", found.Items[0].ProductID)
	require.NotNil(t, found.Payment)
	assert.Equal(t, domain.PaymentStatePending, found.Payment.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE id = ?").
		WithArgs("PED-MISSING1").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err = repo.FindByID(context.Background(), "PED-MISSING1")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindByExternalReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)
	require.NoError(t, order.AttachPreference("pref-1", order.ID))

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE externalReference = ?").
		WithArgs(order.ID).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	found, err := repo.FindByExternalReference(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, "pref-1", found.Payment.PreferenceID)
}

func TestOrderRepository_FindByPaymentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)
	require.NoError(t, order.AttachPreference("pref-1", order.ID))
	require.NoError(t, order.MarkAsPaid("mp-500"))

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE paymentId = ?").
		WithArgs("mp-500").
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	found, err := repo.FindByPaymentID(context.Background(), "mp-500")

	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, "mp-500", found.Payment.PaymentID)
	assert.Equal(t, domain.PaymentStateApproved, found.Payment.State)
}

func TestOrderRepository_FindByPaymentID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE paymentId = ?").
		WithArgs("mp-missing").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err = repo.FindByPaymentID(context.Background(), "mp-missing")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_FindByCustomer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE customerId = ?").
		WithArgs("cust-1", 20, 0).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	orders, err := repo.FindByCustomer(context.Background(), "cust-1", 20, 0)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestOrderRepository_FindByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE status = ?").
		WithArgs("PENDING_PAYMENT", 10, 0).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	orders, err := repo.FindByStatus(context.Background(), domain.OrderStatusPendingPayment, 10, 0)

	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)

	mock.ExpectExec("DELETE FROM Orders").
		WithArgs("PED-ABC12345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "PED-ABC12345"))
}

func TestOrderRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)

	mock.ExpectExec("DELETE FROM Orders").
		WithArgs("PED-MISSING1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Delete(context.Background(), "PED-MISSING1")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_RoundTripPreservesTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMySQLOrderRepository(db)
	order := buildOrder(t)
	order.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	order.UpdatedAt = order.CreatedAt

	mock.ExpectQuery("SELECT (.+) FROM Orders WHERE id = ?").
		WithArgs(order.ID).
		WillReturnRows(orderRow(t, order))
	mock.ExpectQuery("SELECT (.+) FROM OrderItems WHERE orderId = ?").
		WithArgs(order.ID).
		WillReturnRows(itemRows(order))

	found, err := repo.FindByID(context.Background(), order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.CreatedAt, found.CreatedAt)
}
