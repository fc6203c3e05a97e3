package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Tests are skipped when
// no MySQL instance is listening on localhost:3306 with a 'hornero_test'
// schema.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/hornero_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderItems", "Orders", "Carts", "Products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(12,2) NOT NULL,
		currency VARCHAR(3) NOT NULL DEFAULT 'ARS',
		category VARCHAR(100) NOT NULL,
		image VARCHAR(512),
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		isAvailable TINYINT(1) NOT NULL DEFAULT 1,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (category),
		INDEX idx_active (isActive)
	)`

	createCartsTable := `
	CREATE TABLE IF NOT EXISTS Carts (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		customerId VARCHAR(64),
		currency VARCHAR(3) NOT NULL DEFAULT 'ARS',
		items JSON NOT NULL,
		createdAt DATETIME NOT NULL,
		updatedAt DATETIME NOT NULL,
		INDEX idx_customer (customerId)
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id VARCHAR(32) NOT NULL PRIMARY KEY,
		customerId VARCHAR(64) NOT NULL,
		customerName VARCHAR(255) NOT NULL,
		customerEmail VARCHAR(255) NOT NULL,
		customerPhone VARCHAR(30),
		deliveryType VARCHAR(20) NOT NULL,
		deliveryAddress VARCHAR(255),
		deliveryFee DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		currency VARCHAR(3) NOT NULL DEFAULT 'ARS',
		status VARCHAR(32) NOT NULL,
		statusHistory JSON,
		paymentMethod VARCHAR(20),
		paymentState VARCHAR(20),
		paymentAmount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		paymentId VARCHAR(64),
		preferenceId VARCHAR(64),
		externalReference VARCHAR(64),
		rejectionReason VARCHAR(255),
		discount DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		tax DECIMAL(12,2) NOT NULL DEFAULT 0.00,
		cancellationReason VARCHAR(255),
		notes TEXT,
		version INT NOT NULL DEFAULT 0,
		createdAt DATETIME NOT NULL,
		updatedAt DATETIME NOT NULL,
		INDEX idx_customer (customerId),
		INDEX idx_status (status),
		INDEX idx_external_reference (externalReference)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS OrderItems (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId VARCHAR(32) NOT NULL,
		productId VARCHAR(64) NOT NULL,
		productName VARCHAR(255) NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		FOREIGN KEY (orderId) REFERENCES Orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId),
		INDEX idx_product (productId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProductsTable},
		{"Carts", createCartsTable},
		{"Orders", createOrdersTable},
		{"OrderItems", createOrderItemsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
