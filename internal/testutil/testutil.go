// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

// NewDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func CreateEmployee(t *testing.T, db *gorm.DB, email, password string, role auth.Role) *models.Employee {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)

	emp := &models.Employee{
		Name:         "Employee " + email,
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
	}
	require.NoError(t, db.Create(emp).Error)
	return emp
}

func CreateCustomer(t *testing.T, db *gorm.DB, email, password string) *models.Customer {
	t.Helper()
	cust := &models.Customer{Name: "Customer " + email, Email: email}
	if password != "" {
		hash, err := auth.HashPassword(password, 4)
		require.NoError(t, err)
		cust.PasswordHash = &hash
	}
	require.NoError(t, db.Create(cust).Error)
	return cust
}

// CreateAppointment makes a location and a one-hour appointment for the customer.
func CreateAppointment(t *testing.T, db *gorm.DB, customerID uint) *models.Appointment {
	t.Helper()
	loc := &models.CustomerLocation{CustomerID: customerID, Address: "1 Elm St"}
	require.NoError(t, db.Create(loc).Error)

	arrival := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		CustomerLocationID: loc.ID,
		ArrivalDatetime:    arrival,
		DepartureDatetime:  arrival.Add(time.Hour),
		Team:               "A",
	}
	require.NoError(t, db.Create(ap).Error)
	return ap
}

// CreateInvoice stores an open invoice for total.
func CreateInvoice(t *testing.T, db *gorm.DB, appointmentID uint, total money.Cents) *models.Invoice {
	t.Helper()
	inv := &models.Invoice{
		AppointmentID: appointmentID,
		Subtotal:      total,
		Total:         total,
		Attempt:       1,
		Balance:       total,
		Status:        models.InvoiceStatusUnpaid,
	}
	if total <= 0 {
		inv.Status = models.InvoiceStatusPaid
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func CreateService(t *testing.T, db *gorm.DB, name string) *models.Service {
	t.Helper()
	svc := &models.Service{Name: name, Active: true}
	require.NoError(t, db.Create(svc).Error)
	return svc
}
