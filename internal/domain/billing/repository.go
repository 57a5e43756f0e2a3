package billing

import (
	"context"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

var (
	ErrInvoiceNotFound     = httperr.ErrBusinessMsg("invoice_not_found", "Invoice not found")
	ErrPaymentNotFound     = httperr.ErrBusinessMsg("payment_not_found", "Payment not found")
	ErrAppointmentNotFound = httperr.ErrBusinessMsg("appointment_not_found", "Appointment not found")
	ErrServiceNotFound     = httperr.ErrBusinessMsg("service_not_found", "Service not found")
)

type Repository interface {
	// -------- Reads --------
	GetInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	ListPaymentsForInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	LatestQuoteForAppointment(ctx context.Context, appointmentID uint) (*models.Quote, error)
	ServicesExist(ctx context.Context, ids []uint) (bool, error)

	// Transaction runs fn atomically; any error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write side, only reachable inside Repository.Transaction.
// Lock* methods hold a row lock until commit.
type Tx interface {
	LockInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	LockPayment(ctx context.Context, id uint) (*models.Payment, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	SavePayment(ctx context.Context, p *models.Payment) error
	DeletePayment(ctx context.Context, p *models.Payment) error

	CreateInvoice(ctx context.Context, inv *models.Invoice, items []models.InvoiceItem) error
	SaveInvoice(ctx context.Context, inv *models.Invoice) error
	DeleteInvoice(ctx context.Context, inv *models.Invoice) error
}
