package billing

import (
	"context"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type DeletePayment struct {
	repo domain.Repository
	notifier
}

func NewDeletePayment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *DeletePayment {
	return &DeletePayment{
		repo:     repo,
		notifier: notifier{audit: auditDispatcher, events: eventDispatcher},
	}
}

// Execute reverses the payment on its invoice and removes it. The invoice
// itself is kept.
func (uc *DeletePayment) Execute(
	ctx context.Context,
	actor auth.Employee,
	paymentID uint,
) (*models.Invoice, error) {

	var (
		payment *models.Payment
		invoice *models.Invoice
	)
	err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		p, err := tx.LockPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		inv, err := tx.LockInvoice(ctx, p.InvoiceID)
		if err != nil {
			return err
		}

		domain.PaymentDeleted(inv, p.Amount)
		if err := domain.CheckInvariant(inv); err != nil {
			return err
		}
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}
		if err := tx.DeletePayment(ctx, p); err != nil {
			return err
		}

		payment, invoice = p, inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.record(audit.ByEmployee(actor, "payment_deleted", "payment", payment.ID, map[string]any{
		"invoice_id": invoice.ID,
		"amount":     payment.Amount,
	}))
	uc.emit(events.New(events.PaymentDeleted, map[string]any{
		"payment_id": payment.ID,
		"invoice":    invoiceSnapshot(invoice),
	}))

	return invoice, nil
}
