package billing

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

// UpdatePaymentInput uses nil for "leave unchanged".
type UpdatePaymentInput struct {
	PaymentID       uint
	Amount          *money.Cents
	PaymentDate     *time.Time
	PaymentMethod   *string
	ReferenceNumber *string
	Notes           *string
}

type UpdatePayment struct {
	repo domain.Repository
	notifier
}

func NewUpdatePayment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *UpdatePayment {
	return &UpdatePayment{
		repo:     repo,
		notifier: notifier{audit: auditDispatcher, events: eventDispatcher},
	}
}

func (uc *UpdatePayment) Execute(
	ctx context.Context,
	actor auth.Employee,
	in UpdatePaymentInput,
) (*models.Payment, *models.Invoice, error) {

	if in.Amount != nil {
		if err := domain.ValidateAmount(*in.Amount); err != nil {
			return nil, nil, err
		}
	}
	if in.PaymentMethod != nil && strings.TrimSpace(*in.PaymentMethod) == "" {
		return nil, nil, httperr.ErrBusinessMsg("invalid_payment_method", "payment_method cannot be empty")
	}

	var (
		payment   *models.Payment
		invoice   *models.Invoice
		oldAmount money.Cents
		statusWas string
	)
	err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		p, err := tx.LockPayment(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		inv, err := tx.LockInvoice(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		oldAmount = p.Amount
		statusWas = inv.Status

		if in.Amount != nil {
			p.Amount = *in.Amount
			domain.PaymentAmountChanged(inv, oldAmount, p.Amount)
			if err := domain.CheckInvariant(inv); err != nil {
				return err
			}
			if err := tx.SaveInvoice(ctx, inv); err != nil {
				return err
			}
		}

		if in.PaymentDate != nil {
			p.PaymentDate = *in.PaymentDate
		}
		if in.PaymentMethod != nil {
			p.PaymentMethod = strings.TrimSpace(*in.PaymentMethod)
		}
		if in.ReferenceNumber != nil {
			p.ReferenceNumber = in.ReferenceNumber
		}
		if in.Notes != nil {
			p.Notes = in.Notes
		}

		if err := tx.SavePayment(ctx, p); err != nil {
			return err
		}

		payment, invoice = p, inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	uc.record(audit.ByEmployee(actor, "payment_updated", "payment", payment.ID, map[string]any{
		"invoice_id": invoice.ID,
		"old_amount": oldAmount,
		"new_amount": payment.Amount,
	}))
	uc.emit(events.New(events.PaymentUpdated, map[string]any{
		"payment_id": payment.ID,
		"invoice":    invoiceSnapshot(invoice),
	}))
	uc.invoicePaidIfSettled(statusWas, invoice)

	return payment, invoice, nil
}
