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

type CreatePaymentInput struct {
	InvoiceID       uint
	Amount          money.Cents
	PaymentDate     time.Time
	PaymentMethod   string
	ReferenceNumber *string
	Notes           *string
}

type CreatePayment struct {
	repo domain.Repository
	notifier
}

func NewCreatePayment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *CreatePayment {
	return &CreatePayment{
		repo:     repo,
		notifier: notifier{audit: auditDispatcher, events: eventDispatcher},
	}
}

func (uc *CreatePayment) Execute(
	ctx context.Context,
	actor auth.Employee,
	in CreatePaymentInput,
) (*models.Payment, *models.Invoice, error) {

	// ---- validation ----
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, nil, err
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return nil, nil, httperr.ErrBusinessMsg("invalid_payment_method", "payment_method is required")
	}
	if in.PaymentDate.IsZero() {
		return nil, nil, httperr.ErrBusinessMsg("invalid_payment_date", "payment_date is required")
	}

	// ---- payment + invoice, one transaction ----
	var (
		payment   models.Payment
		invoice   *models.Invoice
		statusWas string
	)
	err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		inv, err := tx.LockInvoice(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		statusWas = inv.Status

		payment = models.Payment{
			InvoiceID:       inv.ID,
			Amount:          in.Amount,
			PaymentDate:     in.PaymentDate,
			PaymentMethod:   method,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
		}
		if err := tx.CreatePayment(ctx, &payment); err != nil {
			return err
		}

		domain.PaymentCreated(inv, payment.Amount)
		if err := domain.CheckInvariant(inv); err != nil {
			return err
		}
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return err
		}

		invoice = inv
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// ---- side effects ----
	uc.record(audit.ByEmployee(actor, "payment_created", "payment", payment.ID, map[string]any{
		"invoice_id": invoice.ID,
		"amount":     payment.Amount,
	}))
	uc.emit(events.New(events.PaymentRecorded, map[string]any{
		"payment_id": payment.ID,
		"invoice":    invoiceSnapshot(invoice),
	}))
	uc.invoicePaidIfSettled(statusWas, invoice)

	return &payment, invoice, nil
}
