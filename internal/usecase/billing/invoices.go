package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

const DefaultDueDays = 30

type ItemInput struct {
	ServiceID uint
	Cost      money.Cents
}

// ======================================================
// CREATE (explicit amounts)
// ======================================================

type CreateInvoiceInput struct {
	AppointmentID uint
	Subtotal      money.Cents
	Total         money.Cents
	TaxRate       float64
	Attempt       int
	DueDate       *time.Time
	Items         []ItemInput
}

type CreateInvoice struct {
	repo domain.Repository
	notifier
}

func NewCreateInvoice(repo domain.Repository, auditDispatcher *audit.Dispatcher) *CreateInvoice {
	return &CreateInvoice{repo: repo, notifier: notifier{audit: auditDispatcher}}
}

func (uc *CreateInvoice) Execute(
	ctx context.Context,
	actor auth.Employee,
	in CreateInvoiceInput,
) (*models.Invoice, error) {

	if err := domain.ValidateTotal(in.Total); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetAppointment(ctx, in.AppointmentID); err != nil {
		return nil, err
	}
	items, err := buildItems(ctx, uc.repo, in.Items)
	if err != nil {
		return nil, err
	}

	attempt := in.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	inv := &models.Invoice{
		AppointmentID: in.AppointmentID,
		Subtotal:      in.Subtotal,
		Total:         in.Total,
		TaxRate:       in.TaxRate,
		Attempt:       attempt,
		DueDate:       in.DueDate,
	}
	domain.Open(inv)

	if err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		return tx.CreateInvoice(ctx, inv, items)
	}); err != nil {
		return nil, err
	}

	uc.record(audit.ByEmployee(actor, "invoice_created", "invoice", inv.ID, invoiceSnapshot(inv)))
	return inv, nil
}

func buildItems(ctx context.Context, repo domain.Repository, in []ItemInput) ([]models.InvoiceItem, error) {
	if len(in) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(in))
	items := make([]models.InvoiceItem, 0, len(in))
	for _, it := range in {
		if it.Cost < 0 {
			return nil, httperr.ErrBusinessMsg("invalid_cost", "Item cost cannot be negative")
		}
		ids = append(ids, it.ServiceID)
		items = append(items, models.InvoiceItem{ServiceID: it.ServiceID, Cost: it.Cost})
	}

	ok, err := repo.ServicesExist(ctx, ids)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return items, nil
}

// ======================================================
// GENERATE FROM APPOINTMENT
// ======================================================

type GenerateInvoiceInput struct {
	AppointmentID uint
	TaxRate       float64 // percent
	DueDate       *time.Time
	// Items overrides the appointment's latest quote when set.
	Items []ItemInput
}

type GenerateInvoice struct {
	repo domain.Repository
	now  func() time.Time
	notifier
}

func NewGenerateInvoice(repo domain.Repository, auditDispatcher *audit.Dispatcher) *GenerateInvoice {
	return &GenerateInvoice{repo: repo, now: time.Now, notifier: notifier{audit: auditDispatcher}}
}

func (uc *GenerateInvoice) Execute(
	ctx context.Context,
	actor auth.Employee,
	in GenerateInvoiceInput,
) (*models.Invoice, error) {

	if in.TaxRate < 0 || in.TaxRate > 100 {
		return nil, httperr.ErrBusinessMsg("invalid_tax_rate", "tax_rate must be between 0 and 100")
	}
	if _, err := uc.repo.GetAppointment(ctx, in.AppointmentID); err != nil {
		return nil, err
	}

	source := in.Items
	if len(source) == 0 {
		quote, err := uc.repo.LatestQuoteForAppointment(ctx, in.AppointmentID)
		if err != nil {
			return nil, err
		}
		if quote == nil || len(quote.Items) == 0 {
			return nil, httperr.ErrBusinessMsg("no_billable_items", "Appointment has no quoted items; send items explicitly")
		}
		for _, qi := range quote.Items {
			source = append(source, ItemInput{ServiceID: qi.ServiceID, Cost: qi.Cost})
		}
	}

	items, err := buildItems(ctx, uc.repo, source)
	if err != nil {
		return nil, err
	}

	var subtotal money.Cents
	for _, it := range items {
		subtotal += it.Cost
	}
	tax := subtotal.ApplyPercent(decimal.NewFromFloat(in.TaxRate))

	due := in.DueDate
	if due == nil {
		d := uc.now().AddDate(0, 0, DefaultDueDays)
		due = &d
	}

	inv := &models.Invoice{
		AppointmentID: in.AppointmentID,
		Subtotal:      subtotal,
		Total:         subtotal + tax,
		TaxRate:       in.TaxRate,
		Attempt:       1,
		DueDate:       due,
	}
	domain.Open(inv)

	if err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		return tx.CreateInvoice(ctx, inv, items)
	}); err != nil {
		return nil, err
	}

	uc.record(audit.ByEmployee(actor, "invoice_generated", "invoice", inv.ID, invoiceSnapshot(inv)))
	return inv, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateInvoiceInput struct {
	InvoiceID uint
	Subtotal  *money.Cents
	Total     *money.Cents
	TaxRate   *float64
	Attempt   *int
	DueDate   *time.Time
}

type UpdateInvoice struct {
	repo domain.Repository
	notifier
}

func NewUpdateInvoice(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *UpdateInvoice {
	return &UpdateInvoice{repo: repo, notifier: notifier{audit: auditDispatcher, events: eventDispatcher}}
}

// Execute never touches amount_paid; a new total re-derives balance and
// status.
func (uc *UpdateInvoice) Execute(
	ctx context.Context,
	actor auth.Employee,
	in UpdateInvoiceInput,
) (*models.Invoice, error) {

	if in.Total != nil {
		if err := domain.ValidateTotal(*in.Total); err != nil {
			return nil, err
		}
	}

	var (
		invoice   *models.Invoice
		statusWas string
	)
	err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		inv, err := tx.LockInvoice(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		statusWas = inv.Status

		if in.Subtotal != nil {
			inv.Subtotal = *in.Subtotal
		}
		if in.TaxRate != nil {
			inv.TaxRate = *in.TaxRate
		}
		if in.Attempt != nil {
			inv.Attempt = *in.Attempt
		}
		if in.DueDate != nil {
			inv.DueDate = in.DueDate
		}
		if in.Total != nil {
			domain.TotalChanged(inv, *in.Total)
		}
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
		return nil, err
	}

	uc.record(audit.ByEmployee(actor, "invoice_updated", "invoice", invoice.ID, invoiceSnapshot(invoice)))
	uc.invoicePaidIfSettled(statusWas, invoice)
	return invoice, nil
}

// ======================================================
// DELETE (cascades items and payments)
// ======================================================

type DeleteInvoice struct {
	repo domain.Repository
	notifier
}

func NewDeleteInvoice(repo domain.Repository, auditDispatcher *audit.Dispatcher) *DeleteInvoice {
	return &DeleteInvoice{repo: repo, notifier: notifier{audit: auditDispatcher}}
}

func (uc *DeleteInvoice) Execute(ctx context.Context, actor auth.Employee, invoiceID uint) error {
	var deleted *models.Invoice
	err := uc.repo.Transaction(ctx, func(tx domain.Tx) error {
		inv, err := tx.LockInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		deleted = inv
		return tx.DeleteInvoice(ctx, inv)
	})
	if err != nil {
		return err
	}

	uc.record(audit.ByEmployee(actor, "invoice_deleted", "invoice", deleted.ID, invoiceSnapshot(deleted)))
	return nil
}
