package billing

import (
	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

// notifier fans out side effects after a committed change. Either
// dispatcher may be nil.
type notifier struct {
	audit  *audit.Dispatcher
	events *events.Dispatcher
}

func (n notifier) record(ev audit.Event) {
	if n.audit != nil {
		n.audit.Dispatch(ev)
	}
}

func (n notifier) emit(ev events.Event) {
	if n.events != nil {
		n.events.Emit(ev)
	}
}

func (n notifier) invoicePaidIfSettled(before string, inv *models.Invoice) {
	if before != models.InvoiceStatusPaid && inv.Status == models.InvoiceStatusPaid {
		n.emit(events.New(events.InvoicePaid, invoiceSnapshot(inv)))
	}
}

func invoiceSnapshot(inv *models.Invoice) map[string]any {
	return map[string]any{
		"invoice_id":  inv.ID,
		"total":       inv.Total,
		"amount_paid": inv.AmountPaid,
		"balance":     inv.Balance,
		"status":      inv.Status,
	}
}
