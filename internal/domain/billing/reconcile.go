package billing

import (
	"fmt"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

// ===============================
// Status
// ===============================

func DeriveStatus(balance money.Cents) string {
	if balance <= 0 {
		return models.InvoiceStatusPaid
	}
	return models.InvoiceStatusUnpaid
}

// ===============================
// Validations
// ===============================

func ValidateAmount(amount money.Cents) error {
	if amount <= 0 {
		return httperr.ErrBusinessMsg("invalid_amount", "Payment amount must be greater than zero")
	}
	return nil
}

func ValidateTotal(total money.Cents) error {
	if total < 0 {
		return httperr.ErrBusinessMsg("invalid_total", "Invoice total cannot be negative")
	}
	return nil
}

// CheckInvariant reports a broken amount_paid + balance == total.
func CheckInvariant(inv *models.Invoice) error {
	if inv.AmountPaid+inv.Balance != inv.Total {
		return fmt.Errorf(
			"invoice %d out of balance: paid %s + balance %s != total %s",
			inv.ID, inv.AmountPaid, inv.Balance, inv.Total,
		)
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

// Open sets the derived fields of a new invoice.
func Open(inv *models.Invoice) {
	inv.AmountPaid = 0
	inv.Balance = inv.Total
	inv.Status = DeriveStatus(inv.Balance)
}

// PaymentCreated only ever moves status to paid; a positive balance
// leaves the previous status alone.
func PaymentCreated(inv *models.Invoice, amount money.Cents) {
	inv.AmountPaid += amount
	inv.Balance = inv.Total - inv.AmountPaid
	if inv.Balance <= 0 {
		inv.Status = models.InvoiceStatusPaid
	}
}

func PaymentAmountChanged(inv *models.Invoice, oldAmount, newAmount money.Cents) {
	inv.AmountPaid += newAmount - oldAmount
	inv.Balance = inv.Total - inv.AmountPaid
	inv.Status = DeriveStatus(inv.Balance)
}

func PaymentDeleted(inv *models.Invoice, amount money.Cents) {
	inv.AmountPaid -= amount
	inv.Balance = inv.Total - inv.AmountPaid
	inv.Status = DeriveStatus(inv.Balance)
}

func TotalChanged(inv *models.Invoice, total money.Cents) {
	inv.Total = total
	inv.Balance = inv.Total - inv.AmountPaid
	inv.Status = DeriveStatus(inv.Balance)
}
