package billing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

func newInvoice(total money.Cents) *models.Invoice {
	inv := &models.Invoice{ID: 1, Total: total}
	Open(inv)
	return inv
}

func assertState(t *testing.T, inv *models.Invoice, paid, balance money.Cents, status string) {
	t.Helper()
	assert.Equal(t, paid, inv.AmountPaid, "amount_paid")
	assert.Equal(t, balance, inv.Balance, "balance")
	assert.Equal(t, status, inv.Status, "status")
	assert.NoError(t, CheckInvariant(inv))
}

func TestOpen(t *testing.T) {
	assertState(t, newInvoice(10000), 0, 10000, "unpaid")
	assertState(t, newInvoice(0), 0, 0, "paid")
}

func TestScenarioSequence(t *testing.T) {
	inv := newInvoice(10000)

	// two halves
	PaymentCreated(inv, 5000)
	assertState(t, inv, 5000, 5000, "unpaid")
	PaymentCreated(inv, 5000)
	assertState(t, inv, 10000, 0, "paid")

	// second payment 50.00 -> 30.00
	PaymentAmountChanged(inv, 5000, 3000)
	assertState(t, inv, 8000, 2000, "unpaid")

	// drop the first 50.00
	PaymentDeleted(inv, 5000)
	assertState(t, inv, 3000, 7000, "unpaid")
}

func TestCreateNeverResetsStatus(t *testing.T) {
	inv := newInvoice(10000)
	inv.Status = models.InvoiceStatusPaid

	PaymentCreated(inv, 100)

	assert.Equal(t, money.Cents(9900), inv.Balance)
	assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
}

func TestOverpayment(t *testing.T) {
	inv := newInvoice(10000)
	PaymentCreated(inv, 12000)
	assertState(t, inv, 12000, -2000, "paid")

	PaymentDeleted(inv, 12000)
	assertState(t, inv, 0, 10000, "unpaid")
}

func TestTotalChanged(t *testing.T) {
	inv := newInvoice(10000)
	PaymentCreated(inv, 10000)
	require.Equal(t, "paid", inv.Status)

	TotalChanged(inv, 15000)
	assertState(t, inv, 10000, 5000, "unpaid")

	TotalChanged(inv, 9000)
	assertState(t, inv, 10000, -1000, "paid")
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(1))
	assert.True(t, httperr.IsBusiness(ValidateAmount(0), "invalid_amount"))
	assert.True(t, httperr.IsBusiness(ValidateAmount(-100), "invalid_amount"))
	assert.True(t, httperr.IsBusiness(ValidateTotal(-1), "invalid_total"))
}

// Random create/update/delete sequences keep the invariant and the
// status derivation after every step.
func TestRandomSequencesKeepInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		inv := newInvoice(money.Cents(rng.Intn(50000)))
		var payments []money.Cents

		for step := 0; step < 30; step++ {
			switch op := rng.Intn(3); {
			case op == 0 || len(payments) == 0:
				amount := money.Cents(rng.Intn(20000) + 1)
				payments = append(payments, amount)
				PaymentCreated(inv, amount)
				if inv.Balance <= 0 {
					require.Equal(t, "paid", inv.Status)
				}
			case op == 1:
				i := rng.Intn(len(payments))
				amount := money.Cents(rng.Intn(20000) + 1)
				PaymentAmountChanged(inv, payments[i], amount)
				payments[i] = amount
				require.Equal(t, DeriveStatus(inv.Balance), inv.Status)
			default:
				i := rng.Intn(len(payments))
				PaymentDeleted(inv, payments[i])
				payments = append(payments[:i], payments[i+1:]...)
				require.Equal(t, DeriveStatus(inv.Balance), inv.Status)
			}

			require.NoError(t, CheckInvariant(inv))
			require.Equal(t, money.Sum(payments...), inv.AmountPaid)
		}
	}
}
