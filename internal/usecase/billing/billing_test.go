package billing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/infra/repository"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
	"github.com/BruksfildServices01/lawnmate-api/internal/testutil"
)

var lead = auth.Employee{ID: 1, Role: auth.RoleLead}

type fixture struct {
	db      *gorm.DB
	repo    *repository.BillingGormRepository
	invoice *models.Invoice
}

func setup(t *testing.T, total money.Cents) fixture {
	db := testutil.NewDB(t)
	cust := testutil.CreateCustomer(t, db, "c@example.com", "")
	ap := testutil.CreateAppointment(t, db, cust.ID)
	inv := testutil.CreateInvoice(t, db, ap.ID, total)
	return fixture{db: db, repo: repository.NewBillingGormRepository(db), invoice: inv}
}

func (f fixture) reload(t *testing.T) models.Invoice {
	t.Helper()
	var inv models.Invoice
	require.NoError(t, f.db.First(&inv, f.invoice.ID).Error)
	return inv
}

func assertInvoice(t *testing.T, inv models.Invoice, paid, balance money.Cents, status string) {
	t.Helper()
	assert.Equal(t, paid, inv.AmountPaid, "amount_paid")
	assert.Equal(t, balance, inv.Balance, "balance")
	assert.Equal(t, status, inv.Status, "status")
	assert.Equal(t, inv.Total, inv.AmountPaid+inv.Balance)
}

func paymentInput(invoiceID uint, amount money.Cents) CreatePaymentInput {
	return CreatePaymentInput{
		InvoiceID:     invoiceID,
		Amount:        amount,
		PaymentDate:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "cash",
	}
}

func TestPaymentLifecycle(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	create := NewCreatePayment(f.repo, nil, nil)
	update := NewUpdatePayment(f.repo, nil, nil)
	remove := NewDeletePayment(f.repo, nil, nil)

	first, _, err := create.Execute(ctx, lead, paymentInput(f.invoice.ID, 5000))
	require.NoError(t, err)
	assertInvoice(t, f.reload(t), 5000, 5000, "unpaid")

	second, inv, err := create.Execute(ctx, lead, paymentInput(f.invoice.ID, 5000))
	require.NoError(t, err)
	assertInvoice(t, *inv, 10000, 0, "paid")
	assertInvoice(t, f.reload(t), 10000, 0, "paid")

	newAmount := money.Cents(3000)
	_, _, err = update.Execute(ctx, lead, UpdatePaymentInput{PaymentID: second.ID, Amount: &newAmount})
	require.NoError(t, err)
	assertInvoice(t, f.reload(t), 8000, 2000, "unpaid")

	_, err = remove.Execute(ctx, auth.Employee{ID: 2, Role: auth.RoleAdmin}, first.ID)
	require.NoError(t, err)
	assertInvoice(t, f.reload(t), 3000, 7000, "unpaid")

	var remaining []models.Payment
	require.NoError(t, f.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
	assert.Equal(t, money.Cents(3000), remaining[0].Amount)
}

func TestReadTwiceIsStable(t *testing.T) {
	f := setup(t, 10000)
	_, _, err := NewCreatePayment(f.repo, nil, nil).Execute(context.Background(), lead, paymentInput(f.invoice.ID, 2550))
	require.NoError(t, err)

	a, b := f.reload(t), f.reload(t)
	assert.Equal(t, a.AmountPaid, b.AmountPaid)
	assert.Equal(t, a.Balance, b.Balance)
	assert.Equal(t, a.Status, b.Status)
}

func TestUpdateWithoutAmountLeavesInvoice(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	p, _, err := NewCreatePayment(f.repo, nil, nil).Execute(ctx, lead, paymentInput(f.invoice.ID, 4000))
	require.NoError(t, err)
	before := f.reload(t)

	method := "check"
	ref := "CHK-1001"
	updated, _, err := NewUpdatePayment(f.repo, nil, nil).Execute(ctx, lead, UpdatePaymentInput{
		PaymentID:       p.ID,
		PaymentMethod:   &method,
		ReferenceNumber: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "check", updated.PaymentMethod)
	assert.Equal(t, "CHK-1001", *updated.ReferenceNumber)

	after := f.reload(t)
	assert.Equal(t, before.AmountPaid, after.AmountPaid)
	assert.Equal(t, before.Balance, after.Balance)
	assert.Equal(t, before.Status, after.Status)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := setup(t, 10000)
	uc := NewCreatePayment(f.repo, nil, nil)
	ctx := context.Background()

	_, _, err := uc.Execute(ctx, lead, paymentInput(f.invoice.ID, 0))
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	_, _, err = uc.Execute(ctx, lead, paymentInput(f.invoice.ID, -500))
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	in := paymentInput(f.invoice.ID, 100)
	in.PaymentMethod = " "
	_, _, err = uc.Execute(ctx, lead, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method"))

	_, _, err = uc.Execute(ctx, lead, paymentInput(9999, 100))
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	assertInvoice(t, f.reload(t), 0, 10000, "unpaid")
}

func TestMissingPayment(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	amount := money.Cents(100)

	_, _, err := NewUpdatePayment(f.repo, nil, nil).Execute(ctx, lead, UpdatePaymentInput{PaymentID: 42, Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	_, err = NewDeletePayment(f.repo, nil, nil).Execute(ctx, lead, 42)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

// failingRepo breaks SaveInvoice so the transaction must roll back the
// payment row written just before it.
type failingRepo struct {
	domain.Repository
}

type failingTx struct {
	domain.Tx
}

var errBoom = errors.New("boom")

func (r failingRepo) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.Tx) error {
		return fn(failingTx{Tx: tx})
	})
}

func (failingTx) SaveInvoice(context.Context, *models.Invoice) error {
	return errBoom
}

func TestFailedReconciliationRollsBack(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()

	ok := NewCreatePayment(f.repo, nil, nil)
	existing, _, err := ok.Execute(ctx, lead, paymentInput(f.invoice.ID, 2000))
	require.NoError(t, err)

	broken := failingRepo{Repository: f.repo}

	_, _, err = NewCreatePayment(broken, nil, nil).Execute(ctx, lead, paymentInput(f.invoice.ID, 5000))
	assert.ErrorIs(t, err, errBoom)

	amount := money.Cents(9000)
	_, _, err = NewUpdatePayment(broken, nil, nil).Execute(ctx, lead, UpdatePaymentInput{PaymentID: existing.ID, Amount: &amount})
	assert.ErrorIs(t, err, errBoom)

	_, err = NewDeletePayment(broken, nil, nil).Execute(ctx, lead, existing.ID)
	assert.ErrorIs(t, err, errBoom)

	var payments []models.Payment
	require.NoError(t, f.db.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, money.Cents(2000), payments[0].Amount)
	assertInvoice(t, f.reload(t), 2000, 8000, "unpaid")
}

func TestUpdateInvoiceTotalReconciles(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	_, _, err := NewCreatePayment(f.repo, nil, nil).Execute(ctx, lead, paymentInput(f.invoice.ID, 10000))
	require.NoError(t, err)

	total := money.Cents(12500)
	inv, err := NewUpdateInvoice(f.repo, nil, nil).Execute(ctx, lead, UpdateInvoiceInput{InvoiceID: f.invoice.ID, Total: &total})
	require.NoError(t, err)
	assertInvoice(t, *inv, 10000, 2500, "unpaid")

	negative := money.Cents(-1)
	_, err = NewUpdateInvoice(f.repo, nil, nil).Execute(ctx, lead, UpdateInvoiceInput{InvoiceID: f.invoice.ID, Total: &negative})
	assert.True(t, httperr.IsBusiness(err, "invalid_total"))
}

func TestDeleteInvoiceCascades(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	svc := testutil.CreateService(t, f.db, "Mowing")
	require.NoError(t, f.db.Create(&models.InvoiceItem{InvoiceID: f.invoice.ID, ServiceID: svc.ID, Cost: 10000}).Error)
	_, _, err := NewCreatePayment(f.repo, nil, nil).Execute(ctx, lead, paymentInput(f.invoice.ID, 1000))
	require.NoError(t, err)

	require.NoError(t, NewDeleteInvoice(f.repo, nil).Execute(ctx, lead, f.invoice.ID))

	var count int64
	f.db.Model(&models.Invoice{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.Payment{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&models.InvoiceItem{}).Count(&count)
	assert.Zero(t, count)

	err = NewDeleteInvoice(f.repo, nil).Execute(ctx, lead, f.invoice.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestCreateInvoice(t *testing.T) {
	f := setup(t, 0)
	ctx := context.Background()
	svc := testutil.CreateService(t, f.db, "Edging")

	inv, err := NewCreateInvoice(f.repo, nil).Execute(ctx, lead, CreateInvoiceInput{
		AppointmentID: f.invoice.AppointmentID,
		Subtotal:      4000,
		Total:         4330,
		TaxRate:       8.25,
		Items:         []ItemInput{{ServiceID: svc.ID, Cost: 4000}},
	})
	require.NoError(t, err)
	assertInvoice(t, *inv, 0, 4330, "unpaid")
	assert.Equal(t, 1, inv.Attempt)
	require.Len(t, inv.Items, 1)

	_, err = NewCreateInvoice(f.repo, nil).Execute(ctx, lead, CreateInvoiceInput{AppointmentID: 999, Total: 100})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)

	_, err = NewCreateInvoice(f.repo, nil).Execute(ctx, lead, CreateInvoiceInput{
		AppointmentID: f.invoice.AppointmentID,
		Total:         100,
		Items:         []ItemInput{{ServiceID: 999, Cost: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrServiceNotFound)
}

func TestGenerateInvoiceFromQuote(t *testing.T) {
	f := setup(t, 0)
	ctx := context.Background()
	mow := testutil.CreateService(t, f.db, "Mowing")
	trim := testutil.CreateService(t, f.db, "Trimming")

	quote := models.Quote{
		AppointmentID: f.invoice.AppointmentID,
		Estimate:      6000,
		Items: []models.QuoteItem{
			{ServiceID: mow.ID, Cost: 4000},
			{ServiceID: trim.ID, Cost: 2000},
		},
	}
	require.NoError(t, f.db.Create(&quote).Error)

	uc := NewGenerateInvoice(f.repo, nil)
	uc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	inv, err := uc.Execute(ctx, lead, GenerateInvoiceInput{AppointmentID: f.invoice.AppointmentID, TaxRate: 10})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(6000), inv.Subtotal)
	assert.Equal(t, money.Cents(6600), inv.Total)
	assertInvoice(t, *inv, 0, 6600, "unpaid")
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), *inv.DueDate)

	var items []models.InvoiceItem
	require.NoError(t, f.db.Where("invoice_id = ?", inv.ID).Find(&items).Error)
	assert.Len(t, items, 2)
}

func TestGenerateInvoiceWithoutItems(t *testing.T) {
	f := setup(t, 0)
	_, err := NewGenerateInvoice(f.repo, nil).Execute(context.Background(), lead, GenerateInvoiceInput{
		AppointmentID: f.invoice.AppointmentID,
	})
	assert.True(t, httperr.IsBusiness(err, "no_billable_items"))
}

func TestConcurrentPaymentsAllLand(t *testing.T) {
	f := setup(t, 10000)
	ctx := context.Background()
	create := NewCreatePayment(f.repo, nil, nil)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := create.Execute(ctx, lead, paymentInput(f.invoice.ID, 1000))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("invoice_id = ?", f.invoice.ID).Count(&count).Error)
	assert.Equal(t, int64(n), count)
	assertInvoice(t, f.reload(t), 10000, 0, "paid")
}
