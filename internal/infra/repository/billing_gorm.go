package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type BillingGormRepository struct {
	db *gorm.DB
}

func NewBillingGormRepository(db *gorm.DB) *BillingGormRepository {
	return &BillingGormRepository{db: db}
}

var (
	_ domain.Repository = (*BillingGormRepository)(nil)
	_ domain.Tx         = (*billingGormTx)(nil)
)

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *BillingGormRepository) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, notFound(err, domain.ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (r *BillingGormRepository) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}
	return &p, nil
}

func (r *BillingGormRepository) ListPaymentsForInvoice(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *BillingGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}
	return &ap, nil
}

// LatestQuoteForAppointment returns nil, nil when the appointment has no quote.
func (r *BillingGormRepository) LatestQuoteForAppointment(ctx context.Context, appointmentID uint) (*models.Quote, error) {
	var q models.Quote
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("appointment_id = ?", appointmentID).
		Order("created_at DESC, id DESC").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *BillingGormRepository) ServicesExist(ctx context.Context, ids []uint) (bool, error) {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return true, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return false, err
	}
	return int(count) == len(unique), nil
}

func (r *BillingGormRepository) Transaction(ctx context.Context, fn func(tx domain.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&billingGormTx{db: tx})
	})
}

// --------------------------------------------------
// Writes (inside a transaction)
// --------------------------------------------------

type billingGormTx struct {
	db *gorm.DB
}

func (t *billingGormTx) LockInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, id).Error; err != nil {
		return nil, notFound(err, domain.ErrInvoiceNotFound)
	}
	return &inv, nil
}

func (t *billingGormTx) LockPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}
	return &p, nil
}

func (t *billingGormTx) CreatePayment(ctx context.Context, p *models.Payment) error {
	return t.db.WithContext(ctx).Create(p).Error
}

func (t *billingGormTx) SavePayment(ctx context.Context, p *models.Payment) error {
	return t.db.WithContext(ctx).Save(p).Error
}

func (t *billingGormTx) DeletePayment(ctx context.Context, p *models.Payment) error {
	return t.db.WithContext(ctx).Delete(p).Error
}

func (t *billingGormTx) CreateInvoice(ctx context.Context, inv *models.Invoice, items []models.InvoiceItem) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].InvoiceID = inv.ID
	}
	if err := t.db.WithContext(ctx).Create(&items).Error; err != nil {
		return err
	}
	inv.Items = items
	return nil
}

// SaveInvoice writes columns only, never associations.
func (t *billingGormTx) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
}

func (t *billingGormTx) DeleteInvoice(ctx context.Context, inv *models.Invoice) error {
	db := t.db.WithContext(ctx)
	if err := db.Where("invoice_id = ?", inv.ID).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	if err := db.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	return db.Delete(inv).Error
}

func notFound(err, replacement error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return replacement
	}
	return err
}
