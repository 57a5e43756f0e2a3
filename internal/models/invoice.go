package models

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

const (
	InvoiceStatusPaid   = "paid"
	InvoiceStatusUnpaid = "unpaid"
)

// Invoice carries derived billing fields (AmountPaid, Balance, Status)
// that only the billing package writes.
type Invoice struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AppointmentID uint        `gorm:"index;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Subtotal money.Cents `gorm:"not null;default:0" json:"subtotal"`
	Total    money.Cents `gorm:"not null;default:0" json:"total"`
	TaxRate  float64     `gorm:"not null;default:0" json:"tax_rate"`
	Attempt  int         `gorm:"not null;default:1" json:"attempt"`
	DueDate  *time.Time  `json:"due_date"`

	AmountPaid money.Cents `gorm:"not null;default:0" json:"amount_paid"`
	Balance    money.Cents `gorm:"not null;default:0" json:"balance"`
	Status     string      `gorm:"size:16;not null;default:'unpaid'" json:"status"`

	Items    []InvoiceItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Payments []Payment     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvoiceItem struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	InvoiceID uint        `gorm:"index;not null" json:"invoice_id"`
	ServiceID uint        `gorm:"index;not null" json:"service_id"`
	Service   Service     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Cost      money.Cents `gorm:"not null;default:0" json:"cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
