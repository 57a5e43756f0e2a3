package models

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

type Payment struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	InvoiceID       uint        `gorm:"index;not null" json:"invoice_id"`
	Amount          money.Cents `gorm:"not null" json:"amount"`
	PaymentDate     time.Time   `gorm:"not null" json:"payment_date"`
	PaymentMethod   string      `gorm:"size:32;not null" json:"payment_method"`
	ReferenceNumber *string     `gorm:"size:128" json:"reference_number"`
	Notes           *string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
