package models

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

type Quote struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	AppointmentID uint        `gorm:"index;not null" json:"appointment_id"`
	EmployeeID    *uint       `gorm:"index" json:"employee_id"`
	Estimate      money.Cents `gorm:"not null;default:0" json:"estimate"`

	Items []QuoteItem `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuoteItem struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	QuoteID   uint        `gorm:"index;not null" json:"quote_id"`
	ServiceID uint        `gorm:"index;not null" json:"service_id"`
	Cost      money.Cents `gorm:"not null;default:0" json:"cost"`

	CreatedAt time.Time `json:"created_at"`
}
