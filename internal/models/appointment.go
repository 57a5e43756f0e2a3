package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerLocationID uint             `gorm:"index;not null" json:"customer_location_id"`
	CustomerLocation   CustomerLocation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ArrivalDatetime   time.Time `gorm:"index;not null" json:"arrival_datetime"`
	DepartureDatetime time.Time `gorm:"not null" json:"departure_datetime"`
	Team              string    `gorm:"size:64" json:"team"`
	Notes             string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecurringAppointment keeps the schedule as free text; expansion into
// concrete appointments is done by staff.
type RecurringAppointment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	CustomerLocationID uint      `gorm:"index;not null" json:"customer_location_id"`
	StartDate          time.Time `gorm:"not null" json:"start_date"`
	Schedule           string    `gorm:"size:128;not null" json:"schedule"`
	Team               string    `gorm:"size:64" json:"team"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
