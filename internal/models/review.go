package models

import "time"

type Review struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CustomerID    uint      `gorm:"index;not null" json:"customer_id"`
	LocationID    *uint     `gorm:"index" json:"location_id"`
	AppointmentID *uint     `gorm:"index" json:"appointment_id"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	Datetime      time.Time `json:"datetime"`
}
