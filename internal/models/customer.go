package models

import "time"

// Customer may be created by staff without a password; the portal
// registration sets one.
type Customer struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:128;not null" json:"name"`
	Phone        string  `gorm:"size:32" json:"phone"`
	Email        string  `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash *string `gorm:"size:255" json:"-"`
	Notes        string  `gorm:"type:text" json:"notes"`

	Locations []CustomerLocation `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_datetime"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerLocation struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	CustomerID     uint    `gorm:"index;not null" json:"customer_id"`
	Address        string  `gorm:"size:255;not null" json:"address"`
	PointOfContact string  `gorm:"size:128" json:"point_of_contact"`
	PropertyType   string  `gorm:"size:64" json:"property_type"`
	ApproxAcres    float64 `json:"approx_acres"`
	Notes          string  `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
