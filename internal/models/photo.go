package models

import "time"

// Photo is metadata only; the file itself lives wherever FilePath points.
type Photo struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AppointmentID  uint      `gorm:"index;not null" json:"appointment_id"`
	FilePath       string    `gorm:"size:512;not null" json:"file_path"`
	UploadedBy     *uint     `json:"uploaded_by"`
	ApprovedBy     *uint     `json:"approved_by"`
	ShowToCustomer bool      `gorm:"default:false" json:"show_to_customer"`
	ShowOnWebsite  bool      `gorm:"default:false" json:"show_on_website"`
	Datetime       time.Time `json:"datetime"`
}
