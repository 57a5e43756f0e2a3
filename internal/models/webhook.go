package models

import "time"

type WebhookSubscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	URL          string    `gorm:"size:512;not null" json:"webhook_url"`
	RegisteredBy uint      `json:"registered_by"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
