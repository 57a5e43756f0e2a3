package models

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

type EquipmentCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}

type Equipment struct {
	ID                     uint        `gorm:"primaryKey" json:"id"`
	Name                   string      `gorm:"size:128;not null" json:"name"`
	EquipmentCategoryID    *uint       `gorm:"index" json:"equipment_category_id"`
	PurchasedDate          *time.Time  `json:"purchased_date"`
	PurchasedCondition     string      `gorm:"size:32" json:"purchased_condition"`
	WarrantyExpirationDate *time.Time  `json:"warranty_expiration_date"`
	Manufacturer           string      `gorm:"size:128" json:"manufacturer"`
	Model                  string      `gorm:"size:128" json:"model"`
	PurchasePrice          money.Cents `json:"purchase_price"`
	RepairCostToDate       money.Cents `gorm:"not null;default:0" json:"repair_cost_to_date"`
	PurchasedBy            string      `gorm:"size:128" json:"purchased_by"`
	FuelType               string      `gorm:"size:32" json:"fuel_type"`
	OilType                string      `gorm:"size:32" json:"oil_type"`

	Assignments []EquipmentAssignment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Consumables []ConsumableUsage     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_date"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EquipmentAssignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EquipmentID  uint      `gorm:"index;not null" json:"equipment_id"`
	Team         string    `gorm:"size:64" json:"team"`
	AssignedDate time.Time `json:"assigned_date"`
}

// ConsumableUsage records fuel/oil use in liters.
type ConsumableUsage struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	EquipmentID    uint        `gorm:"index;not null" json:"equipment_id"`
	ConsumableType string      `gorm:"size:64" json:"consumable_type"`
	AmountUsed     float64     `json:"amount_used"`
	CostPerLiter   money.Cents `json:"cost_per_liter"`
	DateRecorded   time.Time   `json:"date_recorded"`
}
