package models

import "time"

type TimeLog struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AppointmentID uint       `gorm:"index;not null" json:"appointment_id"`
	EmployeeID    uint       `gorm:"index;not null" json:"employee_id"`
	TimeIn        time.Time  `gorm:"not null" json:"time_in"`
	TimeOut       *time.Time `json:"time_out"`
	TotalTime     *float64   `json:"total_time"`
}
