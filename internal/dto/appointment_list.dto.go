package dto

import "time"

type AppointmentListDTO struct {
	ID                 uint      `json:"id"`
	CustomerLocationID uint      `json:"customer_location_id"`
	Address            string    `json:"address"`
	ArrivalDatetime    time.Time `json:"arrival_datetime"`
	DepartureDatetime  time.Time `json:"departure_datetime"`
	Team               string    `json:"team"`
}
