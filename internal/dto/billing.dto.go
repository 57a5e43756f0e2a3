package dto

import (
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

const dateLayout = "2006-01-02"

type InvoiceDTO struct {
	ID            uint        `json:"id"`
	AppointmentID uint        `json:"appointment_id"`
	Subtotal      money.Cents `json:"subtotal"`
	Total         money.Cents `json:"total"`
	TaxRate       float64     `json:"tax_rate"`
	AmountPaid    money.Cents `json:"amount_paid"`
	Balance       money.Cents `json:"balance"`
	Status        string      `json:"status"`
	// Paid mirrors Status for older clients.
	Paid        string    `json:"paid"`
	Attempt     int       `json:"attempt"`
	DueDate     *string   `json:"due_date"`
	CreatedDate time.Time `json:"created_date"`
}

func Invoice(inv *models.Invoice) InvoiceDTO {
	out := InvoiceDTO{
		ID:            inv.ID,
		AppointmentID: inv.AppointmentID,
		Subtotal:      inv.Subtotal,
		Total:         inv.Total,
		TaxRate:       inv.TaxRate,
		AmountPaid:    inv.AmountPaid,
		Balance:       inv.Balance,
		Status:        inv.Status,
		Paid:          inv.Status,
		Attempt:       inv.Attempt,
		CreatedDate:   inv.CreatedAt,
	}
	if inv.DueDate != nil {
		s := inv.DueDate.Format(dateLayout)
		out.DueDate = &s
	}
	return out
}

func Invoices(list []models.Invoice) []InvoiceDTO {
	out := make([]InvoiceDTO, 0, len(list))
	for i := range list {
		out = append(out, Invoice(&list[i]))
	}
	return out
}

type PaymentDTO struct {
	ID              uint        `json:"id"`
	InvoiceID       uint        `json:"invoice_id"`
	Amount          money.Cents `json:"amount"`
	PaymentDate     time.Time   `json:"payment_date"`
	PaymentMethod   string      `json:"payment_method"`
	ReferenceNumber *string     `json:"reference_number"`
	Notes           *string     `json:"notes"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func Payment(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:              p.ID,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func Payments(list []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(list))
	for i := range list {
		out = append(out, Payment(&list[i]))
	}
	return out
}
