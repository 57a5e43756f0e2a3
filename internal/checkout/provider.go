// Package checkout creates hosted payment pages for customer invoices.
package checkout

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

var ErrNotConfigured = errors.New("checkout provider not configured")

type Request struct {
	InvoiceID uint
	Title     string
	Amount    money.Cents
}

type Session struct {
	PreferenceID string `json:"preference_id"`
	CheckoutURL  string `json:"checkout_url"`
}

type Provider interface {
	CreateSession(ctx context.Context, req Request) (*Session, error)
}

// Disabled answers every call with ErrNotConfigured.
type Disabled struct{}

func (Disabled) CreateSession(context.Context, Request) (*Session, error) {
	return nil, ErrNotConfigured
}
