package checkout

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type MercadoPago struct {
	client          preference.Client
	notificationURL string
}

func NewMercadoPago(accessToken, notificationURL string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		client:          preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

func (m *MercadoPago) CreateSession(ctx context.Context, req Request) (*Session, error) {
	res, err := m.client.Create(ctx, preference.Request{
		ExternalReference: fmt.Sprintf("invoice:%d", req.InvoiceID),
		NotificationURL:   m.notificationURL,
		Items: []preference.ItemRequest{
			{
				ID:        fmt.Sprintf("invoice-%d", req.InvoiceID),
				Title:     req.Title,
				Quantity:  1,
				UnitPrice: req.Amount.Float64(),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference: %w", err)
	}
	return &Session{PreferenceID: res.ID, CheckoutURL: res.InitPoint}, nil
}
