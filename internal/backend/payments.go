package backend

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
)

type PaymentContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateIntentInput struct {
	// Amount is in minor currency units (cents), rounded.
	Amount   int64              `json:"amount"`
	Currency string             `json:"currency"`
	Items    []domain.OrderLine `json:"items"`
	Contact  PaymentContact     `json:"customer"`
}

type createIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// CreateIntent asks the backend/payment-provider pair for a payment intent.
func (c *Client) CreateIntent(ctx context.Context, token string, in CreateIntentInput) (*domain.PaymentIntent, error) {
	var out createIntentResponse
	if err := c.do(ctx, http.MethodPost, "/payments/create-intent", requestOpts{token: token}, in, &out); err != nil {
		return nil, err
	}
	if out.ID == "" || out.ClientSecret == "" {
		return nil, errors.New("payment intent response missing id or client secret")
	}
	return &domain.PaymentIntent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}

// PublicKey fetches the payment provider's publishable key.
func (c *Client) PublicKey(ctx context.Context) (string, error) {
	var out struct {
		PublicKey string `json:"publicKey"`
	}
	if err := c.do(ctx, http.MethodGet, "/payments/public-key", requestOpts{}, nil, &out); err != nil {
		return "", err
	}
	return out.PublicKey, nil
}
