package payment

import "context"

// StatusSucceeded is the provider's terminal happy state for a confirmation.
const StatusSucceeded = "succeeded"

// Card is the raw card input collected at checkout. It goes straight to the
// provider and is never persisted.
type Card struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
	CVC      string `json:"cvc"`
}

// BillingDetails is built from the shipping form; the country comes from
// configuration (the source system hard-coded it).
type BillingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Confirmation is the provider's answer to a card confirmation attempt.
type Confirmation struct {
	Status          string `json:"status"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// Provider confirms card payments against a server-issued client secret.
type Provider interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, card Card, billing BillingDetails) (*Confirmation, error)
}
