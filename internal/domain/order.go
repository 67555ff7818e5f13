package domain

import "time"

// Order is the client-side view of a remotely owned order: its identifier
// and the payment flag the storefront polls for.
type Order struct {
	ID        string    `json:"id"`
	Paid      bool      `json:"paid"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PaymentIntent pairs the provider-side intent id with the client secret
// used to authorize confirmation. Single use per checkout attempt.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// ShippingAddress carries the fields the checkout form collects.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// OrderLine is what order creation submits per cart line.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
