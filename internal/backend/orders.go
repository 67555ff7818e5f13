package backend

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
)

type CreateOrderInput struct {
	Items    []domain.OrderLine     `json:"items"`
	Shipping domain.ShippingAddress `json:"shipping"`
}

type createOrderResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
}

// CreateOrder submits cart lines and shipping fields. The idempotency key
// lets a retried checkout attempt reuse the server-side order instead of
// creating a duplicate.
func (c *Client) CreateOrder(ctx context.Context, token, idempotencyKey string, in CreateOrderInput) (string, error) {
	var out createOrderResponse
	opts := requestOpts{token: token, idempotencyKey: idempotencyKey}
	if err := c.do(ctx, http.MethodPost, "/orders", opts, in, &out); err != nil {
		return "", err
	}
	id := out.ID
	if id == "" {
		id = out.OrderID
	}
	if id == "" {
		return "", errors.New("order created without an identifier")
	}
	return id, nil
}

// MyOrders lists the authenticated user's orders, payment flag included.
func (c *Client) MyOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/mine", requestOpts{token: token}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ConfirmPaymentInput struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
	OrderID         string `json:"orderId"`
}

// ConfirmPayment records a captured charge against the order server-side.
func (c *Client) ConfirmPayment(ctx context.Context, token string, in ConfirmPaymentInput) error {
	return c.do(ctx, http.MethodPost, "/orders/confirm-payment", requestOpts{token: token}, in, nil)
}
