package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CodeCardDeclined is the provider error code for a rejected payment
// method; the checkout layer softens it to a friendlier message.
const CodeCardDeclined = "card_declined"

// ProviderError is an error the payment provider reported for the attempt
// itself (declined card, validation), as opposed to a transport failure.
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s (%s)", e.Message, e.Code)
}

// Declined reports whether the provider rejected the payment method.
func (e *ProviderError) Declined() bool {
	return e.Code == CodeCardDeclined
}

// Client is the hosted payment provider's confirmation API.
type Client struct {
	baseURL   *url.URL
	publicKey string
	http      *http.Client
}

func NewClient(baseURL, publicKey string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid payment base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: u, publicKey: publicKey, http: httpClient}, nil
}

type confirmRequest struct {
	ClientSecret   string         `json:"clientSecret"`
	Card           Card           `json:"card"`
	BillingDetails BillingDetails `json:"billingDetails"`
}

// ConfirmCardPayment authorizes the intent identified by clientSecret with
// the given card. Provider-reported failures come back as *ProviderError.
func (c *Client) ConfirmCardPayment(ctx context.Context, clientSecret string, card Card, billing BillingDetails) (*Confirmation, error) {
	payload, err := json.Marshal(confirmRequest{
		ClientSecret:   clientSecret,
		Card:           card,
		BillingDetails: billing,
	})
	if err != nil {
		return nil, fmt.Errorf("encode confirmation: %w", err)
	}

	rel := &url.URL{Path: c.baseURL.Path + "/payment_intents/confirm"}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.ResolveReference(rel).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.publicKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error ProviderError `json:"error"`
		}
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); decodeErr == nil && body.Error.Message != "" {
			return nil, &body.Error
		}
		return nil, &ProviderError{Code: "provider_error", Message: fmt.Sprintf("confirmation failed with status %d", resp.StatusCode)}
	}

	var out Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode confirmation response: %w", err)
	}
	return &out, nil
}
