package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the remote commerce API. The API is an external contract
// this service consumes but does not define; every commerce entity lives
// behind it.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// New parses the base URL and wraps the given http client. A nil client
// gets a sane default with a request timeout.
func New(baseURL string, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

type requestOpts struct {
	token          string
	idempotencyKey string
	rawQuery       string
}

// do issues a JSON request and decodes a JSON response into out (when out
// is non-nil). Non-2xx responses become *Error; transport failures are
// wrapped so callers can tell "server said no" from "no response at all".
func (c *Client) do(ctx context.Context, method, path string, opts requestOpts, body, out interface{}) error {
	rel := &url.URL{Path: c.baseURL.Path + path, RawQuery: opts.rawQuery}
	u := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) errorFromResponse(method, path string, resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err != nil {
		c.logger.Printf("backend %s %s: status %d with undecodable body: %v", method, path, resp.StatusCode, err)
	} else if payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = payload.Error
	}
	return apiErr
}
