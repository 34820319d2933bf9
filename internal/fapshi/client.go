// Package fapshi is a thin client for the Fapshi payment gateway. It
// normalizes requests and responses but never reinterprets gateway errors:
// non-2xx bodies are surfaced to the caller verbatim.
package fapshi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/nkengderick/biotec-api/internal/errors"
)

const (
	defaultTimeout = 15 * time.Second

	// Status checks are idempotent, so transient gateway failures are
	// retried a bounded number of times. Initiate and expire are never
	// retried automatically.
	statusRetryAttempts = 3
	statusRetryBackoff  = 500 * time.Millisecond
)

// Client calls the Fapshi HTTP API using two static credential headers.
type Client struct {
	baseURL    string
	apiUser    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a gateway client for the given base URL and credentials.
func NewClient(baseURL, apiUser, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiUser:    apiUser,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// InitiateRequest is the payload for opening a hosted payment.
type InitiateRequest struct {
	Amount      int64  `json:"amount"`
	Email       string `json:"email,omitempty"`
	ExternalID  string `json:"externalId"`
	UserID      string `json:"userId,omitempty"`
	Message     string `json:"message,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// InitiateResponse is the gateway's answer to initiate-pay.
type InitiateResponse struct {
	Message       string `json:"message"`
	Link          string `json:"link"`
	TransID       string `json:"transId"`
	DateInitiated string `json:"dateInitiated"`
}

// DirectPayRequest charges a mobile wallet without the hosted page.
type DirectPayRequest struct {
	Amount     int64  `json:"amount"`
	Phone      string `json:"phone"`
	Medium     string `json:"medium,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StatusResponse is the gateway's view of a transaction.
type StatusResponse struct {
	TransID       string `json:"transId"`
	Status        string `json:"status"`
	Medium        string `json:"medium"`
	Amount        int64  `json:"amount"`
	ExternalID    string `json:"externalId"`
	DateInitiated string `json:"dateInitiated"`
	DateConfirmed string `json:"dateConfirmed"`
}

// InitiatePay opens a hosted payment and returns the redirect link.
func (c *Client) InitiatePay(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	var resp InitiateResponse
	if err := c.do(ctx, http.MethodPost, "/initiate-pay", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DirectPay charges a wallet directly.
func (c *Client) DirectPay(ctx context.Context, req DirectPayRequest) (*InitiateResponse, error) {
	var resp InitiateResponse
	if err := c.do(ctx, http.MethodPost, "/direct-pay", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaymentStatus fetches the current state of a transaction. Transport errors
// and 5xx responses are retried with backoff; 4xx responses are returned
// immediately with the provider's body intact.
func (c *Client) PaymentStatus(ctx context.Context, transID string) (*StatusResponse, error) {
	var resp StatusResponse
	var lastErr error
	backoff := statusRetryBackoff
	for attempt := 0; attempt < statusRetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
		lastErr = c.do(ctx, http.MethodGet, "/payment-status/"+transID, nil, &resp)
		if lastErr == nil {
			return &resp, nil
		}
		if gwErr, ok := lastErr.(*apperrors.GatewayError); ok && gwErr.StatusCode < 500 {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// ExpirePay invalidates a pending transaction.
func (c *Client) ExpirePay(ctx context.Context, transID string) (*StatusResponse, error) {
	var resp StatusResponse
	payload := map[string]string{"transId": transID}
	if err := c.do(ctx, http.MethodPost, "/expire-pay", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserTransactions lists the gateway's transactions for a user.
func (c *Client) UserTransactions(ctx context.Context, userID string) ([]StatusResponse, error) {
	var resp []StatusResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apiuser", c.apiUser)
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.GatewayError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.GatewayError{StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperrors.GatewayError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}
	return nil
}

// ParseTime parses the timestamp formats the gateway uses. Returns nil when
// the value is empty or unparseable.
func ParseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
