// Package payment talks to the hosted payment gateway: it creates checkout
// preferences and normalizes the statuses the gateway reports back.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Item is one preference line.
type Item struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Payer identifies the customer to the gateway.
type Payer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// PreferenceRequest asks the gateway for a hosted checkout.
type PreferenceRequest struct {
	OrderID         string            `json:"external_reference"`
	Items           []Item            `json:"items"`
	Payer           Payer             `json:"payer"`
	PaymentMethod   string            `json:"payment_method"`
	NotificationURL string            `json:"notification_url,omitempty"`
	BackURLs        map[string]string `json:"back_urls,omitempty"`
}

// Preference is the gateway's answer.
type Preference struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"init_point"`
}

// Client is an HTTP client of the gateway API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a gateway client.
func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// CreatePreference registers a checkout for an order and returns its URL.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preference: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}
	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("failed to decode preference: %w", err)
	}
	if pref.CheckoutURL == "" {
		return nil, fmt.Errorf("payment gateway returned no checkout url")
	}
	return &pref, nil
}

// Payment is the gateway's view of one payment attempt.
type Payment struct {
	ID                json.Number `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
}

// GetPayment fetches a payment by its gateway id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if c.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway returned status %d for payment %s", resp.StatusCode, id)
	}
	var p Payment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode payment: %w", err)
	}
	return &p, nil
}

// Normalized gateway statuses.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
	StatusRefunded = "refunded"
)

// NormalizeStatus folds the gateway's status vocabulary into four values.
func NormalizeStatus(gateway string) string {
	switch strings.ToLower(strings.TrimSpace(gateway)) {
	case "approved", "authorized":
		return StatusApproved
	case "rejected", "cancelled", "canceled":
		return StatusRejected
	case "refunded", "charged_back":
		return StatusRefunded
	default:
		return StatusPending
	}
}
