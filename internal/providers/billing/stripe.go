package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type StripeOptions struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// StripeClient talks to a Stripe-compatible billing API. Requests are
// form-encoded per the Stripe wire convention.
type StripeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

const stripeDefaultTimeout = 20 * time.Second

func NewStripeClient(opts StripeOptions) (*StripeClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("billing api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.stripe.com/v1"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: stripeDefaultTimeout}
	}
	return &StripeClient{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
		client:  client,
	}, nil
}

type stripeCustomer struct {
	ID string `json:"id"`
}

type stripeSubscription struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	LatestInvoice struct {
		PaymentIntent struct {
			ClientSecret string `json:"client_secret"`
		} `json:"payment_intent"`
	} `json:"latest_invoice"`
}

func (c *StripeClient) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	var out stripeCustomer
	if err := c.do(ctx, http.MethodPost, "/customers", form, &out); err != nil {
		return nil, err
	}
	return &Customer{ID: out.ID}, nil
}

func (c *StripeClient) CreateSubscription(ctx context.Context, customerID, priceID string) (*Subscription, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("items[0][price]", priceID)
	form.Set("payment_behavior", "default_incomplete")
	form.Set("expand[]", "latest_invoice.payment_intent")
	var out stripeSubscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions", form, &out); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:           out.ID,
		Status:       out.Status,
		ClientSecret: out.LatestInvoice.PaymentIntent.ClientSecret,
	}, nil
}

func (c *StripeClient) RetrieveSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	form := url.Values{}
	form.Set("expand[]", "latest_invoice.payment_intent")
	var out stripeSubscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(subscriptionID), form, &out); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:           out.ID,
		Status:       out.Status,
		ClientSecret: out.LatestInvoice.PaymentIntent.ClientSecret,
	}, nil
}

func (c *StripeClient) do(ctx context.Context, method, path string, form url.Values, out any) error {
	endpoint := c.baseURL + path
	var body io.Reader
	if method == http.MethodGet {
		if encoded := form.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
	} else {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build billing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("billing provider status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode billing response: %w", err)
	}
	return nil
}

var _ Provider = (*StripeClient)(nil)
