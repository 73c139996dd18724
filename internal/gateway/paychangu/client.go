// Package paychangu is the outbound adapter for the PayChangu payment
// gateway: checkout initiation, transaction verification, wallet balance,
// and webhook signature verification.
package paychangu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Gateway name recorded on payments created through this client.
const GatewayName = "paychangu"

// GatewayError is the structured failure every outbound call translates
// transport errors and non-2xx responses into. Callers decide user-facing
// messaging; there is no automatic retry.
type GatewayError struct {
	Message string
	Errors  map[string][]string
}

func (e *GatewayError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("paychangu: %s", e.Message)
	}
	return fmt.Sprintf("paychangu: %s (%d field errors)", e.Message, len(e.Errors))
}

// Client calls the PayChangu REST API. All endpoints are bearer-authenticated
// with the account secret key.
type Client struct {
	http          *resty.Client
	webhookSecret string
}

func NewClient(baseURL, secretKey, webhookSecret string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(secretKey).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:          httpClient,
		webhookSecret: webhookSecret,
	}
}

// Meta is opaque correlation data echoed back by the gateway on verification
// and in webhook payloads.
type Meta struct {
	InvoiceID      string `json:"invoice_id"`
	OrganizationID string `json:"organization_id"`
}

// InitiateRequest is the checkout initiation payload.
type InitiateRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Meta        Meta   `json:"meta"`
}

// InitiateResponse is the successful checkout initiation result.
type InitiateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`

	// Raw is the exact response body, persisted on the payment for audit.
	Raw json.RawMessage `json:"-"`
}

// Authorization describes how a transaction was paid.
type Authorization struct {
	Channel string `json:"channel"`
}

// Customer is the payer identity the gateway collected at checkout.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// PaymentRecord is the gateway's view of one transaction.
type PaymentRecord struct {
	TxRef         string        `json:"tx_ref"`
	Status        string        `json:"status"`
	Reference     string        `json:"reference"`
	Amount        json.Number   `json:"amount"`
	Currency      string        `json:"currency"`
	Authorization Authorization `json:"authorization"`
	Customer      Customer      `json:"customer"`
}

// VerifyResponse is the verification endpoint result.
type VerifyResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    PaymentRecord `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// Balance is the wallet balance for one currency.
type Balance struct {
	Currency         string      `json:"currency"`
	MainBalance      json.Number `json:"main_balance"`
	CollectedBalance json.Number `json:"collected_balance"`
}

type balanceResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Data    Balance `json:"data"`
}

// apiError is the gateway's error envelope.
type apiError struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// InitiatePayment starts a hosted checkout. A single attempt; transport
// errors and gateway rejections come back as *GatewayError.
func (c *Client) InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	var (
		out    InitiateResponse
		apiErr apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/payment")
	if err != nil {
		return nil, &GatewayError{Message: fmt.Sprintf("initiate payment: %v", err)}
	}

	if resp.IsError() {
		return nil, gatewayErrorFrom(&apiErr, resp.StatusCode())
	}
	if out.Status != "success" {
		return nil, &GatewayError{Message: out.Message}
	}

	out.Raw = json.RawMessage(resp.Body())

	return &out, nil
}

// VerifyPayment resolves a transaction's final status synchronously; used by
// the return-redirect flow instead of waiting for the webhook.
func (c *Client) VerifyPayment(ctx context.Context, txRef string) (*VerifyResponse, error) {
	var (
		out    VerifyResponse
		apiErr apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/verify-payment/" + txRef)
	if err != nil {
		return nil, &GatewayError{Message: fmt.Sprintf("verify payment: %v", err)}
	}

	if resp.IsError() {
		return nil, gatewayErrorFrom(&apiErr, resp.StatusCode())
	}

	out.Raw = json.RawMessage(resp.Body())

	return &out, nil
}

// WalletBalance is a read-only passthrough; no local state is touched.
func (c *Client) WalletBalance(ctx context.Context, currency string) (*Balance, error) {
	var (
		out    balanceResponse
		apiErr apiError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("currency", currency).
		SetResult(&out).
		SetError(&apiErr).
		Get("/wallet-balance")
	if err != nil {
		return nil, &GatewayError{Message: fmt.Sprintf("wallet balance: %v", err)}
	}

	if resp.IsError() {
		return nil, gatewayErrorFrom(&apiErr, resp.StatusCode())
	}

	return &out.Data, nil
}

// VerifyWebhookSignature checks the Signature header of an inbound webhook
// against the configured shared secret.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifySignature(c.webhookSecret, body, signature)
}

func gatewayErrorFrom(apiErr *apiError, statusCode int) *GatewayError {
	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("gateway returned status %d", statusCode)
	}
	return &GatewayError{Message: msg, Errors: apiErr.Errors}
}
