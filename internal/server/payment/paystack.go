// Package payment wraps the Paystack REST API for checkout initialization,
// verification and webhook signature checks. Amounts are always gateway
// subunits (KES x 100) by the time they reach this package.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
	"github.com/nyattihq/nyatti/pkg/utils"
)

// Transaction states reported by the gateway.
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
	StatusPending   = "pending"
)

// Client talks to the payment gateway.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client.
func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// InitializeRequest describes a new checkout transaction.
type InitializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"` // subunits
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeResult is the gateway's answer to an initialize call.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResult is the gateway's answer to a verify call.
type VerifyResult struct {
	Status    string `json:"status"` // success, failed, abandoned, pending
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
}

type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a transaction and returns the checkout URL the payer
// must be sent to.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to encode initialize request")
	}

	data, err := c.call(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result InitializeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode initialize response")
	}
	return &result, nil
}

// Verify fetches the current state of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	data, err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var result VerifyResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode verify response")
	}
	return &result, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature the gateway sends
// with webhook deliveries.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return utils.SecureCompareStrings(expected, signature)
}

func (c *Client) call(ctx context.Context, method, path string, body *bytes.Reader) ([]byte, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode gateway response")
	}

	if resp.StatusCode != http.StatusOK || !envelope.Status {
		return nil, pkgerrors.NewAppError("GATEWAY", fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, envelope.Message), pkgerrors.ErrPaymentGateway)
	}

	return envelope.Data, nil
}
