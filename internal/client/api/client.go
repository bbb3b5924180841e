// Package api is the typed HTTP client the CLI uses to talk to the
// provisioning server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
)

// Client talks to the provisioning API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates an API client. The token may be empty for
// unauthenticated calls like login.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken replaces the session token after a successful login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// User is the account profile the server returns.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	DisplayName      string `json:"display_name"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

// LoginResult is the server's answer to a login call.
type LoginResult struct {
	Token       string `json:"token"`
	User        *User  `json:"user"`
	Requires2FA bool   `json:"requires_2fa"`
}

// Site is a provisioned site as the server reports it.
type Site struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Subdomain     string   `json:"subdomain"`
	URL           string   `json:"url"`
	TemplateID    *string  `json:"template_id"`
	PlanType      string   `json:"plan_type"`
	Status        string   `json:"status"`
	Domain        *string  `json:"domain"`
	Industry      string   `json:"industry"`
	ColorScheme   string   `json:"color_scheme"`
	Pages         []string `json:"pages"`
	Features      []string `json:"features"`
	ProductsCount int64    `json:"products_count"`
	Revenue       int64    `json:"revenue"`
}

// CreateSiteRequest is the completed draft submitted by the wizard.
type CreateSiteRequest struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Subdomain   string   `json:"subdomain"`
	TemplateID  *string  `json:"template_id,omitempty"`
	PlanType    string   `json:"plan_type"`
	Industry    string   `json:"industry,omitempty"`
	ColorScheme string   `json:"color_scheme,omitempty"`
	Pages       []string `json:"pages,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Template mirrors the server's template catalog entries.
type Template struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}

// Plan mirrors the server's plan catalog entries.
type Plan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceAnnual int64    `json:"price_annual"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
}

// Checkout is the server's answer to a payment initialization.
type Checkout struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	Amount           int64  `json:"amount"` // gateway subunits
	Currency         string `json:"currency"`
	PublicKey        string `json:"public_key"`
}

// Payment is one checkout attempt as the server reports it.
type Payment struct {
	Reference string `json:"reference"`
	PlanType  string `json:"plan_type"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return pkgerrors.Wrap(err, "failed to decode response")
		}
	}
	return nil
}

// decodeError maps HTTP failures onto the package's sentinel errors so
// callers can branch without string matching.
func (c *Client) decodeError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	message := body.Error
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.NewAppError("API", message, pkgerrors.ErrUnauthorized)
	case http.StatusConflict:
		return pkgerrors.NewAppError("API", message, pkgerrors.ErrSubdomainTaken)
	case http.StatusTooManyRequests:
		return pkgerrors.NewAppError("API", message, pkgerrors.ErrRateLimited)
	case http.StatusNotFound:
		return pkgerrors.NewAppError("API", message, pkgerrors.ErrSiteNotFound)
	default:
		return pkgerrors.NewAppError("API", fmt.Sprintf("server returned %d: %s", resp.StatusCode, message), nil)
	}
}

// Login authenticates and returns a session token. When the account has
// 2FA enabled and no code was supplied, Requires2FA is set instead.
func (c *Client) Login(ctx context.Context, email, password, otpCode string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"otp_code": otpCode,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns a session token.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the authenticated account's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSites returns the account's sites.
func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	var out struct {
		Sites []Site `json:"sites"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sites", nil, &out); err != nil {
		return nil, err
	}
	return out.Sites, nil
}

// GetSite returns one site by ID.
func (c *Client) GetSite(ctx context.Context, id string) (*Site, error) {
	var site Site
	if err := c.do(ctx, http.MethodGet, "/api/sites/"+url.PathEscape(id), nil, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// CreateSite submits a completed wizard draft for provisioning.
func (c *Client) CreateSite(ctx context.Context, req CreateSiteRequest) (*Site, error) {
	var site Site
	if err := c.do(ctx, http.MethodPost, "/api/sites", req, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

// DeleteSite removes one site by ID.
func (c *Client) DeleteSite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sites/"+url.PathEscape(id), nil, nil)
}

// CheckSubdomain reports whether a subdomain can still be claimed.
func (c *Client) CheckSubdomain(ctx context.Context, name string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/subdomains/"+url.PathEscape(name)+"/availability", nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// Templates returns the template catalog.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	var out struct {
		Templates []Template `json:"templates"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/templates", nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// Plans returns the plan catalog.
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var out struct {
		Plans []Plan `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans", nil, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

// InitializePayment opens a checkout for the chosen plan.
func (c *Client) InitializePayment(ctx context.Context, planType string) (*Checkout, error) {
	var checkout Checkout
	err := c.do(ctx, http.MethodPost, "/api/payments/initialize", map[string]string{
		"plan_type": planType,
	}, &checkout)
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

// VerifyPayment asks the server for the checkout's current state.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (*Payment, error) {
	var payment Payment
	if err := c.do(ctx, http.MethodGet, "/api/payments/"+url.PathEscape(reference)+"/verify", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
