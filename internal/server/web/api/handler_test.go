package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nyattihq/nyatti/internal/db"
	"github.com/nyattihq/nyatti/internal/db/models"
	"github.com/nyattihq/nyatti/internal/server/config"
)

func setupTestAPI(t *testing.T, gatewayURL string) (*httptest.Server, *gorm.DB) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database))

	cfg := &config.Config{}
	cfg.Server.Domain = "nyatti.co"
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Sites.MaxPerUser = 10
	cfg.Payment.BaseURL = gatewayURL
	cfg.Payment.SecretKey = "sk_test_key"
	cfg.Payment.PublicKey = "pk_test_key"

	handler := NewHandler(database, cfg)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := httptest.NewServer(CORSMiddleware(mux))
	t.Cleanup(server.Close)
	return server, database
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerAndLogin(t *testing.T, baseURL string) string {
	resp := doJSON(t, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"email":      "owner@example.com",
		"password":   "secret-password",
		"first_name": "Amina",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRegisterAndLogin(t *testing.T) {
	server, _ := setupTestAPI(t, "http://gateway.invalid")

	token := registerAndLogin(t, server.URL)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]string{
			"email":    "owner@example.com",
			"password": "another-password",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("login with wrong password fails", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("login succeeds", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "secret-password",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("me returns the profile", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var me struct {
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
		}
		decodeBody(t, resp, &me)
		assert.Equal(t, "owner@example.com", me.Email)
		assert.Equal(t, "Amina", me.FirstName)
	})

	t.Run("me without token is unauthorized", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestSiteLifecycle(t *testing.T) {
	server, _ := setupTestAPI(t, "http://gateway.invalid")
	token := registerAndLogin(t, server.URL)

	createBody := map[string]interface{}{
		"kind":         "shop",
		"name":         "My Duka",
		"subdomain":    "myduka",
		"template_id":  "general-store",
		"plan_type":    "premium",
		"industry":     "E-commerce & Retail",
		"color_scheme": "Forest Green",
		"pages":        []string{"Home", "Shop", "Cart"},
		"features":     []string{"Payment Gateway", "Wishlist"},
	}

	var siteID string
	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/sites", token, createBody)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var site struct {
			ID        string `json:"id"`
			Subdomain string `json:"subdomain"`
			URL       string `json:"url"`
		}
		decodeBody(t, resp, &site)
		assert.Equal(t, "myduka", site.Subdomain)
		assert.Equal(t, "https://myduka.nyatti.co", site.URL)
		siteID = site.ID
	})

	t.Run("duplicate subdomain conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/sites", token, createBody)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("availability reflects the claim", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/subdomains/myduka/availability", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Available bool `json:"available"`
		}
		decodeBody(t, resp, &out)
		assert.False(t, out.Available)

		resp = doJSON(t, http.MethodGet, server.URL+"/api/subdomains/freshname/availability", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeBody(t, resp, &out)
		assert.True(t, out.Available)
	})

	t.Run("get and list", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/sites/"+siteID, token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodGet, server.URL+"/api/sites", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list struct {
			Sites []json.RawMessage `json:"sites"`
		}
		decodeBody(t, resp, &list)
		assert.Len(t, list.Sites, 1)
	})

	t.Run("update", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, server.URL+"/api/sites/"+siteID, token, map[string]string{
			"name":   "Renamed Duka",
			"status": "development",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var site struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		}
		decodeBody(t, resp, &site)
		assert.Equal(t, "Renamed Duka", site.Name)
		assert.Equal(t, "development", site.Status)
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/sites/"+siteID, token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodGet, server.URL+"/api/sites/"+siteID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestCatalogEndpoints(t *testing.T) {
	server, _ := setupTestAPI(t, "http://gateway.invalid")

	resp, err := http.Get(server.URL + "/api/templates")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tmpl struct {
		Templates  []json.RawMessage `json:"templates"`
		Categories []string          `json:"categories"`
	}
	decodeBody(t, resp, &tmpl)
	assert.Len(t, tmpl.Templates, 9)
	assert.NotEmpty(t, tmpl.Categories)

	resp, err = http.Get(server.URL + "/api/plans")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pl struct {
		Plans    []json.RawMessage `json:"plans"`
		Currency string            `json:"currency"`
	}
	decodeBody(t, resp, &pl)
	assert.Len(t, pl.Plans, 2)
	assert.Equal(t, "KES", pl.Currency)
}

func fakeGateway(t *testing.T, verifyStatus string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/transaction/initialize":
			var req struct {
				Reference string `json:"reference"`
				Amount    int64  `json:"amount"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true,
				"data": map[string]interface{}{
					"authorization_url": "https://checkout.example.com/" + req.Reference,
					"access_code":       "code-" + req.Reference,
					"reference":         req.Reference,
				},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": true,
				"data": map[string]interface{}{
					"status":    verifyStatus,
					"reference": r.URL.Path[len("/transaction/verify/"):],
					"amount":    3000000,
					"currency":  "KES",
				},
			})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPaymentFlow(t *testing.T) {
	gateway := fakeGateway(t, "success")
	server, database := setupTestAPI(t, gateway.URL)
	token := registerAndLogin(t, server.URL)

	var reference string
	t.Run("initialize", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/payments/initialize", token, map[string]string{
			"plan_type": "premium",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Reference        string `json:"reference"`
			AuthorizationURL string `json:"authorization_url"`
			Amount           int64  `json:"amount"`
			Currency         string `json:"currency"`
		}
		decodeBody(t, resp, &out)
		assert.NotEmpty(t, out.Reference)
		assert.Contains(t, out.AuthorizationURL, out.Reference)
		assert.Equal(t, int64(3000000), out.Amount) // 30,000 KES in subunits
		assert.Equal(t, "KES", out.Currency)
		reference = out.Reference
	})

	t.Run("unknown plan is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/payments/initialize", token, map[string]string{
			"plan_type": "enterprise",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("verify marks the payment successful", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/payments/"+reference+"/verify", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Status string `json:"status"`
		}
		decodeBody(t, resp, &out)
		assert.Equal(t, "success", out.Status)

		var record models.Payment
		require.NoError(t, database.Where("reference = ?", reference).First(&record).Error)
		assert.True(t, record.Completed())
		assert.NotNil(t, record.PaidAt)
	})

	t.Run("verify is idempotent", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/payments/"+reference+"/verify", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Status string `json:"status"`
		}
		decodeBody(t, resp, &out)
		assert.Equal(t, "success", out.Status)
	})

	t.Run("list payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/payments", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Payments []json.RawMessage `json:"payments"`
		}
		decodeBody(t, resp, &out)
		assert.Len(t, out.Payments, 1)
	})
}

func TestPaymentWebhook(t *testing.T) {
	gateway := fakeGateway(t, "pending")
	server, database := setupTestAPI(t, gateway.URL)
	token := registerAndLogin(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/payments/initialize", token, map[string]string{
		"plan_type": "standard",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var init struct {
		Reference string `json:"reference"`
	}
	decodeBody(t, resp, &init)

	body := []byte(fmt.Sprintf(`{"event":"charge.success","data":{"reference":%q}}`, init.Reference))
	mac := hmac.New(sha512.New, []byte("sk_test_key"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	t.Run("bad signature is rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set("x-paystack-signature", "deadbeef")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("charge.success confirms the payment", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set("x-paystack-signature", signature)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		var record models.Payment
		require.NoError(t, database.Where("reference = ?", init.Reference).First(&record).Error)
		assert.Equal(t, models.PaymentStatusSuccess, record.Status)
	})

	t.Run("redelivery stays idempotent", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/payments/webhook", bytes.NewReader(body))
		req.Header.Set("x-paystack-signature", signature)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}
