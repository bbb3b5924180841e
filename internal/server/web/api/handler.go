package api

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/nyattihq/nyatti/internal/server/config"
	"github.com/nyattihq/nyatti/internal/server/payment"
	"github.com/nyattihq/nyatti/internal/server/sites"
	"github.com/nyattihq/nyatti/internal/server/web/middleware"
	"github.com/nyattihq/nyatti/internal/version"
)

// Handler handles dashboard API requests
type Handler struct {
	db          *gorm.DB
	config      *config.Config
	authMW      *middleware.AuthMiddleware
	siteService *sites.Service
	gateway     *payment.Client
}

// NewHandler creates a new dashboard API handler
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{
		db:          db,
		config:      cfg,
		authMW:      middleware.NewAuthMiddleware(cfg.Auth.JWTSecret),
		siteService: sites.NewService(db, cfg.Sites.MaxPerUser),
		gateway:     payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey),
	}
}

// CORSMiddleware adds CORS headers to all responses
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RegisterRoutes wires all API routes onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Availability checks arrive on every debounced keystroke; keep an
	// eye on abusive clients without getting in the way of typing.
	availabilityLimiter := middleware.NewRateLimiter(rate.Limit(2), 10)

	// Public routes
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/version", h.getVersion)
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("POST /api/payments/webhook", h.paymentWebhook)

	// Catalog routes (public, the wizard shows them before sign-in too)
	mux.HandleFunc("GET /api/templates", h.listTemplates)
	mux.HandleFunc("GET /api/plans", h.listPlans)

	// Protected routes (require JWT)
	mux.Handle("GET /api/auth/me", h.authMW.Protect(http.HandlerFunc(h.me)))
	mux.Handle("PATCH /api/auth/profile", h.authMW.Protect(http.HandlerFunc(h.updateProfile)))
	mux.Handle("POST /api/auth/password", h.authMW.Protect(http.HandlerFunc(h.changePassword)))

	// 2FA routes
	mux.Handle("GET /api/2fa/status", h.authMW.Protect(http.HandlerFunc(h.twoFAStatus)))
	mux.Handle("POST /api/2fa/setup", h.authMW.Protect(http.HandlerFunc(h.twoFASetup)))
	mux.Handle("POST /api/2fa/verify", h.authMW.Protect(http.HandlerFunc(h.twoFAVerify)))
	mux.Handle("POST /api/2fa/disable", h.authMW.Protect(http.HandlerFunc(h.twoFADisable)))

	// Site routes
	mux.Handle("GET /api/sites", h.authMW.Protect(http.HandlerFunc(h.listSites)))
	mux.Handle("POST /api/sites", h.authMW.Protect(http.HandlerFunc(h.createSite)))
	mux.Handle("GET /api/sites/{id}", h.authMW.Protect(http.HandlerFunc(h.getSite)))
	mux.Handle("PATCH /api/sites/{id}", h.authMW.Protect(http.HandlerFunc(h.updateSite)))
	mux.Handle("DELETE /api/sites/{id}", h.authMW.Protect(http.HandlerFunc(h.deleteSite)))

	mux.Handle("GET /api/subdomains/{name}/availability",
		h.authMW.Protect(availabilityLimiter.Limit(http.HandlerFunc(h.checkSubdomain))))

	// Payment routes
	mux.Handle("POST /api/payments/initialize", h.authMW.Protect(http.HandlerFunc(h.initializePayment)))
	mux.Handle("GET /api/payments/{reference}/verify", h.authMW.Protect(http.HandlerFunc(h.verifyPayment)))
	mux.Handle("GET /api/payments", h.authMW.Protect(http.HandlerFunc(h.listPayments)))
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getVersion(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, version.GetVersion())
}
