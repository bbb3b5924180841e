package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nyattihq/nyatti/internal/db/models"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/internal/server/payment"
	"github.com/nyattihq/nyatti/pkg/logger"
	"github.com/nyattihq/nyatti/pkg/utils"
)

type initializePaymentRequest struct {
	PlanType string `json:"plan_type"`
}

type initializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Amount           int64  `json:"amount"` // gateway subunits
	Currency         string `json:"currency"`
	PublicKey        string `json:"public_key,omitempty"`
}

// initializePayment creates a pending checkout for the chosen plan. Each
// call mints a fresh reference, so retried checkouts never collide at the
// gateway.
func (h *Handler) initializePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req initializePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan, err := plans.ByID(plans.ID(req.PlanType))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown plan")
		return
	}

	reference := utils.GeneratePaymentReference()
	amount := plans.SubunitAmount(plan.PriceAnnual)

	result, err := h.gateway.Initialize(r.Context(), payment.InitializeRequest{
		Email:       user.Email,
		Amount:      amount,
		Currency:    plans.Currency,
		Reference:   reference,
		CallbackURL: h.config.Payment.CallbackURL,
	})
	if err != nil {
		logger.ErrorEvent().Err(err).Str("reference", reference).Msg("Payment initialization failed")
		respondError(w, http.StatusBadGateway, "Payment gateway error")
		return
	}

	record := &models.Payment{
		UserID:           user.ID,
		Reference:        reference,
		PlanType:         string(plan.ID),
		Amount:           amount,
		Currency:         plans.Currency,
		Status:           models.PaymentStatusPending,
		AuthorizationURL: result.AuthorizationURL,
	}
	if err := h.db.Create(record).Error; err != nil {
		logger.ErrorEvent().Err(err).Str("reference", reference).Msg("Failed to record payment")
		respondError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	logger.InfoEvent().
		Str("reference", reference).
		Str("plan", string(plan.ID)).
		Int64("amount", amount).
		Msg("Payment initialized")

	respondJSON(w, http.StatusOK, initializePaymentResponse{
		Reference:        reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		Amount:           amount,
		Currency:         plans.Currency,
		PublicKey:        h.config.Payment.PublicKey,
	})
}

type paymentPayload struct {
	Reference string     `json:"reference"`
	PlanType  string     `json:"plan_type"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toPaymentPayload(p *models.Payment) *paymentPayload {
	return &paymentPayload{
		Reference: p.Reference,
		PlanType:  p.PlanType,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

// verifyPayment asks the gateway for the transaction's current state and
// records it. Verification is idempotent: a payment that already reached a
// terminal state is returned as-is.
func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	reference := r.PathValue("reference")

	var record models.Payment
	if err := h.db.Where("reference = ? AND user_id = ?", reference, user.ID).First(&record).Error; err != nil {
		respondError(w, http.StatusNotFound, "Payment not found")
		return
	}

	if record.Status == models.PaymentStatusPending {
		result, err := h.gateway.Verify(r.Context(), reference)
		if err != nil {
			logger.ErrorEvent().Err(err).Str("reference", reference).Msg("Payment verification failed")
			respondError(w, http.StatusBadGateway, "Payment gateway error")
			return
		}

		switch result.Status {
		case payment.StatusSuccess:
			now := time.Now()
			record.Status = models.PaymentStatusSuccess
			record.PaidAt = &now
		case payment.StatusFailed:
			record.Status = models.PaymentStatusFailed
		case payment.StatusAbandoned:
			record.Status = models.PaymentStatusAbandoned
		}

		if record.Status != models.PaymentStatusPending {
			if err := h.db.Model(&record).Updates(map[string]interface{}{
				"status":  record.Status,
				"paid_at": record.PaidAt,
			}).Error; err != nil {
				respondError(w, http.StatusInternalServerError, "Failed to record payment state")
				return
			}
			logger.InfoEvent().
				Str("reference", reference).
				Str("status", record.Status).
				Msg("Payment verified")
		}
	}

	respondJSON(w, http.StatusOK, toPaymentPayload(&record))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var records []models.Payment
	if err := h.db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&records).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	payloads := make([]*paymentPayload, 0, len(records))
	for i := range records {
		payloads = append(payloads, toPaymentPayload(&records[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"payments": payloads})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

// paymentWebhook handles gateway event deliveries. Deliveries retry, so
// state transitions must be idempotent.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if !h.gateway.VerifyWebhookSignature(body, signature) {
		logger.WarnEvent().Msg("Webhook with bad signature rejected")
		respondError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event webhookEvent
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event payload")
		return
	}

	if event.Event != "charge.success" {
		// Acknowledge everything else so the gateway stops retrying.
		respondJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	var record models.Payment
	if err := h.db.Where("reference = ?", event.Data.Reference).First(&record).Error; err != nil {
		respondError(w, http.StatusNotFound, "Payment not found")
		return
	}

	if record.Status != models.PaymentStatusSuccess {
		now := time.Now()
		if err := h.db.Model(&record).Updates(map[string]interface{}{
			"status":  models.PaymentStatusSuccess,
			"paid_at": now,
		}).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to record payment state")
			return
		}
		logger.InfoEvent().
			Str("reference", record.Reference).
			Msg("Payment confirmed via webhook")
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
