package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/nyattihq/nyatti/internal/db/models"
	"github.com/nyattihq/nyatti/internal/server/auth"
	"github.com/nyattihq/nyatti/internal/server/web/middleware"
	"github.com/nyattihq/nyatti/pkg/logger"
	"github.com/nyattihq/nyatti/pkg/utils"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code,omitempty"`
}

type loginResponse struct {
	Token       string       `json:"token,omitempty"`
	User        *userPayload `json:"user,omitempty"`
	Requires2FA bool         `json:"requires_2fa,omitempty"`
}

type userPayload struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	DisplayName      string     `json:"display_name,omitempty"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toUserPayload(u *models.User) *userPayload {
	return &userPayload{
		ID:               u.ID.String(),
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		DisplayName:      u.DisplayName,
		TwoFactorEnabled: u.TwoFactorEnabled,
		EmailConfirmedAt: u.EmailConfirmedAt,
		LastSignInAt:     u.LastSignInAt,
		CreatedAt:        u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	var existing int64
	if err := h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	if existing > 0 {
		respondError(w, http.StatusConflict, "An account with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := &models.User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := h.db.Create(user).Error; err != nil {
		logger.ErrorEvent().Err(err).Msg("Failed to create user")
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.authMW.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, loginResponse{Token: token, User: toUserPayload(user)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.ComparePassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if user.TwoFactorEnabled {
		if req.OTPCode == "" {
			respondJSON(w, http.StatusOK, loginResponse{Requires2FA: true})
			return
		}
		totpService := auth.NewTOTPService()
		if !totpService.ValidateCode(user.TwoFactorSecret, req.OTPCode) {
			respondError(w, http.StatusUnauthorized, "Invalid OTP code")
			return
		}
	}

	now := time.Now()
	user.LastSignInAt = &now
	h.db.Model(&user).Update("last_sign_in_at", now)

	token, err := h.authMW.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		logger.ErrorEvent().Err(err).Msg("Failed to generate token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserPayload(&user)})
}

// currentUser loads the user for the session claims on the request.
func (h *Handler) currentUser(r *http.Request) (*models.User, bool) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		return nil, false
	}

	var user models.User
	if err := h.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, toUserPayload(user))
}

type profileUpdateRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	respondJSON(w, http.StatusOK, toUserPayload(user))
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req passwordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !utils.ComparePassword(user.Password, req.CurrentPassword) {
		respondError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if err := h.db.Model(user).Update("password", hashed).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// 2FA handlers

func (h *Handler) twoFAStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"enabled": user.TwoFactorEnabled})
}

func (h *Handler) twoFASetup(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if user.TwoFactorEnabled {
		respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		return
	}

	totpService := auth.NewTOTPService()
	secret, url, err := totpService.GenerateSecret(h.config.Server.Domain, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate secret")
		return
	}

	// Secret is stored but 2FA stays off until the first code verifies
	if err := h.db.Model(user).Update("two_factor_secret", secret).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store secret")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"secret": secret, "otpauth_url": url})
}

func (h *Handler) twoFAVerify(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Code is required")
		return
	}

	totpService := auth.NewTOTPService()
	if user.TwoFactorSecret == "" || !totpService.ValidateCode(user.TwoFactorSecret, req.Code) {
		respondError(w, http.StatusUnauthorized, "Invalid code")
		return
	}

	if err := h.db.Model(user).Update("two_factor_enabled", true).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enable 2FA")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

func (h *Handler) twoFADisable(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !utils.ComparePassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "Password is incorrect")
		return
	}

	err := h.db.Model(user).Updates(map[string]interface{}{
		"two_factor_enabled": false,
		"two_factor_secret":  "",
	}).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to disable 2FA")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"enabled": false})
}
