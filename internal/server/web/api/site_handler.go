package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nyattihq/nyatti/internal/catalog"
	"github.com/nyattihq/nyatti/internal/db/models"
	"github.com/nyattihq/nyatti/internal/plans"
	"github.com/nyattihq/nyatti/internal/server/sites"
	pkgerrors "github.com/nyattihq/nyatti/pkg/errors"
)

type sitePayload struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Subdomain     string    `json:"subdomain"`
	URL           string    `json:"url"`
	TemplateID    *string   `json:"template_id,omitempty"`
	PlanType      string    `json:"plan_type"`
	Status        string    `json:"status"`
	Domain        *string   `json:"domain,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	ColorScheme   string    `json:"color_scheme,omitempty"`
	Pages         []string  `json:"pages"`
	Features      []string  `json:"features"`
	ProductsCount int64     `json:"products_count"`
	Revenue       int64     `json:"revenue"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) toSitePayload(s *models.Site) *sitePayload {
	return &sitePayload{
		ID:            s.ID.String(),
		Kind:          s.Kind,
		Name:          s.Name,
		Description:   s.Description,
		Subdomain:     s.Subdomain,
		URL:           "https://" + s.PublicHost(h.config.Server.Domain),
		TemplateID:    s.TemplateID,
		PlanType:      s.PlanType,
		Status:        s.Status,
		Domain:        s.Domain,
		Industry:      s.Industry,
		ColorScheme:   s.ColorScheme,
		Pages:         s.PageList(),
		Features:      s.FeatureList(),
		ProductsCount: s.ProductsCount,
		Revenue:       s.Revenue,
		CreatedAt:     s.CreatedAt,
	}
}

// respondServiceError maps the site service's sentinel errors onto HTTP
// statuses. Unknown errors stay opaque 500s.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrSiteNotFound):
		respondError(w, http.StatusNotFound, "Site not found")
	case errors.Is(err, pkgerrors.ErrSubdomainTaken):
		respondError(w, http.StatusConflict, "Subdomain is already taken")
	case errors.Is(err, pkgerrors.ErrInvalidSubdomain):
		respondError(w, http.StatusBadRequest, "Invalid subdomain")
	case errors.Is(err, pkgerrors.ErrInvalidPlan):
		respondError(w, http.StatusBadRequest, "Unknown plan")
	case errors.Is(err, pkgerrors.ErrInvalidTemplate):
		respondError(w, http.StatusBadRequest, "Unknown template")
	case errors.Is(err, pkgerrors.ErrMaxSitesReached):
		respondError(w, http.StatusForbidden, "Site limit reached for this account")
	default:
		var appErr *pkgerrors.AppError
		if errors.As(err, &appErr) {
			respondError(w, http.StatusBadRequest, appErr.Message)
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.siteService.List(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payloads := make([]*sitePayload, 0, len(list))
	for i := range list {
		payloads = append(payloads, h.toSitePayload(&list[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sites": payloads})
}

type createSiteRequest struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Subdomain   string   `json:"subdomain"`
	TemplateID  *string  `json:"template_id"`
	PlanType    string   `json:"plan_type"`
	Industry    string   `json:"industry"`
	ColorScheme string   `json:"color_scheme"`
	Pages       []string `json:"pages"`
	Features    []string `json:"features"`
}

func (h *Handler) createSite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	site, err := h.siteService.Create(r.Context(), user.ID, sites.CreateInput{
		Kind:        catalog.Kind(req.Kind),
		Name:        req.Name,
		Description: req.Description,
		Subdomain:   req.Subdomain,
		TemplateID:  req.TemplateID,
		PlanType:    plans.ID(req.PlanType),
		Industry:    req.Industry,
		ColorScheme: req.ColorScheme,
		Pages:       req.Pages,
		Features:    req.Features,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.toSitePayload(site))
}

func (h *Handler) siteIDFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

func (h *Handler) getSite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	siteID, ok := h.siteIDFromPath(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid site ID")
		return
	}

	site, err := h.siteService.Get(r.Context(), user.ID, siteID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toSitePayload(site))
}

type updateSiteRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
	Domain *string `json:"domain"`
}

func (h *Handler) updateSite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	siteID, ok := h.siteIDFromPath(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid site ID")
		return
	}

	var req updateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	site, err := h.siteService.Update(r.Context(), user.ID, siteID, sites.UpdateInput{
		Name:   req.Name,
		Status: req.Status,
		Domain: req.Domain,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.toSitePayload(site))
}

func (h *Handler) deleteSite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	siteID, ok := h.siteIDFromPath(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid site ID")
		return
	}

	if err := h.siteService.Delete(r.Context(), user.ID, siteID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) checkSubdomain(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	available, err := h.siteService.CheckSubdomainAvailable(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check availability")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"subdomain": name,
		"available": available,
	})
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"templates":  catalog.TemplatesByCategory(category),
		"categories": catalog.TemplateCategories(),
	})
}

func (h *Handler) listPlans(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"plans":    plans.All(),
		"currency": plans.Currency,
	})
}
