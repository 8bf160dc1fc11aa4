package hrest

import (
	"encoding/json"
	"net/http"

	"ledger-service/internal/domain"
	"ledger-service/pkg/response"
)

// CreateOrganization handles POST /api/v1/organizations
func (h *LedgerRestHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var in domain.OrganizationCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to parse request body")
		return
	}

	org, err := h.orgUC.Create(r.Context(), &in)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusCreated, org)
}

// GetOrganization handles GET /api/v1/organizations/{orgID}
func (h *LedgerRestHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	org, err := h.orgUC.GetByID(r.Context(), orgID)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, org)
}

// ListOrganizations handles GET /api/v1/organizations
func (h *LedgerRestHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgUC.List(r.Context())
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, orgs)
}
