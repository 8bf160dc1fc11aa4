package hrest

import (
	"encoding/json"
	"net/http"

	"ledger-service/internal/domain"
	"ledger-service/pkg/response"
)

// ListAccountTypes handles GET /api/v1/accounts/types
func (h *LedgerRestHandler) ListAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.accountUC.ListTypes(r.Context())
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, types)
}

// ListCategories handles GET /api/v1/accounts/categories/organization/{orgID}
func (h *LedgerRestHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	categories, err := h.accountUC.ListCategories(r.Context(), orgID)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/v1/accounts/categories
func (h *LedgerRestHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to parse request body")
		return
	}

	category, err := h.accountUC.CreateCategory(r.Context(), &in)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusCreated, category)
}

// ListAccounts handles GET /api/v1/accounts/organization/{orgID}
func (h *LedgerRestHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	accounts, err := h.accountUC.List(r.Context(), orgID)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET /api/v1/accounts/{accountID}/organization/{orgID}
func (h *LedgerRestHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	accountID, err := urlParamInt64(r, "accountID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	account, err := h.accountUC.GetByID(r.Context(), orgID, accountID)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

// CreateAccount handles POST /api/v1/accounts
func (h *LedgerRestHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in domain.AccountCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to parse request body")
		return
	}

	account, err := h.accountUC.Create(r.Context(), &in)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT /api/v1/accounts/{accountID}/organization/{orgID}
func (h *LedgerRestHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	accountID, err := urlParamInt64(r, "accountID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	var in domain.AccountUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to parse request body")
		return
	}

	account, err := h.accountUC.Update(r.Context(), orgID, accountID, &in)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, account)
}
