package hrest

import (
	"net/http"

	"ledger-service/pkg/response"
)

// TrialBalance handles GET /api/v1/reports/trial-balance/organization/{orgID}
func (h *LedgerRestHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	asOf, err := queryDate(r, "asOfDate")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	report, err := h.reportUC.TrialBalance(r.Context(), orgID, asOf)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// IncomeStatement handles GET /api/v1/reports/income-statement/organization/{orgID}
func (h *LedgerRestHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	start, err := queryDate(r, "startDate")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	report, err := h.reportUC.IncomeStatement(r.Context(), orgID, start, end)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
