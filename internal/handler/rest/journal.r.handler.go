package hrest

import (
	"encoding/json"
	"net/http"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/pkg/response"
	"ledger-service/pkg/xerrors"
)

// postJournalRequest is the wire shape of a posting request. Dates come
// in as YYYY-MM-DD strings rather than RFC 3339 timestamps.
type postJournalRequest struct {
	OrganizationID int64                      `json:"organization_id"`
	EntryDate      string                     `json:"entry_date"`
	Reference      string                     `json:"reference"`
	Description    *string                    `json:"description,omitempty"`
	Lines          []*domain.JournalLineInput `json:"lines"`
}

// PostJournalEntry handles POST /api/v1/journal-entries
func (h *LedgerRestHandler) PostJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req postJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "failed to parse request body")
		return
	}

	var entryDate time.Time
	if req.EntryDate != "" {
		parsed, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			response.FromError(w, &xerrors.ValidationError{Field: "entry_date", Msg: "must be formatted YYYY-MM-DD"}, h.development)
			return
		}
		entryDate = parsed
	}

	entry, err := h.journalUC.Post(r.Context(), &domain.JournalEntryCreate{
		OrganizationID: req.OrganizationID,
		EntryDate:      entryDate,
		Reference:      req.Reference,
		Description:    req.Description,
		Lines:          req.Lines,
	})
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusCreated, entry)
}

// GetJournalEntry handles GET /api/v1/journal-entries/{entryID}/organization/{orgID}
func (h *LedgerRestHandler) GetJournalEntry(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	entryID, err := urlParamInt64(r, "entryID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	entry, err := h.journalUC.GetByID(r.Context(), orgID, entryID)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSON(w, http.StatusOK, entry)
}

// ListJournalEntries handles GET /api/v1/journal-entries/organization/{orgID}
func (h *LedgerRestHandler) ListJournalEntries(w http.ResponseWriter, r *http.Request) {
	orgID, err := urlParamInt64(r, "orgID")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	startDate, err := queryDate(r, "startDate")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	endDate, err := queryDate(r, "endDate")
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	// Clamp before the offset is derived so page and limit stay in step.
	limit := queryInt(r, "limit", 50)
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	filter := &domain.JournalEntryFilter{
		OrganizationID: orgID,
		StartDate:      startDate,
		EndDate:        endDate,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	entries, total, err := h.journalUC.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}
	response.JSONPage(w, http.StatusOK, entries, response.NewPagination(total, page, filter.Limit))
}
