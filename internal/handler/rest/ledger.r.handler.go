package hrest

import (
	"net/http"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/usecase"
	"ledger-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// LedgerRestHandler serves every HTTP endpoint of the service
type LedgerRestHandler struct {
	orgUC       *usecase.OrganizationUsecase
	accountUC   *usecase.AccountUsecase
	journalUC   *usecase.JournalUsecase
	ledgerUC    *usecase.LedgerUsecase
	reportUC    *usecase.ReportUsecase
	apiToken    string
	development bool
	logger      *zap.Logger
}

func NewLedgerRestHandler(
	orgUC *usecase.OrganizationUsecase,
	accountUC *usecase.AccountUsecase,
	journalUC *usecase.JournalUsecase,
	ledgerUC *usecase.LedgerUsecase,
	reportUC *usecase.ReportUsecase,
	apiToken string,
	development bool,
	logger *zap.Logger,
) *LedgerRestHandler {
	return &LedgerRestHandler{
		orgUC:       orgUC,
		accountUC:   accountUC,
		journalUC:   journalUC,
		ledgerUC:    ledgerUC,
		reportUC:    reportUC,
		apiToken:    apiToken,
		development: development,
		logger:      logger,
	}
}

// Router builds the chi router with the full middleware stack
func (h *LedgerRestHandler) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(h.apiToken))

		r.Route("/organizations", func(r chi.Router) {
			r.Post("/", h.CreateOrganization)
			r.Get("/", h.ListOrganizations)
			r.Get("/{orgID}", h.GetOrganization)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/types", h.ListAccountTypes)
			r.Post("/categories", h.CreateCategory)
			r.Get("/categories/organization/{orgID}", h.ListCategories)
			r.Get("/organization/{orgID}", h.ListAccounts)
			r.Get("/{accountID}/organization/{orgID}", h.GetAccount)
			r.Post("/", h.CreateAccount)
			r.Put("/{accountID}/organization/{orgID}", h.UpdateAccount)
		})

		r.Get("/general-ledger/accounts/{accountID}/organization/{orgID}", h.GetLedger)

		r.Route("/journal-entries", func(r chi.Router) {
			r.Get("/organization/{orgID}", h.ListJournalEntries)
			r.Get("/{entryID}/organization/{orgID}", h.GetJournalEntry)
			r.Post("/", h.PostJournalEntry)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance/organization/{orgID}", h.TrialBalance)
			r.Get("/income-statement/organization/{orgID}", h.IncomeStatement)
		})
	})

	return r
}

// GetLedger handles GET /api/v1/general-ledger/accounts/{accountID}/organization/{orgID}
func (h *LedgerRestHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
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

	filter := &domain.LedgerFilter{
		OrganizationID: orgID,
		AccountID:      accountID,
		StartDate:      startDate,
		EndDate:        endDate,
		Page:           queryInt(r, "page", 1),
		Limit:          queryInt(r, "limit", 50),
	}

	ledger, err := h.ledgerUC.Get(r.Context(), filter)
	if err != nil {
		response.FromError(w, err, h.development)
		return
	}

	response.JSONPage(w, http.StatusOK, ledger, response.NewPagination(ledger.Total, filter.Page, filter.Limit))
}
