package hrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository/memory"
	"ledger-service/internal/usecase"
	"ledger-service/pkg/response"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec100() decimal.Decimal { return decimal.NewFromInt(100) }

type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	store  *memory.Store
	types  map[string]*domain.AccountType
	token  string
	client *http.Client
}

func newTestServer(t *testing.T, token string) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	types := make(map[string]*domain.AccountType)
	for _, at := range domain.DefaultAccountTypes {
		cp := *at
		require.NoError(t, store.UpsertType(ctx, &cp))
		types[cp.Name] = &cp
	}

	logger := zap.NewNop()
	handler := NewLedgerRestHandler(
		usecase.NewOrganizationUsecase(store.Organizations()),
		usecase.NewAccountUsecase(store.Accounts(), store.Balances(), store.Categories(), store.Organizations(), nil),
		usecase.NewJournalUsecase(store.Journal(), store.Accounts(), store.Balances(), nil, logger),
		usecase.NewLedgerUsecase(store.Ledger(), store.Accounts()),
		usecase.NewReportUsecase(store.Reports(), store.Organizations()),
		token,
		true,
		logger,
	)

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)

	return &testServer{
		t:      t,
		srv:    srv,
		store:  store,
		types:  types,
		token:  token,
		client: srv.Client(),
	}
}

type envelope struct {
	Success    bool                 `json:"success"`
	Data       json.RawMessage      `json:"data"`
	Error      *response.APIError   `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

func (ts *testServer) do(method, path string, body interface{}) (int, *envelope) {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(ts.t, err)
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.client.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, &env
}

func (ts *testServer) decode(env *envelope, out interface{}) {
	ts.t.Helper()
	require.NoError(ts.t, json.Unmarshal(env.Data, out))
}

func (ts *testServer) createOrg(name string) *domain.Organization {
	ts.t.Helper()
	status, env := ts.do(http.MethodPost, "/api/v1/organizations", map[string]string{"name": name})
	require.Equal(ts.t, http.StatusCreated, status)
	var org domain.Organization
	ts.decode(env, &org)
	return &org
}

func (ts *testServer) createAccount(orgID int64, code, name, typeName string) *domain.Account {
	ts.t.Helper()
	status, env := ts.do(http.MethodPost, "/api/v1/accounts", map[string]interface{}{
		"organization_id": orgID,
		"code":            code,
		"name":            name,
		"account_type_id": ts.types[typeName].ID,
	})
	require.Equal(ts.t, http.StatusCreated, status)
	var account domain.Account
	ts.decode(env, &account)
	return &account
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	status, env := ts.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestBearerAuth(t *testing.T) {
	ts := newTestServer(t, "secret-token")

	// No credentials.
	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/api/v1/organizations", nil)
	require.NoError(t, err)
	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	// With the token.
	status, _ := ts.do(http.MethodGet, "/api/v1/organizations", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPostJournalEntryEndToEnd(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")
	cash := ts.createAccount(org.ID, "1000", "Cash", "Asset")
	revenue := ts.createAccount(org.ID, "4000", "Sales Revenue", "Revenue")

	status, env := ts.do(http.MethodPost, "/api/v1/journal-entries", map[string]interface{}{
		"organization_id": org.ID,
		"entry_date":      "2024-01-15",
		"description":     "Cash sale",
		"lines": []map[string]interface{}{
			{"account_id": cash.ID, "debit_amount": "100", "credit_amount": "0"},
			{"account_id": revenue.ID, "debit_amount": "0", "credit_amount": "100"},
		},
	})
	require.Equal(t, http.StatusCreated, status)

	var entry domain.JournalEntry
	ts.decode(env, &entry)
	assert.Equal(t, domain.StatusPosted, entry.Status)
	assert.NotEmpty(t, entry.Reference)
	assert.Len(t, entry.Lines, 2)

	// Ledger view shows the posting with a running balance.
	path := fmt.Sprintf("/api/v1/general-ledger/accounts/%d/organization/%d", cash.ID, org.ID)
	status, env = ts.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)

	var ledger domain.Ledger
	ts.decode(env, &ledger)
	require.Len(t, ledger.Transactions, 1)
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec100()))

	// Trial balance stays in balance.
	status, env = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/reports/trial-balance/organization/%d", org.ID), nil)
	require.Equal(t, http.StatusOK, status)

	var tb domain.TrialBalance
	ts.decode(env, &tb)
	assert.True(t, tb.TotalDebits.Equal(tb.TotalCredits))
	assert.True(t, tb.Difference.IsZero())
}

func TestPostJournalEntryUnbalanced(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")
	cash := ts.createAccount(org.ID, "1000", "Cash", "Asset")
	revenue := ts.createAccount(org.ID, "4000", "Sales Revenue", "Revenue")

	status, env := ts.do(http.MethodPost, "/api/v1/journal-entries", map[string]interface{}{
		"organization_id": org.ID,
		"entry_date":      "2024-01-15",
		"lines": []map[string]interface{}{
			{"account_id": cash.ID, "debit_amount": "100", "credit_amount": "0"},
			{"account_id": revenue.ID, "debit_amount": "0", "credit_amount": "90"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNBALANCED_ENTRY", env.Error.Code)

	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "10.00", details["difference"])
}

func TestPostJournalEntryBadDate(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")

	status, env := ts.do(http.MethodPost, "/api/v1/journal-entries", map[string]interface{}{
		"organization_id": org.ID,
		"entry_date":      "15/01/2024",
		"lines":           []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestListJournalEntriesClampsLimit(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")
	cash := ts.createAccount(org.ID, "1000", "Cash", "Asset")
	revenue := ts.createAccount(org.ID, "4000", "Sales Revenue", "Revenue")

	for _, date := range []string{"2024-01-10", "2024-01-11"} {
		status, _ := ts.do(http.MethodPost, "/api/v1/journal-entries", map[string]interface{}{
			"organization_id": org.ID,
			"entry_date":      date,
			"lines": []map[string]interface{}{
				{"account_id": cash.ID, "debit_amount": "10", "credit_amount": "0"},
				{"account_id": revenue.ID, "debit_amount": "0", "credit_amount": "10"},
			},
		})
		require.Equal(t, http.StatusCreated, status)
	}

	// A zero limit falls back to the default, and the offset follows:
	// page 2 at the default limit is past both entries, not a replay of
	// page 1.
	path := fmt.Sprintf("/api/v1/journal-entries/organization/%d?limit=0&page=2", org.ID)
	status, env := ts.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 50, env.Pagination.Limit)

	var entries []*domain.JournalEntry
	ts.decode(env, &entries)
	assert.Empty(t, entries)
}

func TestCreateAccountDuplicateCodeConflict(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")
	ts.createAccount(org.ID, "1000", "Cash", "Asset")

	status, env := ts.do(http.MethodPost, "/api/v1/accounts", map[string]interface{}{
		"organization_id": org.ID,
		"code":            "1000",
		"name":            "Petty Cash",
		"account_type_id": ts.types["Asset"].ID,
	})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DUPLICATE_ACCOUNT_CODE", env.Error.Code)
}

func TestGetAccountNotFound(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")

	status, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/9999/organization/%d", org.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", env.Error.Code)
}

func TestIncomeStatementRequiresDateParameters(t *testing.T) {
	ts := newTestServer(t, "")
	org := ts.createOrg("Acme Ltd")

	status, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/reports/income-statement/organization/%d", org.ID), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MISSING_DATE_PARAMETERS", env.Error.Code)
}

func TestListAccountTypes(t *testing.T) {
	ts := newTestServer(t, "")

	status, env := ts.do(http.MethodGet, "/api/v1/accounts/types", nil)
	require.Equal(t, http.StatusOK, status)

	var types []*domain.AccountType
	ts.decode(env, &types)
	require.Len(t, types, 5)
	assert.Equal(t, "Asset", types[0].Name)
}
