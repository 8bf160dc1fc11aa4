package usecase

import (
	"context"
	"testing"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixture wires every usecase over one in-memory store with the
// standard account types seeded and one organization created.
type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	org   *domain.Organization
	types map[string]*domain.AccountType

	orgUC     *OrganizationUsecase
	accountUC *AccountUsecase
	journalUC *JournalUsecase
	ledgerUC  *LedgerUsecase
	reportUC  *ReportUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	types := make(map[string]*domain.AccountType)
	for _, at := range domain.DefaultAccountTypes {
		cp := *at
		require.NoError(t, store.UpsertType(ctx, &cp))
		types[cp.Name] = &cp
	}

	org := &domain.Organization{Name: "Test Org"}
	require.NoError(t, store.CreateOrganization(ctx, org))

	logger := zap.NewNop()

	return &fixture{
		t:         t,
		ctx:       ctx,
		store:     store,
		org:       org,
		types:     types,
		orgUC:     NewOrganizationUsecase(store.Organizations()),
		accountUC: NewAccountUsecase(store.Accounts(), store.Balances(), store.Categories(), store.Organizations(), nil),
		journalUC: NewJournalUsecase(store.Journal(), store.Accounts(), store.Balances(), nil, logger),
		ledgerUC:  NewLedgerUsecase(store.Ledger(), store.Accounts()),
		reportUC:  NewReportUsecase(store.Reports(), store.Organizations()),
	}
}

func (f *fixture) account(code, name, typeName string) *domain.Account {
	f.t.Helper()
	account, err := f.accountUC.Create(f.ctx, &domain.AccountCreate{
		OrganizationID: f.org.ID,
		Code:           code,
		Name:           name,
		AccountTypeID:  f.types[typeName].ID,
	})
	require.NoError(f.t, err)
	return account
}

func (f *fixture) post(date string, lines ...*domain.JournalLineInput) *domain.JournalEntry {
	f.t.Helper()
	entry, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(f.t, date),
		Lines:          lines,
	})
	require.NoError(f.t, err)
	return entry
}

func day(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed
}

func debit(accountID int64, amount string) *domain.JournalLineInput {
	return &domain.JournalLineInput{AccountID: accountID, DebitAmount: dec(amount)}
}

func credit(accountID int64, amount string) *domain.JournalLineInput {
	return &domain.JournalLineInput{AccountID: accountID, CreditAmount: dec(amount)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) balance(accountID int64) decimal.Decimal {
	f.t.Helper()
	b, err := f.store.GetByAccountID(f.ctx, accountID)
	require.NoError(f.t, err)
	return b.Balance
}
