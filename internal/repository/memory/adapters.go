package memory

import (
	"context"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// The Store backs every table, so per-interface method names collide.
// These adapters expose one repository interface each over the shared
// Store.

func (s *Store) Organizations() repository.OrganizationRepository { return orgAdapter{s} }
func (s *Store) Categories() repository.CategoryRepository        { return catAdapter{s} }
func (s *Store) Accounts() repository.AccountRepository           { return accountAdapter{s} }
func (s *Store) Balances() repository.BalanceRepository           { return balanceAdapter{s} }
func (s *Store) Journal() repository.JournalRepository            { return journalAdapter{s} }
func (s *Store) Ledger() repository.LedgerRepository              { return ledgerAdapter{s} }
func (s *Store) Reports() repository.ReportRepository             { return reportAdapter{s} }

type orgAdapter struct{ s *Store }

func (a orgAdapter) Create(ctx context.Context, o *domain.Organization) error {
	return a.s.CreateOrganization(ctx, o)
}
func (a orgAdapter) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	return a.s.GetOrganization(ctx, id)
}
func (a orgAdapter) List(ctx context.Context) ([]*domain.Organization, error) {
	return a.s.ListOrganizations(ctx)
}
func (a orgAdapter) Exists(ctx context.Context, id int64) (bool, error) {
	return a.s.OrganizationExists(ctx, id)
}

type catAdapter struct{ s *Store }

func (a catAdapter) ListTypes(ctx context.Context) ([]*domain.AccountType, error) {
	return a.s.ListTypes(ctx)
}
func (a catAdapter) GetType(ctx context.Context, id int64) (*domain.AccountType, error) {
	return a.s.GetType(ctx, id)
}
func (a catAdapter) UpsertType(ctx context.Context, t *domain.AccountType) error {
	return a.s.UpsertType(ctx, t)
}
func (a catAdapter) CreateCategory(ctx context.Context, c *domain.AccountCategory) error {
	return a.s.CreateCategory(ctx, c)
}
func (a catAdapter) GetCategory(ctx context.Context, id int64) (*domain.AccountCategory, error) {
	return a.s.GetCategory(ctx, id)
}
func (a catAdapter) ListCategories(ctx context.Context, orgID int64) ([]*domain.AccountCategory, error) {
	return a.s.ListCategories(ctx, orgID)
}

type accountAdapter struct{ s *Store }

func (a accountAdapter) Create(ctx context.Context, acc *domain.Account, tx pgx.Tx) error {
	return a.s.CreateAccount(ctx, acc, tx)
}
func (a accountAdapter) Update(ctx context.Context, acc *domain.Account) error {
	return a.s.UpdateAccount(ctx, acc)
}
func (a accountAdapter) GetByID(ctx context.Context, orgID, accountID int64) (*domain.Account, error) {
	return a.s.GetAccountByID(ctx, orgID, accountID)
}
func (a accountAdapter) List(ctx context.Context, orgID int64) ([]*domain.Account, error) {
	return a.s.ListAccounts(ctx, orgID)
}
func (a accountAdapter) GetForPosting(ctx context.Context, tx pgx.Tx, orgID, accountID int64) (*domain.Account, error) {
	return a.s.GetForPosting(ctx, tx, orgID, accountID)
}
func (a accountAdapter) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return a.s.BeginTx(ctx)
}

type balanceAdapter struct{ s *Store }

func (a balanceAdapter) CreateZero(ctx context.Context, tx pgx.Tx, orgID, accountID int64) error {
	return a.s.CreateZero(ctx, tx, orgID, accountID)
}
func (a balanceAdapter) GetByAccountID(ctx context.Context, accountID int64) (*domain.AccountBalance, error) {
	return a.s.GetByAccountID(ctx, accountID)
}
func (a balanceAdapter) Increment(ctx context.Context, tx pgx.Tx, update *domain.BalanceUpdate) error {
	return a.s.Increment(ctx, tx, update)
}

type journalAdapter struct{ s *Store }

func (a journalAdapter) CreateEntry(ctx context.Context, e *domain.JournalEntry, tx pgx.Tx) error {
	return a.s.CreateEntry(ctx, e, tx)
}
func (a journalAdapter) CreateLine(ctx context.Context, l *domain.JournalEntryLine, tx pgx.Tx) error {
	return a.s.CreateLine(ctx, l, tx)
}
func (a journalAdapter) GetByID(ctx context.Context, orgID, entryID int64) (*domain.JournalEntry, error) {
	return a.s.GetEntryByID(ctx, orgID, entryID)
}
func (a journalAdapter) List(ctx context.Context, f *domain.JournalEntryFilter) ([]*domain.JournalEntry, int, error) {
	return a.s.ListEntries(ctx, f)
}
func (a journalAdapter) ListLines(ctx context.Context, entryID int64) ([]*domain.JournalEntryLine, error) {
	return a.s.ListLines(ctx, entryID)
}

type ledgerAdapter struct{ s *Store }

func (a ledgerAdapter) ListAccountLines(ctx context.Context, f *domain.LedgerFilter) ([]*domain.LedgerTransaction, int, error) {
	return a.s.ListAccountLines(ctx, f)
}
func (a ledgerAdapter) SumPriorLines(ctx context.Context, accountID int64, cursor *domain.LedgerTransaction) (decimal.Decimal, decimal.Decimal, error) {
	return a.s.SumPriorLines(ctx, accountID, cursor)
}

type reportAdapter struct{ s *Store }

func (a reportAdapter) CurrentBalances(ctx context.Context, orgID int64) ([]*repository.ReportAccountRow, error) {
	return a.s.CurrentBalances(ctx, orgID)
}
func (a reportAdapter) BalancesAsOf(ctx context.Context, orgID int64, asOf time.Time) ([]*repository.ReportAccountRow, error) {
	return a.s.BalancesAsOf(ctx, orgID, asOf)
}
func (a reportAdapter) PeriodActivity(ctx context.Context, orgID int64, start, end time.Time) ([]*repository.ReportAccountRow, error) {
	return a.s.PeriodActivity(ctx, orgID, start, end)
}
