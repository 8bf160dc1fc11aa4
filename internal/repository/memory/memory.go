// Package memory implements every repository interface over in-process
// maps. It backs tests and local development without Postgres while
// keeping the transactional semantics of the real repositories:
// BeginTx snapshots the store and Rollback restores it.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
	"ledger-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Store holds all tables in memory behind one mutex.
type Store struct {
	mu sync.Mutex

	orgs       map[int64]*domain.Organization
	types      map[int64]*domain.AccountType
	categories map[int64]*domain.AccountCategory
	accounts   map[int64]*domain.Account
	balances   map[int64]*domain.AccountBalance
	entries    map[int64]*domain.JournalEntry
	lines      []*domain.JournalEntryLine

	nextID int64
}

func NewStore() *Store {
	return &Store{
		orgs:       make(map[int64]*domain.Organization),
		types:      make(map[int64]*domain.AccountType),
		categories: make(map[int64]*domain.AccountCategory),
		accounts:   make(map[int64]*domain.Account),
		balances:   make(map[int64]*domain.AccountBalance),
		entries:    make(map[int64]*domain.JournalEntry),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- transaction snapshot ---

type snapshot struct {
	orgs       map[int64]*domain.Organization
	types      map[int64]*domain.AccountType
	categories map[int64]*domain.AccountCategory
	accounts   map[int64]*domain.Account
	balances   map[int64]*domain.AccountBalance
	entries    map[int64]*domain.JournalEntry
	lines      []*domain.JournalEntryLine
	nextID     int64
}

func (s *Store) snapshotLocked() *snapshot {
	snap := &snapshot{
		orgs:       make(map[int64]*domain.Organization, len(s.orgs)),
		types:      make(map[int64]*domain.AccountType, len(s.types)),
		categories: make(map[int64]*domain.AccountCategory, len(s.categories)),
		accounts:   make(map[int64]*domain.Account, len(s.accounts)),
		balances:   make(map[int64]*domain.AccountBalance, len(s.balances)),
		entries:    make(map[int64]*domain.JournalEntry, len(s.entries)),
		lines:      make([]*domain.JournalEntryLine, len(s.lines)),
		nextID:     s.nextID,
	}
	for k, v := range s.orgs {
		cp := *v
		snap.orgs[k] = &cp
	}
	for k, v := range s.types {
		cp := *v
		snap.types[k] = &cp
	}
	for k, v := range s.categories {
		cp := *v
		snap.categories[k] = &cp
	}
	for k, v := range s.accounts {
		cp := *v
		snap.accounts[k] = &cp
	}
	for k, v := range s.balances {
		cp := *v
		snap.balances[k] = &cp
	}
	for k, v := range s.entries {
		cp := *v
		snap.entries[k] = &cp
	}
	for i, v := range s.lines {
		cp := *v
		snap.lines[i] = &cp
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs = snap.orgs
	s.types = snap.types
	s.categories = snap.categories
	s.accounts = snap.accounts
	s.balances = snap.balances
	s.entries = snap.entries
	s.lines = snap.lines
	s.nextID = snap.nextID
}

// Tx embeds pgx.Tx for interface shape; only Commit and Rollback are
// ever called on a transaction by the usecases.
type Tx struct {
	pgx.Tx
	store *Store
	snap  *snapshot
	done  bool
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.store.restore(t.snap)
	return nil
}

func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return &Tx{store: s, snap: snap}, nil
}

// --- OrganizationRepository ---

func (s *Store) CreateOrganization(ctx context.Context, o *domain.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.id()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	s.orgs[o.ID] = &cp
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orgs[id]
	if !ok {
		return nil, xerrors.ErrOrganizationNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) OrganizationExists(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.orgs[id]
	return ok, nil
}

// --- CategoryRepository ---

func (s *Store) ListTypes(ctx context.Context) ([]*domain.AccountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AccountType, 0, len(s.types))
	for _, t := range s.types {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *Store) GetType(ctx context.Context, id int64) (*domain.AccountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[id]
	if !ok {
		return nil, xerrors.ErrInvalidAccountType
	}
	cp := *t
	return &cp, nil
}

func (s *Store) UpsertType(ctx context.Context, t *domain.AccountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if existing.Name == t.Name {
			existing.NormalBalance = t.NormalBalance
			existing.DisplayOrder = t.DisplayOrder
			t.ID = existing.ID
			return nil
		}
	}
	t.ID = s.id()
	cp := *t
	s.types[t.ID] = &cp
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *domain.AccountCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = time.Now()
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.AccountCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, xerrors.ErrInvalidAccountCategory
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCategories(ctx context.Context, orgID int64) ([]*domain.AccountCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.AccountCategory
	for _, c := range s.categories {
		if c.OrganizationID == orgID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- AccountRepository ---

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account, tx pgx.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.OrganizationID == a.OrganizationID && existing.Code == a.Code {
			return xerrors.ErrDuplicateAccountCode
		}
	}
	a.ID = s.id()
	a.IsActive = true
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.ID]; !ok {
		return xerrors.ErrAccountNotFound
	}
	for _, existing := range s.accounts {
		if existing.ID != a.ID && existing.OrganizationID == a.OrganizationID && existing.Code == a.Code {
			return xerrors.ErrDuplicateAccountCode
		}
	}
	a.UpdatedAt = time.Now()
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, orgID, accountID int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || a.OrganizationID != orgID {
		return nil, xerrors.ErrAccountNotFound
	}
	return s.projectLocked(a), nil
}

func (s *Store) ListAccounts(ctx context.Context, orgID int64) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Account
	for _, a := range s.accounts {
		if a.OrganizationID == orgID {
			out = append(out, s.projectLocked(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := s.typeOrderLocked(out[i].AccountTypeID), s.typeOrderLocked(out[j].AccountTypeID)
		if oi != oj {
			return oi < oj
		}
		ci, cj := s.catNameLocked(out[i].CategoryID), s.catNameLocked(out[j].CategoryID)
		if ci != cj {
			return ci < cj
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (s *Store) GetForPosting(ctx context.Context, tx pgx.Tx, orgID, accountID int64) (*domain.Account, error) {
	return s.GetAccountByID(ctx, orgID, accountID)
}

// projectLocked fills the joined type/category fields on a copy.
func (s *Store) projectLocked(a *domain.Account) *domain.Account {
	cp := *a
	if t, ok := s.types[a.AccountTypeID]; ok {
		cp.AccountTypeName = t.Name
		cp.NormalBalance = t.NormalBalance
	}
	if a.CategoryID != nil {
		if c, ok := s.categories[*a.CategoryID]; ok {
			name := c.Name
			cp.CategoryName = &name
		}
	}
	return &cp
}

func (s *Store) typeOrderLocked(typeID int64) int {
	if t, ok := s.types[typeID]; ok {
		return t.DisplayOrder
	}
	return 0
}

func (s *Store) catNameLocked(catID *int64) string {
	if catID == nil {
		return "￿" // sort uncategorized last, like NULLS LAST
	}
	if c, ok := s.categories[*catID]; ok {
		return c.Name
	}
	return "￿"
}

// --- BalanceRepository ---

func (s *Store) CreateZero(ctx context.Context, tx pgx.Tx, orgID, accountID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[accountID]; ok {
		return nil
	}
	s.balances[accountID] = &domain.AccountBalance{
		AccountID:      accountID,
		OrganizationID: orgID,
		Balance:        decimal.Zero,
		UpdatedAt:      time.Now(),
	}
	return nil
}

func (s *Store) GetByAccountID(ctx context.Context, accountID int64) (*domain.AccountBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[accountID]
	if !ok {
		return nil, xerrors.ErrMissingBalanceRow
	}
	cp := *b
	return &cp, nil
}

func (s *Store) Increment(ctx context.Context, tx pgx.Tx, update *domain.BalanceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[update.AccountID]
	if !ok {
		return xerrors.ErrMissingBalanceRow
	}
	b.Balance = b.Balance.Add(update.Delta)
	b.UpdatedAt = time.Now()
	return nil
}

// --- JournalRepository ---

func (s *Store) CreateEntry(ctx context.Context, e *domain.JournalEntry, tx pgx.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id()
	e.CreatedAt = time.Now()
	cp := *e
	cp.Lines = nil
	s.entries[e.ID] = &cp
	return nil
}

func (s *Store) CreateLine(ctx context.Context, l *domain.JournalEntryLine, tx pgx.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	cp := *l
	s.lines = append(s.lines, &cp)
	return nil
}

func (s *Store) GetEntryByID(ctx context.Context, orgID, entryID int64) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.OrganizationID != orgID {
		return nil, xerrors.ErrJournalEntryNotFound
	}
	cp := *e
	cp.TotalDebit = decimal.Zero
	cp.TotalCredit = decimal.Zero
	for _, l := range s.lines {
		if l.EntryID == entryID {
			lcp := *l
			s.fillLineAccountLocked(&lcp)
			cp.Lines = append(cp.Lines, &lcp)
			cp.TotalDebit = cp.TotalDebit.Add(l.DebitAmount)
			cp.TotalCredit = cp.TotalCredit.Add(l.CreditAmount)
		}
	}
	return &cp, nil
}

func (s *Store) ListEntries(ctx context.Context, f *domain.JournalEntryFilter) ([]*domain.JournalEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*domain.JournalEntry
	for _, e := range s.entries {
		if e.OrganizationID != f.OrganizationID {
			continue
		}
		if f.StartDate != nil && e.EntryDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.EntryDate.After(*f.EndDate) {
			continue
		}
		cp := *e
		cp.TotalDebit = decimal.Zero
		cp.TotalCredit = decimal.Zero
		for _, l := range s.lines {
			if l.EntryID == e.ID {
				cp.TotalDebit = cp.TotalDebit.Add(l.DebitAmount)
				cp.TotalCredit = cp.TotalCredit.Add(l.CreditAmount)
			}
		}
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].EntryDate.Equal(all[j].EntryDate) {
			return all[i].EntryDate.After(all[j].EntryDate)
		}
		return all[i].ID > all[j].ID
	})
	total := len(all)
	if f.Offset >= len(all) {
		return []*domain.JournalEntry{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (s *Store) ListLines(ctx context.Context, entryID int64) ([]*domain.JournalEntryLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.JournalEntryLine
	for _, l := range s.lines {
		if l.EntryID == entryID {
			cp := *l
			s.fillLineAccountLocked(&cp)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) fillLineAccountLocked(l *domain.JournalEntryLine) {
	if a, ok := s.accounts[l.AccountID]; ok {
		l.AccountCode = a.Code
		l.AccountName = a.Name
	}
}

// --- LedgerRepository ---

func (s *Store) ListAccountLines(ctx context.Context, f *domain.LedgerFilter) ([]*domain.LedgerTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*domain.LedgerTransaction
	for _, l := range s.lines {
		if l.AccountID != f.AccountID {
			continue
		}
		e, ok := s.entries[l.EntryID]
		if !ok || e.Status != domain.StatusPosted || e.OrganizationID != f.OrganizationID {
			continue
		}
		if f.StartDate != nil && e.EntryDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.EntryDate.After(*f.EndDate) {
			continue
		}
		desc := l.Description
		if desc == nil {
			desc = e.Description
		}
		all = append(all, &domain.LedgerTransaction{
			LineID:       l.ID,
			EntryID:      e.ID,
			EntryDate:    e.EntryDate,
			Reference:    e.Reference,
			Description:  desc,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		})
	}
	// Newest first, matching the SQL repository's page ordering.
	sort.Slice(all, func(i, j int) bool {
		return cursorLess(all[j], all[i])
	})
	total := len(all)
	offset := (f.Page - 1) * f.Limit
	if offset >= len(all) {
		return []*domain.LedgerTransaction{}, total, nil
	}
	end := offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *Store) SumPriorLines(ctx context.Context, accountID int64, cursor *domain.LedgerTransaction) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range s.lines {
		if l.AccountID != accountID {
			continue
		}
		e, ok := s.entries[l.EntryID]
		if !ok || e.Status != domain.StatusPosted {
			continue
		}
		row := &domain.LedgerTransaction{LineID: l.ID, EntryID: e.ID, EntryDate: e.EntryDate}
		if cursorLess(row, cursor) {
			debits = debits.Add(l.DebitAmount)
			credits = credits.Add(l.CreditAmount)
		}
	}
	return debits, credits, nil
}

// cursorLess orders by the (entry_date, entry_id, line_id) tuple.
func cursorLess(a, b *domain.LedgerTransaction) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	if a.EntryID != b.EntryID {
		return a.EntryID < b.EntryID
	}
	return a.LineID < b.LineID
}

// --- ReportRepository ---

func (s *Store) CurrentBalances(ctx context.Context, orgID int64) ([]*repository.ReportAccountRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.ReportAccountRow
	for _, a := range s.accounts {
		if a.OrganizationID != orgID {
			continue
		}
		amount := decimal.Zero
		if b, ok := s.balances[a.ID]; ok {
			amount = b.Balance
		}
		out = append(out, s.reportRowLocked(a, amount))
	}
	s.sortReportRowsLocked(out)
	return out, nil
}

func (s *Store) BalancesAsOf(ctx context.Context, orgID int64, asOf time.Time) ([]*repository.ReportAccountRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.ReportAccountRow
	for _, a := range s.accounts {
		if a.OrganizationID != orgID {
			continue
		}
		normal := domain.NormalBalanceDebit
		if t, ok := s.types[a.AccountTypeID]; ok {
			normal = t.NormalBalance
		}
		amount := s.sumDeltasLocked(a.ID, normal, nil, &asOf)
		out = append(out, s.reportRowLocked(a, amount))
	}
	s.sortReportRowsLocked(out)
	return out, nil
}

func (s *Store) PeriodActivity(ctx context.Context, orgID int64, start, end time.Time) ([]*repository.ReportAccountRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*repository.ReportAccountRow
	for _, a := range s.accounts {
		if a.OrganizationID != orgID {
			continue
		}
		t, ok := s.types[a.AccountTypeID]
		if !ok || (t.Name != "Revenue" && t.Name != "Expense") {
			continue
		}
		amount := s.sumDeltasLocked(a.ID, t.NormalBalance, &start, &end)
		out = append(out, s.reportRowLocked(a, amount))
	}
	s.sortReportRowsLocked(out)
	return out, nil
}

func (s *Store) sumDeltasLocked(accountID int64, normal domain.NormalBalance, start, end *time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range s.lines {
		if l.AccountID != accountID {
			continue
		}
		e, ok := s.entries[l.EntryID]
		if !ok || e.Status != domain.StatusPosted {
			continue
		}
		if start != nil && e.EntryDate.Before(*start) {
			continue
		}
		if end != nil && e.EntryDate.After(*end) {
			continue
		}
		sum = sum.Add(domain.LineDelta(normal, l.DebitAmount, l.CreditAmount))
	}
	return sum
}

func (s *Store) reportRowLocked(a *domain.Account, amount decimal.Decimal) *repository.ReportAccountRow {
	row := &repository.ReportAccountRow{
		AccountID:     a.ID,
		Code:          a.Code,
		Name:          a.Name,
		AccountTypeID: a.AccountTypeID,
		Amount:        amount,
	}
	if t, ok := s.types[a.AccountTypeID]; ok {
		row.AccountTypeName = t.Name
		row.NormalBalance = t.NormalBalance
	}
	if a.CategoryID != nil {
		if c, ok := s.categories[*a.CategoryID]; ok {
			id := c.ID
			name := c.Name
			row.CategoryID = &id
			row.CategoryName = &name
		}
	}
	return row
}

func (s *Store) sortReportRowsLocked(rows []*repository.ReportAccountRow) {
	sort.Slice(rows, func(i, j int) bool {
		oi, oj := s.typeOrderLocked(rows[i].AccountTypeID), s.typeOrderLocked(rows[j].AccountTypeID)
		if oi != oj {
			return oi < oj
		}
		ci, cj := reportCatName(rows[i].CategoryName), reportCatName(rows[j].CategoryName)
		if ci != cj {
			return strings.Compare(ci, cj) < 0
		}
		return rows[i].Code < rows[j].Code
	})
}

func reportCatName(name *string) string {
	if name == nil {
		return "￿"
	}
	return *name
}
