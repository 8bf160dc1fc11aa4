package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// JournalRepository persists journal entries and their lines. Entries are
// written only inside the posting transaction and never mutated after.
type JournalRepository interface {
	CreateEntry(ctx context.Context, e *domain.JournalEntry, tx pgx.Tx) error
	CreateLine(ctx context.Context, l *domain.JournalEntryLine, tx pgx.Tx) error
	GetByID(ctx context.Context, orgID, entryID int64) (*domain.JournalEntry, error)
	List(ctx context.Context, f *domain.JournalEntryFilter) ([]*domain.JournalEntry, int, error)
	ListLines(ctx context.Context, entryID int64) ([]*domain.JournalEntryLine, error)
}

type journalRepo struct {
	db *pgxpool.Pool
}

func NewJournalRepo(db *pgxpool.Pool) JournalRepository {
	return &journalRepo{db: db}
}

// CreateEntry inserts a new journal entry header inside a transaction
func (r *journalRepo) CreateEntry(ctx context.Context, e *domain.JournalEntry, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	now := time.Now()
	err := tx.QueryRow(ctx, `
		INSERT INTO journal_entries (organization_id, entry_date, reference, description, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, e.OrganizationID, e.EntryDate, e.Reference, e.Description, e.Status, now).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	e.CreatedAt = now
	return nil
}

// CreateLine inserts one entry line inside a transaction
func (r *journalRepo) CreateLine(ctx context.Context, l *domain.JournalEntryLine, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO journal_entry_lines (entry_id, account_id, description, debit_amount, credit_amount, tax_rate, tax_amount)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, l.EntryID, l.AccountID, l.Description, l.DebitAmount, l.CreditAmount, l.TaxRate, l.TaxAmount).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("failed to create journal entry line: %w", err)
	}
	return nil
}

// GetByID fetches one entry with all of its lines
func (r *journalRepo) GetByID(ctx context.Context, orgID, entryID int64) (*domain.JournalEntry, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, organization_id, entry_date, reference, description, status, created_at
		FROM journal_entries
		WHERE id = $1 AND organization_id = $2
	`, entryID, orgID)

	var e domain.JournalEntry
	err := row.Scan(&e.ID, &e.OrganizationID, &e.EntryDate, &e.Reference, &e.Description, &e.Status, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrJournalEntryNotFound
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	lines, err := r.ListLines(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Lines = lines
	e.TotalDebit, e.TotalCredit = sumLines(lines)

	return &e, nil
}

// ListLines fetches all lines for an entry joined with account metadata
func (r *journalRepo) ListLines(ctx context.Context, entryID int64) ([]*domain.JournalEntryLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.entry_id, l.account_id, l.description,
		       l.debit_amount, l.credit_amount, l.tax_rate, l.tax_amount,
		       a.code, a.name
		FROM journal_entry_lines l
		JOIN accounts a ON a.id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.id ASC
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.JournalEntryLine
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Description,
			&l.DebitAmount, &l.CreditAmount, &l.TaxRate, &l.TaxAmount,
			&l.AccountCode, &l.AccountName); err != nil {
			return nil, fmt.Errorf("failed to scan entry line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// List fetches a page of entries with line totals, newest first
func (r *journalRepo) List(ctx context.Context, f *domain.JournalEntryFilter) ([]*domain.JournalEntry, int, error) {
	where := `WHERE e.organization_id = $1`
	args := []interface{}{f.OrganizationID}

	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM journal_entries e ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT e.id, e.organization_id, e.entry_date, e.reference, e.description, e.status, e.created_at,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entries e
		LEFT JOIN journal_entry_lines l ON l.entry_id = e.id
		%s
		GROUP BY e.id
		ORDER BY e.entry_date DESC, e.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.OrganizationID, &e.EntryDate, &e.Reference,
			&e.Description, &e.Status, &e.CreatedAt, &e.TotalDebit, &e.TotalCredit); err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

func sumLines(lines []*domain.JournalEntryLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.DebitAmount)
		totalCredit = totalCredit.Add(l.CreditAmount)
	}
	return totalDebit, totalCredit
}
