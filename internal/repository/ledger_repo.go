package repository

import (
	"context"
	"fmt"

	"ledger-service/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository serves the read-only general ledger projection:
// posted lines for one account joined with their entry headers.
type LedgerRepository interface {
	// ListAccountLines returns one page of posted lines for an account,
	// newest first, plus the total row count for the window.
	ListAccountLines(ctx context.Context, f *domain.LedgerFilter) ([]*domain.LedgerTransaction, int, error)

	// SumPriorLines totals debits and credits of every posted line that
	// sorts strictly before the given cursor in (entry_date, entry_id,
	// line_id) order, ignoring the window's startDate. This seeds the
	// running balance at the first returned row.
	SumPriorLines(ctx context.Context, accountID int64, cursor *domain.LedgerTransaction) (debits, credits decimal.Decimal, err error)
}

type ledgerRepo struct {
	db *pgxpool.Pool
}

func NewLedgerRepo(db *pgxpool.Pool) LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) ListAccountLines(ctx context.Context, f *domain.LedgerFilter) ([]*domain.LedgerTransaction, int, error) {
	where := `WHERE l.account_id = $1 AND e.status = 'posted'`
	args := []interface{}{f.AccountID}

	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
	` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger lines: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`
		SELECT l.id, e.id, e.entry_date, e.reference,
		       COALESCE(l.description, e.description),
		       l.debit_amount, l.credit_amount
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		%s
		ORDER BY e.entry_date DESC, e.id DESC, l.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger lines: %w", err)
	}
	defer rows.Close()

	var txns []*domain.LedgerTransaction
	for rows.Next() {
		var t domain.LedgerTransaction
		if err := rows.Scan(&t.LineID, &t.EntryID, &t.EntryDate, &t.Reference,
			&t.Description, &t.DebitAmount, &t.CreditAmount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		txns = append(txns, &t)
	}
	return txns, total, rows.Err()
}

func (r *ledgerRepo) SumPriorLines(ctx context.Context, accountID int64, cursor *domain.LedgerTransaction) (decimal.Decimal, decimal.Decimal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'posted'
		  AND (e.entry_date, e.id, l.id) < ($2, $3, $4)
	`, accountID, cursor.EntryDate, cursor.EntryID, cursor.LineID)

	var debits, credits decimal.Decimal
	if err := row.Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum prior ledger lines: %w", err)
	}
	return debits, credits, nil
}
