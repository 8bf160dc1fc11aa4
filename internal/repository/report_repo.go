package repository

import (
	"context"
	"fmt"
	"time"

	"ledger-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReportAccountRow is one account's aggregate used by the report
// usecases: account metadata plus a signed balance (trial balance) or a
// period delta (income statement).
type ReportAccountRow struct {
	AccountID       int64
	Code            string
	Name            string
	AccountTypeID   int64
	AccountTypeName string
	NormalBalance   domain.NormalBalance
	CategoryID      *int64
	CategoryName    *string
	Amount          decimal.Decimal
}

// ReportRepository serves the read-only aggregates behind the trial
// balance and income statement.
type ReportRepository interface {
	// CurrentBalances joins every account of the organization to its
	// balance row (0 if absent), in (type, category, code) order.
	CurrentBalances(ctx context.Context, orgID int64) ([]*ReportAccountRow, error)

	// BalancesAsOf reconstructs point-in-time balances from posted lines
	// with entry_date <= asOf, in the same order.
	BalancesAsOf(ctx context.Context, orgID int64, asOf time.Time) ([]*ReportAccountRow, error)

	// PeriodActivity sums posted line deltas per Revenue/Expense account
	// within [start, end] inclusive, grouped by category.
	PeriodActivity(ctx context.Context, orgID int64, start, end time.Time) ([]*ReportAccountRow, error)
}

type reportRepo struct {
	db *pgxpool.Pool
}

func NewReportRepo(db *pgxpool.Pool) ReportRepository {
	return &reportRepo{db: db}
}

const reportOrderBy = ` ORDER BY at.display_order ASC, c.name ASC NULLS LAST, a.code ASC`

func (r *reportRepo) CurrentBalances(ctx context.Context, orgID int64) ([]*ReportAccountRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.code, a.name, at.id, at.name, at.normal_balance,
		       c.id, c.name, COALESCE(b.balance, 0)
		FROM accounts a
		JOIN account_types at ON at.id = a.account_type_id
		LEFT JOIN account_categories c ON c.id = a.category_id
		LEFT JOIN account_balances b ON b.account_id = a.id
		WHERE a.organization_id = $1
	`+reportOrderBy, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query current balances: %w", err)
	}
	return scanReportRows(rows)
}

func (r *reportRepo) BalancesAsOf(ctx context.Context, orgID int64, asOf time.Time) ([]*ReportAccountRow, error) {
	// Point-in-time reconstruction: sum posted deltas per account up to
	// the cutoff, signed by the account type's normal balance.
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.code, a.name, at.id, at.name, at.normal_balance,
		       c.id, c.name,
		       COALESCE(SUM(
		           CASE WHEN at.normal_balance = 'debit'
		                THEN l.debit_amount - l.credit_amount
		                ELSE l.credit_amount - l.debit_amount
		           END
		       ), 0)
		FROM accounts a
		JOIN account_types at ON at.id = a.account_type_id
		LEFT JOIN account_categories c ON c.id = a.category_id
		LEFT JOIN (journal_entry_lines l
		           JOIN journal_entries e ON e.id = l.entry_id
		               AND e.status = 'posted' AND e.entry_date <= $2)
		       ON l.account_id = a.id
		WHERE a.organization_id = $1
		GROUP BY a.id, a.code, a.name, at.id, at.name, at.normal_balance, at.display_order, c.id, c.name
	`+reportOrderBy, orgID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct balances: %w", err)
	}
	return scanReportRows(rows)
}

func (r *reportRepo) PeriodActivity(ctx context.Context, orgID int64, start, end time.Time) ([]*ReportAccountRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.code, a.name, at.id, at.name, at.normal_balance,
		       c.id, c.name,
		       COALESCE(SUM(
		           CASE WHEN at.normal_balance = 'debit'
		                THEN l.debit_amount - l.credit_amount
		                ELSE l.credit_amount - l.debit_amount
		           END
		       ), 0)
		FROM accounts a
		JOIN account_types at ON at.id = a.account_type_id
		LEFT JOIN account_categories c ON c.id = a.category_id
		LEFT JOIN (journal_entry_lines l
		           JOIN journal_entries e ON e.id = l.entry_id
		               AND e.status = 'posted' AND e.entry_date >= $2 AND e.entry_date <= $3)
		       ON l.account_id = a.id
		WHERE a.organization_id = $1 AND at.name IN ('Revenue', 'Expense')
		GROUP BY a.id, a.code, a.name, at.id, at.name, at.normal_balance, at.display_order, c.id, c.name
	`+reportOrderBy, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query period activity: %w", err)
	}
	return scanReportRows(rows)
}

func scanReportRows(rows pgx.Rows) ([]*ReportAccountRow, error) {
	defer rows.Close()

	var result []*ReportAccountRow
	for rows.Next() {
		var row ReportAccountRow
		if err := rows.Scan(&row.AccountID, &row.Code, &row.Name,
			&row.AccountTypeID, &row.AccountTypeName, &row.NormalBalance,
			&row.CategoryID, &row.CategoryName, &row.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
