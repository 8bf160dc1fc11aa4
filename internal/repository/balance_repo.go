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

// BalanceRepository owns the account_balances table. Rows are created
// eagerly when an account is created; the posting path increments them
// under a row lock; everything else reads.
type BalanceRepository interface {
	CreateZero(ctx context.Context, tx pgx.Tx, orgID, accountID int64) error
	GetByAccountID(ctx context.Context, accountID int64) (*domain.AccountBalance, error)
	Increment(ctx context.Context, tx pgx.Tx, update *domain.BalanceUpdate) error
}

type balanceRepo struct {
	db *pgxpool.Pool
}

func NewBalanceRepo(db *pgxpool.Pool) BalanceRepository {
	return &balanceRepo{db: db}
}

// CreateZero inserts the zero balance row for a freshly created account
func (r *balanceRepo) CreateZero(ctx context.Context, tx pgx.Tx, orgID, accountID int64) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO account_balances (account_id, organization_id, balance, updated_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID, orgID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create balance row: %w", err)
	}
	return nil
}

func (r *balanceRepo) GetByAccountID(ctx context.Context, accountID int64) (*domain.AccountBalance, error) {
	row := r.db.QueryRow(ctx, `
		SELECT account_id, organization_id, balance, updated_at
		FROM account_balances
		WHERE account_id = $1
	`, accountID)

	var b domain.AccountBalance
	if err := row.Scan(&b.AccountID, &b.OrganizationID, &b.Balance, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrMissingBalanceRow
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return &b, nil
}

// Increment applies one signed delta to an account's balance inside the
// posting transaction. The row is taken FOR UPDATE so concurrent postings
// against the same account serialize. A missing row fails loudly; the
// balance row must have been created with the account.
func (r *balanceRepo) Increment(ctx context.Context, tx pgx.Tx, update *domain.BalanceUpdate) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	var current decimal.Decimal
	err := tx.QueryRow(ctx, `
		SELECT balance FROM account_balances
		WHERE account_id = $1
		FOR UPDATE
	`, update.AccountID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("account %d: %w", update.AccountID, xerrors.ErrMissingBalanceRow)
		}
		return fmt.Errorf("failed to lock balance: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE account_balances
		SET balance = $1, updated_at = $2
		WHERE account_id = $3
	`, current.Add(update.Delta), time.Now(), update.AccountID)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", update.AccountID, xerrors.ErrMissingBalanceRow)
	}

	return nil
}
