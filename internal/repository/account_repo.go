package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/pkg/xerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository defines persistence operations for the chart of accounts
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account, tx pgx.Tx) error
	Update(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, orgID, accountID int64) (*domain.Account, error)
	List(ctx context.Context, orgID int64) ([]*domain.Account, error)

	// GetForPosting resolves an account and its normal balance inside the
	// posting transaction.
	GetForPosting(ctx context.Context, tx pgx.Tx, orgID, accountID int64) (*domain.Account, error)

	// Transaction helper
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepo(db *pgxpool.Pool) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const accountSelectQuery = `
	SELECT a.id, a.organization_id, a.code, a.name, a.account_type_id,
	       a.category_id, a.parent_account_id, a.description,
	       a.is_active, a.is_bank_account, a.bank_details,
	       a.created_at, a.updated_at,
	       at.name, at.normal_balance, c.name
	FROM accounts a
	JOIN account_types at ON at.id = a.account_type_id
	LEFT JOIN account_categories c ON c.id = a.category_id`

// scanAccount scans one joined row into a domain.Account
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var bankDetails []byte
	err := row.Scan(
		&a.ID, &a.OrganizationID, &a.Code, &a.Name, &a.AccountTypeID,
		&a.CategoryID, &a.ParentAccountID, &a.Description,
		&a.IsActive, &a.IsBankAccount, &bankDetails,
		&a.CreatedAt, &a.UpdatedAt,
		&a.AccountTypeName, &a.NormalBalance, &a.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	if len(bankDetails) > 0 {
		var bd domain.BankDetails
		if err := json.Unmarshal(bankDetails, &bd); err != nil {
			return nil, fmt.Errorf("failed to decode bank details: %w", err)
		}
		a.BankDetails = &bd
	}
	return &a, nil
}

func encodeBankDetails(bd *domain.BankDetails) ([]byte, error) {
	if bd == nil {
		return nil, nil
	}
	data, err := json.Marshal(bd)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bank details: %w", err)
	}
	return data, nil
}

// Create inserts a new account inside a transaction
func (r *accountRepo) Create(ctx context.Context, a *domain.Account, tx pgx.Tx) error {
	if tx == nil {
		return errors.New("transaction cannot be nil")
	}

	bankDetails, err := encodeBankDetails(a.BankDetails)
	if err != nil {
		return err
	}

	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (organization_id, code, name, account_type_id, category_id,
		                      parent_account_id, description, is_active, is_bank_account,
		                      bank_details, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,true,$8,$9,$10,$10)
		RETURNING id
	`, a.OrganizationID, a.Code, a.Name, a.AccountTypeID, a.CategoryID,
		a.ParentAccountID, a.Description, a.IsBankAccount, bankDetails, now).Scan(&a.ID)

	if err != nil {
		if xerrors.IsUniqueViolation(err) {
			return xerrors.ErrDuplicateAccountCode
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	a.IsActive = true
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// Update persists a fully merged account row. updated_at always refreshes.
func (r *accountRepo) Update(ctx context.Context, a *domain.Account) error {
	bankDetails, err := encodeBankDetails(a.BankDetails)
	if err != nil {
		return err
	}

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET code = $1, name = $2, account_type_id = $3, category_id = $4,
		    parent_account_id = $5, description = $6, is_active = $7,
		    is_bank_account = $8, bank_details = $9, updated_at = $10
		WHERE id = $11 AND organization_id = $12
	`, a.Code, a.Name, a.AccountTypeID, a.CategoryID, a.ParentAccountID,
		a.Description, a.IsActive, a.IsBankAccount, bankDetails, now,
		a.ID, a.OrganizationID)

	if err != nil {
		if xerrors.IsUniqueViolation(err) {
			return xerrors.ErrDuplicateAccountCode
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return xerrors.ErrAccountNotFound
	}

	a.UpdatedAt = now
	return nil
}

// GetByID fetches one account joined with type and category metadata
func (r *accountRepo) GetByID(ctx context.Context, orgID, accountID int64) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, accountSelectQuery+`
		WHERE a.id = $1 AND a.organization_id = $2
	`, accountID, orgID)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// List fetches all accounts of an organization ordered by
// (account type, category name, code)
func (r *accountRepo) List(ctx context.Context, orgID int64) ([]*domain.Account, error) {
	rows, err := r.db.Query(ctx, accountSelectQuery+`
		WHERE a.organization_id = $1
		ORDER BY at.display_order ASC, c.name ASC NULLS LAST, a.code ASC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetForPosting resolves an account within the posting transaction so the
// whole write sees one consistent snapshot.
func (r *accountRepo) GetForPosting(ctx context.Context, tx pgx.Tx, orgID, accountID int64) (*domain.Account, error) {
	if tx == nil {
		return nil, errors.New("transaction cannot be nil")
	}

	row := tx.QueryRow(ctx, `
		SELECT a.id, a.organization_id, a.code, a.name, a.account_type_id, at.normal_balance
		FROM accounts a
		JOIN account_types at ON at.id = a.account_type_id
		WHERE a.id = $1 AND a.organization_id = $2
	`, accountID, orgID)

	var a domain.Account
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Code, &a.Name, &a.AccountTypeID, &a.NormalBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to resolve account for posting: %w", err)
	}
	return &a, nil
}
