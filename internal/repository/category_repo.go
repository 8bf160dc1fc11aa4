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
)

// CategoryRepository covers account-type reference data and the
// per-organization categories grouped under it.
type CategoryRepository interface {
	ListTypes(ctx context.Context) ([]*domain.AccountType, error)
	GetType(ctx context.Context, id int64) (*domain.AccountType, error)
	UpsertType(ctx context.Context, t *domain.AccountType) error

	CreateCategory(ctx context.Context, c *domain.AccountCategory) error
	GetCategory(ctx context.Context, id int64) (*domain.AccountCategory, error)
	ListCategories(ctx context.Context, orgID int64) ([]*domain.AccountCategory, error)
}

type categoryRepo struct {
	db *pgxpool.Pool
}

func NewCategoryRepo(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) ListTypes(ctx context.Context) ([]*domain.AccountType, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, normal_balance, display_order
		FROM account_types
		ORDER BY display_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	defer rows.Close()

	var types []*domain.AccountType
	for rows.Next() {
		var t domain.AccountType
		if err := rows.Scan(&t.ID, &t.Name, &t.NormalBalance, &t.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan account type: %w", err)
		}
		types = append(types, &t)
	}
	return types, rows.Err()
}

func (r *categoryRepo) GetType(ctx context.Context, id int64) (*domain.AccountType, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, normal_balance, display_order
		FROM account_types
		WHERE id = $1
	`, id)

	var t domain.AccountType
	if err := row.Scan(&t.ID, &t.Name, &t.NormalBalance, &t.DisplayOrder); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrInvalidAccountType
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return &t, nil
}

// UpsertType inserts a reference account type if absent (idempotent seeding)
func (r *categoryRepo) UpsertType(ctx context.Context, t *domain.AccountType) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO account_types (name, normal_balance, display_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET normal_balance = EXCLUDED.normal_balance,
		                                 display_order = EXCLUDED.display_order
		RETURNING id
	`, t.Name, t.NormalBalance, t.DisplayOrder).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert account type %s: %w", t.Name, err)
	}
	return nil
}

func (r *categoryRepo) CreateCategory(ctx context.Context, c *domain.AccountCategory) error {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO account_categories (organization_id, account_type_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.OrganizationID, c.AccountTypeID, c.Name, now).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.CreatedAt = now
	return nil
}

func (r *categoryRepo) GetCategory(ctx context.Context, id int64) (*domain.AccountCategory, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, organization_id, account_type_id, name, created_at
		FROM account_categories
		WHERE id = $1
	`, id)

	var c domain.AccountCategory
	if err := row.Scan(&c.ID, &c.OrganizationID, &c.AccountTypeID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrInvalidAccountCategory
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

func (r *categoryRepo) ListCategories(ctx context.Context, orgID int64) ([]*domain.AccountCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.organization_id, c.account_type_id, c.name, c.created_at
		FROM account_categories c
		JOIN account_types at ON at.id = c.account_type_id
		WHERE c.organization_id = $1
		ORDER BY at.display_order ASC, c.name ASC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.AccountCategory
	for rows.Next() {
		var c domain.AccountCategory
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.AccountTypeID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
