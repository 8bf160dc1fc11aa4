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

type OrganizationRepository interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type organizationRepo struct {
	db *pgxpool.Pool
}

func NewOrganizationRepo(db *pgxpool.Pool) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO organizations (name, created_at, updated_at)
		VALUES ($1, $2, $2)
		RETURNING id
	`, o.Name, now).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (r *organizationRepo) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id)

	var o domain.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &o, nil
}

func (r *organizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM organizations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, &o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM organizations WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check organization: %w", err)
	}
	return true, nil
}
