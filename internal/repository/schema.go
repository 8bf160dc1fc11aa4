package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema defines the SQL statements to create service tables.
const Schema = `
CREATE TABLE IF NOT EXISTS organizations (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- Global reference data, seeded at startup
CREATE TABLE IF NOT EXISTS account_types (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    normal_balance TEXT NOT NULL CHECK (normal_balance IN ('debit', 'credit')),
    display_order INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS account_categories (
    id BIGSERIAL PRIMARY KEY,
    organization_id BIGINT NOT NULL REFERENCES organizations(id),
    account_type_id BIGINT NOT NULL REFERENCES account_types(id),
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (organization_id, name)
);

CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    organization_id BIGINT NOT NULL REFERENCES organizations(id),
    code TEXT NOT NULL,
    name TEXT NOT NULL,
    account_type_id BIGINT NOT NULL REFERENCES account_types(id),
    category_id BIGINT REFERENCES account_categories(id),
    parent_account_id BIGINT REFERENCES accounts(id),
    description TEXT,
    is_active BOOLEAN NOT NULL DEFAULT true,
    is_bank_account BOOLEAN NOT NULL DEFAULT false,
    bank_details JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (organization_id, code)
);

CREATE INDEX IF NOT EXISTS idx_accounts_org ON accounts(organization_id);
CREATE INDEX IF NOT EXISTS idx_accounts_type ON accounts(account_type_id);

-- One row per account, written only by the posting path
CREATE TABLE IF NOT EXISTS account_balances (
    account_id BIGINT PRIMARY KEY REFERENCES accounts(id),
    organization_id BIGINT NOT NULL REFERENCES organizations(id),
    balance NUMERIC(18,4) NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_balances_org ON account_balances(organization_id);

CREATE TABLE IF NOT EXISTS journal_entries (
    id BIGSERIAL PRIMARY KEY,
    organization_id BIGINT NOT NULL REFERENCES organizations(id),
    entry_date DATE NOT NULL,
    reference TEXT NOT NULL,
    description TEXT,
    status TEXT NOT NULL DEFAULT 'posted' CHECK (status IN ('posted', 'draft', 'void')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_entries_org_date ON journal_entries(organization_id, entry_date);

CREATE TABLE IF NOT EXISTS journal_entry_lines (
    id BIGSERIAL PRIMARY KEY,
    entry_id BIGINT NOT NULL REFERENCES journal_entries(id),
    account_id BIGINT NOT NULL REFERENCES accounts(id),
    description TEXT,
    debit_amount NUMERIC(18,4) NOT NULL DEFAULT 0 CHECK (debit_amount >= 0),
    credit_amount NUMERIC(18,4) NOT NULL DEFAULT 0 CHECK (credit_amount >= 0),
    tax_rate NUMERIC(8,4),
    tax_amount NUMERIC(18,4)
);

CREATE INDEX IF NOT EXISTS idx_lines_entry ON journal_entry_lines(entry_id);
CREATE INDEX IF NOT EXISTS idx_lines_account ON journal_entry_lines(account_id);
`

// EnsureSchema creates all tables if they don't exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
