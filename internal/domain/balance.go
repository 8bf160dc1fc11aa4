package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance represents the current signed balance of an account.
// One row per account, created eagerly at account creation. Only the
// journal posting path mutates it; everything else reads.
type AccountBalance struct {
	AccountID      int64           `json:"account_id" db:"account_id"`
	OrganizationID int64           `json:"organization_id" db:"organization_id"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// BalanceUpdate carries one increment applied to an account's balance
// while posting a journal entry.
type BalanceUpdate struct {
	AccountID int64
	Delta     decimal.Decimal
}
