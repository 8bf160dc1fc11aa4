package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is a single row of an account's general ledger view:
// one posted line joined with its entry header plus the running balance
// as of that row.
type LedgerTransaction struct {
	LineID       int64           `json:"line_id"`
	EntryID      int64           `json:"entry_id"`
	EntryDate    time.Time       `json:"entry_date"`
	Reference    string          `json:"reference"`
	Description  *string         `json:"description,omitempty"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Balance      decimal.Decimal `json:"balance"`
}

// LedgerFilter represents filter criteria for ledger queries
type LedgerFilter struct {
	OrganizationID int64
	AccountID      int64
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	Limit          int
}

// Ledger is the paginated ledger projection for one account, with rows
// in chronological order and per-row running balances.
type Ledger struct {
	Account      *Account             `json:"account"`
	Transactions []*LedgerTransaction `json:"transactions"`
	Total        int                  `json:"-"`
}
