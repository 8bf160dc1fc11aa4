package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry.
// Creation only ever produces "posted"; draft and void are reserved
// for a future workflow and are never written today.
type EntryStatus string

const (
	StatusPosted EntryStatus = "posted"
	StatusDraft  EntryStatus = "draft"
	StatusVoid   EntryStatus = "void"
)

// BalanceTolerance is the maximum allowed |total debits - total credits|
// for an entry to be considered balanced.
var BalanceTolerance = decimal.NewFromFloat(0.001)

// JournalEntry is a transaction header: a container for balanced lines.
// Immutable once posted.
type JournalEntry struct {
	ID             int64       `json:"id" db:"id"`
	OrganizationID int64       `json:"organization_id" db:"organization_id"`
	EntryDate      time.Time   `json:"entry_date" db:"entry_date"`
	Reference      string      `json:"reference" db:"reference"`
	Description    *string     `json:"description,omitempty" db:"description"`
	Status         EntryStatus `json:"status" db:"status"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`

	Lines       []*JournalEntryLine `json:"lines,omitempty"`
	TotalDebit  decimal.Decimal     `json:"total_debit"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
}

// JournalEntryLine is a single debit/credit row of an entry. Both sides
// are >= 0 and both may be nonzero on one line, though typical use sets
// one side to zero.
type JournalEntryLine struct {
	ID           int64            `json:"id" db:"id"`
	EntryID      int64            `json:"entry_id" db:"entry_id"`
	AccountID    int64            `json:"account_id" db:"account_id"`
	Description  *string          `json:"description,omitempty" db:"description"`
	DebitAmount  decimal.Decimal  `json:"debit_amount" db:"debit_amount"`
	CreditAmount decimal.Decimal  `json:"credit_amount" db:"credit_amount"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty" db:"tax_rate"`
	TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty" db:"tax_amount"`

	// Joined account metadata
	AccountCode string `json:"account_code,omitempty"`
	AccountName string `json:"account_name,omitempty"`
}

// JournalEntryCreate represents data needed to post a new entry
type JournalEntryCreate struct {
	OrganizationID int64              `json:"organization_id"`
	EntryDate      time.Time          `json:"entry_date"`
	Reference      string             `json:"reference"`
	Description    *string            `json:"description,omitempty"`
	Lines          []*JournalLineInput `json:"lines"`
}

// JournalLineInput is one requested line of a new entry
type JournalLineInput struct {
	AccountID    int64            `json:"account_id"`
	Description  *string          `json:"description,omitempty"`
	DebitAmount  decimal.Decimal  `json:"debit_amount"`
	CreditAmount decimal.Decimal  `json:"credit_amount"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty"`
}

// Totals sums the requested lines
func (c *JournalEntryCreate) Totals() (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, l := range c.Lines {
		totalDebit = totalDebit.Add(l.DebitAmount)
		totalCredit = totalCredit.Add(l.CreditAmount)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether debits equal credits within tolerance
func (c *JournalEntryCreate) IsBalanced() bool {
	d, cr := c.Totals()
	return d.Sub(cr).Abs().Cmp(BalanceTolerance) <= 0
}

// LineDelta returns the signed balance contribution of one line for an
// account with the given normal balance.
func LineDelta(normal NormalBalance, debit, credit decimal.Decimal) decimal.Decimal {
	if normal == NormalBalanceDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// JournalEntryFilter represents filter criteria for entry listings
type JournalEntryFilter struct {
	OrganizationID int64
	StartDate      *time.Time
	EndDate        *time.Time
	Limit          int
	Offset         int
}
