package domain

import "time"

// NormalBalance represents which side naturally increases an account's balance
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "debit"
	NormalBalanceCredit NormalBalance = "credit"
)

// AccountType is global reference data classifying accounts (Asset, Liability, ...).
// Seeded once at startup, not per-organization.
type AccountType struct {
	ID            int64         `json:"id" db:"id"`
	Name          string        `json:"name" db:"name"`
	NormalBalance NormalBalance `json:"normal_balance" db:"normal_balance"`
	DisplayOrder  int           `json:"display_order" db:"display_order"`
}

// DefaultAccountTypes is the fixed classification seeded at startup.
var DefaultAccountTypes = []*AccountType{
	{Name: "Asset", NormalBalance: NormalBalanceDebit, DisplayOrder: 1},
	{Name: "Liability", NormalBalance: NormalBalanceCredit, DisplayOrder: 2},
	{Name: "Equity", NormalBalance: NormalBalanceCredit, DisplayOrder: 3},
	{Name: "Revenue", NormalBalance: NormalBalanceCredit, DisplayOrder: 4},
	{Name: "Expense", NormalBalance: NormalBalanceDebit, DisplayOrder: 5},
}

// AccountCategory is a per-organization grouping under an AccountType
type AccountCategory struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"organization_id" db:"organization_id"`
	AccountTypeID  int64     `json:"account_type_id" db:"account_type_id"`
	Name           string    `json:"name" db:"name"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CategoryCreate represents data needed to create a new category
type CategoryCreate struct {
	OrganizationID int64  `json:"organization_id"`
	AccountTypeID  int64  `json:"account_type_id"`
	Name           string `json:"name"`
}

// IsValid checks if the category has valid required fields
func (c *CategoryCreate) IsValid() bool {
	return c.OrganizationID != 0 && c.AccountTypeID != 0 && c.Name != ""
}

// BankDetails is the structured payload stored for bank accounts.
// Persisted as JSONB and returned decoded.
type BankDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingNumber string `json:"routing_number,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// Account represents one row in an organization's chart of accounts
type Account struct {
	ID              int64        `json:"id" db:"id"`
	OrganizationID  int64        `json:"organization_id" db:"organization_id"`
	Code            string       `json:"code" db:"code"`
	Name            string       `json:"name" db:"name"`
	AccountTypeID   int64        `json:"account_type_id" db:"account_type_id"`
	CategoryID      *int64       `json:"category_id,omitempty" db:"category_id"`
	ParentAccountID *int64       `json:"parent_account_id,omitempty" db:"parent_account_id"`
	Description     *string      `json:"description,omitempty" db:"description"`
	IsActive        bool         `json:"is_active" db:"is_active"`
	IsBankAccount   bool         `json:"is_bank_account" db:"is_bank_account"`
	BankDetails     *BankDetails `json:"bank_details,omitempty" db:"bank_details"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`

	// Joined projections (type and category metadata)
	AccountTypeName string        `json:"account_type_name,omitempty"`
	NormalBalance   NormalBalance `json:"normal_balance,omitempty"`
	CategoryName    *string       `json:"category_name,omitempty"`
}

// AccountCreate represents data needed to create a new account
type AccountCreate struct {
	OrganizationID  int64        `json:"organization_id"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	AccountTypeID   int64        `json:"account_type_id"`
	CategoryID      *int64       `json:"category_id,omitempty"`
	ParentAccountID *int64       `json:"parent_account_id,omitempty"`
	Description     *string      `json:"description,omitempty"`
	IsBankAccount   bool         `json:"is_bank_account"`
	BankDetails     *BankDetails `json:"bank_details,omitempty"`
}

// IsValid checks if the account has valid required fields
func (a *AccountCreate) IsValid() bool {
	return a.OrganizationID != 0 && a.Code != "" && a.Name != "" && a.AccountTypeID != 0
}

// AccountUpdate is a partial merge: only non-nil fields change
type AccountUpdate struct {
	Code            *string      `json:"code,omitempty"`
	Name            *string      `json:"name,omitempty"`
	AccountTypeID   *int64       `json:"account_type_id,omitempty"`
	CategoryID      *int64       `json:"category_id,omitempty"`
	ParentAccountID *int64       `json:"parent_account_id,omitempty"`
	Description     *string      `json:"description,omitempty"`
	IsActive        *bool        `json:"is_active,omitempty"`
	IsBankAccount   *bool        `json:"is_bank_account,omitempty"`
	BankDetails     *BankDetails `json:"bank_details,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u *AccountUpdate) IsEmpty() bool {
	return u.Code == nil && u.Name == nil && u.AccountTypeID == nil &&
		u.CategoryID == nil && u.ParentAccountID == nil && u.Description == nil &&
		u.IsActive == nil && u.IsBankAccount == nil && u.BankDetails == nil
}
