package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's classified balance. A balance opposite
// to the account's normal side lands in the other column as an absolute
// value (a contra balance).
type TrialBalanceRow struct {
	AccountID     int64           `json:"account_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// TrialBalanceCategory groups rows under one category with subtotals
type TrialBalanceCategory struct {
	CategoryID   *int64             `json:"category_id,omitempty"`
	CategoryName string             `json:"category_name"`
	Accounts     []*TrialBalanceRow `json:"accounts"`
	TotalDebit   decimal.Decimal    `json:"total_debit"`
	TotalCredit  decimal.Decimal    `json:"total_credit"`
}

// TrialBalanceSection groups categories under one account type
type TrialBalanceSection struct {
	AccountTypeID   int64                   `json:"account_type_id"`
	AccountTypeName string                  `json:"account_type_name"`
	Categories      []*TrialBalanceCategory `json:"categories"`
	TotalDebit      decimal.Decimal         `json:"total_debit"`
	TotalCredit     decimal.Decimal         `json:"total_credit"`
}

// TrialBalance is the point-in-time listing of all account balances.
// Difference is |TotalDebits - TotalCredits| and should be zero when
// every posting to date was individually balanced.
type TrialBalance struct {
	OrganizationID int64                  `json:"organization_id"`
	AsOfDate       *time.Time             `json:"as_of_date,omitempty"`
	Sections       []*TrialBalanceSection `json:"sections"`
	TotalDebits    decimal.Decimal        `json:"total_debits"`
	TotalCredits   decimal.Decimal        `json:"total_credits"`
	Difference     decimal.Decimal        `json:"difference"`
}

// IncomeStatementRow is one revenue or expense account's period total
type IncomeStatementRow struct {
	AccountID int64           `json:"account_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementGroup groups rows by category with a subtotal
type IncomeStatementGroup struct {
	CategoryID   *int64                `json:"category_id,omitempty"`
	CategoryName string                `json:"category_name"`
	Accounts     []*IncomeStatementRow `json:"accounts"`
	Total        decimal.Decimal       `json:"total"`
}

// IncomeStatement summarizes period revenue and expenses.
// NetIncome = TotalRevenue - TotalExpenses.
type IncomeStatement struct {
	OrganizationID int64                   `json:"organization_id"`
	StartDate      time.Time               `json:"start_date"`
	EndDate        time.Time               `json:"end_date"`
	Revenue        []*IncomeStatementGroup `json:"revenue"`
	Expenses       []*IncomeStatementGroup `json:"expenses"`
	TotalRevenue   decimal.Decimal         `json:"total_revenue"`
	TotalExpenses  decimal.Decimal         `json:"total_expenses"`
	NetIncome      decimal.Decimal         `json:"net_income"`
}
