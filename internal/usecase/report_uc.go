package usecase

import (
	"context"
	"time"

	"ledger-service/internal/domain"
	"ledger-service/internal/repository"
	"ledger-service/pkg/xerrors"

	"github.com/shopspring/decimal"
)

// ReportUsecase builds derived aggregates over posted activity: the
// trial balance and the income statement.
type ReportUsecase struct {
	reportRepo repository.ReportRepository
	orgRepo    repository.OrganizationRepository
}

func NewReportUsecase(reportRepo repository.ReportRepository, orgRepo repository.OrganizationRepository) *ReportUsecase {
	return &ReportUsecase{reportRepo: reportRepo, orgRepo: orgRepo}
}

// TrialBalance lists every account's balance classified into debit and
// credit columns. Without asOfDate it reads the maintained balance rows;
// with asOfDate it reconstructs point-in-time balances from posted
// journal history.
func (uc *ReportUsecase) TrialBalance(ctx context.Context, orgID int64, asOf *time.Time) (*domain.TrialBalance, error) {
	if ok, err := uc.orgRepo.Exists(ctx, orgID); err != nil {
		return nil, err
	} else if !ok {
		return nil, xerrors.ErrOrganizationNotFound
	}

	var rows []*repository.ReportAccountRow
	var err error
	if asOf != nil {
		rows, err = uc.reportRepo.BalancesAsOf(ctx, orgID, *asOf)
	} else {
		rows, err = uc.reportRepo.CurrentBalances(ctx, orgID)
	}
	if err != nil {
		return nil, err
	}

	tb := &domain.TrialBalance{
		OrganizationID: orgID,
		AsOfDate:       asOf,
		TotalDebits:    decimal.Zero,
		TotalCredits:   decimal.Zero,
	}

	var section *domain.TrialBalanceSection
	var category *domain.TrialBalanceCategory

	for _, row := range rows {
		if section == nil || section.AccountTypeID != row.AccountTypeID {
			section = &domain.TrialBalanceSection{
				AccountTypeID:   row.AccountTypeID,
				AccountTypeName: row.AccountTypeName,
				TotalDebit:      decimal.Zero,
				TotalCredit:     decimal.Zero,
			}
			tb.Sections = append(tb.Sections, section)
			category = nil
		}

		if category == nil || !sameCategory(category.CategoryID, row.CategoryID) {
			category = &domain.TrialBalanceCategory{
				CategoryID:   row.CategoryID,
				CategoryName: categoryName(row.CategoryName),
				TotalDebit:   decimal.Zero,
				TotalCredit:  decimal.Zero,
			}
			section.Categories = append(section.Categories, category)
		}

		debit, credit := classifyBalance(row.NormalBalance, row.Amount)
		category.Accounts = append(category.Accounts, &domain.TrialBalanceRow{
			AccountID:     row.AccountID,
			Code:          row.Code,
			Name:          row.Name,
			DebitBalance:  debit,
			CreditBalance: credit,
		})

		category.TotalDebit = category.TotalDebit.Add(debit)
		category.TotalCredit = category.TotalCredit.Add(credit)
		section.TotalDebit = section.TotalDebit.Add(debit)
		section.TotalCredit = section.TotalCredit.Add(credit)
		tb.TotalDebits = tb.TotalDebits.Add(debit)
		tb.TotalCredits = tb.TotalCredits.Add(credit)
	}

	tb.Difference = tb.TotalDebits.Sub(tb.TotalCredits).Abs()
	return tb, nil
}

// IncomeStatement sums Revenue and Expense activity over an inclusive
// date range, grouped by category.
func (uc *ReportUsecase) IncomeStatement(ctx context.Context, orgID int64, start, end *time.Time) (*domain.IncomeStatement, error) {
	if start == nil || end == nil {
		return nil, xerrors.ErrMissingDateParameters
	}
	if ok, err := uc.orgRepo.Exists(ctx, orgID); err != nil {
		return nil, err
	} else if !ok {
		return nil, xerrors.ErrOrganizationNotFound
	}

	rows, err := uc.reportRepo.PeriodActivity(ctx, orgID, *start, *end)
	if err != nil {
		return nil, err
	}

	is := &domain.IncomeStatement{
		OrganizationID: orgID,
		StartDate:      *start,
		EndDate:        *end,
		TotalRevenue:   decimal.Zero,
		TotalExpenses:  decimal.Zero,
	}

	var revenueGroup, expenseGroup *domain.IncomeStatementGroup

	for _, row := range rows {
		isRevenue := row.AccountTypeName == "Revenue"

		var group *domain.IncomeStatementGroup
		if isRevenue {
			if revenueGroup == nil || !sameCategory(revenueGroup.CategoryID, row.CategoryID) {
				revenueGroup = &domain.IncomeStatementGroup{
					CategoryID:   row.CategoryID,
					CategoryName: categoryName(row.CategoryName),
					Total:        decimal.Zero,
				}
				is.Revenue = append(is.Revenue, revenueGroup)
			}
			group = revenueGroup
		} else {
			if expenseGroup == nil || !sameCategory(expenseGroup.CategoryID, row.CategoryID) {
				expenseGroup = &domain.IncomeStatementGroup{
					CategoryID:   row.CategoryID,
					CategoryName: categoryName(row.CategoryName),
					Total:        decimal.Zero,
				}
				is.Expenses = append(is.Expenses, expenseGroup)
			}
			group = expenseGroup
		}

		group.Accounts = append(group.Accounts, &domain.IncomeStatementRow{
			AccountID: row.AccountID,
			Code:      row.Code,
			Name:      row.Name,
			Amount:    row.Amount,
		})
		group.Total = group.Total.Add(row.Amount)

		if isRevenue {
			is.TotalRevenue = is.TotalRevenue.Add(row.Amount)
		} else {
			is.TotalExpenses = is.TotalExpenses.Add(row.Amount)
		}
	}

	is.NetIncome = is.TotalRevenue.Sub(is.TotalExpenses)
	return is, nil
}

// classifyBalance places a signed balance on its normal column; a
// negative balance lands on the opposite column as an absolute value.
func classifyBalance(normal domain.NormalBalance, amount decimal.Decimal) (debit, credit decimal.Decimal) {
	debit = decimal.Zero
	credit = decimal.Zero

	if normal == domain.NormalBalanceDebit {
		if amount.IsNegative() {
			credit = amount.Abs()
		} else {
			debit = amount
		}
		return debit, credit
	}

	if amount.IsNegative() {
		debit = amount.Abs()
	} else {
		credit = amount
	}
	return debit, credit
}

func sameCategory(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func categoryName(name *string) string {
	if name == nil {
		return "Uncategorized"
	}
	return *name
}
