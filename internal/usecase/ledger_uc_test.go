package usecase

import (
	"testing"

	"ledger-service/internal/domain"
	"ledger-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRunningBalance(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	f.post("2024-01-10", debit(cash.ID, "100"), credit(revenue.ID, "100"))
	f.post("2024-01-15", debit(cash.ID, "50"), credit(revenue.ID, "50"))
	f.post("2024-01-20", credit(cash.ID, "30"), debit(revenue.ID, "30"))

	ledger, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      cash.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, ledger.Account)
	assert.Equal(t, cash.ID, ledger.Account.ID)
	assert.Equal(t, 3, ledger.Total)
	require.Len(t, ledger.Transactions, 3)

	// Chronological order with a cumulative balance per row.
	assert.Equal(t, day(t, "2024-01-10"), ledger.Transactions[0].EntryDate)
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec("100")))
	assert.True(t, ledger.Transactions[1].Balance.Equal(dec("150")))
	assert.True(t, ledger.Transactions[2].Balance.Equal(dec("120")))
}

func TestLedgerSeedsBalanceBeforeStartDate(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	f.post("2024-01-10", debit(cash.ID, "100"), credit(revenue.ID, "100"))
	f.post("2024-02-10", debit(cash.ID, "40"), credit(revenue.ID, "40"))

	start := day(t, "2024-02-01")
	ledger, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      cash.ID,
		StartDate:      &start,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.Total)
	require.Len(t, ledger.Transactions, 1)

	// The excluded January entry still counts toward the running balance.
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec("140")))
}

func TestLedgerSeedsBalanceAcrossPages(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	f.post("2024-01-10", debit(cash.ID, "10"), credit(revenue.ID, "10"))
	f.post("2024-01-11", debit(cash.ID, "20"), credit(revenue.ID, "20"))
	f.post("2024-01-12", debit(cash.ID, "30"), credit(revenue.ID, "30"))

	// Page 1 holds the newest row; its balance is the account total.
	ledger, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      cash.ID,
		Page:           1,
		Limit:          1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, ledger.Total)
	require.Len(t, ledger.Transactions, 1)
	assert.Equal(t, day(t, "2024-01-12"), ledger.Transactions[0].EntryDate)
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec("60")))

	// Page 2 resumes mid-history at the correct cumulative value.
	ledger, err = f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      cash.ID,
		Page:           2,
		Limit:          1,
	})
	require.NoError(t, err)
	require.Len(t, ledger.Transactions, 1)
	assert.Equal(t, day(t, "2024-01-11"), ledger.Transactions[0].EntryDate)
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec("30")))
}

func TestLedgerCreditNormalAccount(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	f.post("2024-01-10", debit(cash.ID, "100"), credit(revenue.ID, "100"))
	f.post("2024-01-15", debit(revenue.ID, "25"), credit(cash.ID, "25"))

	ledger, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      revenue.ID,
	})
	require.NoError(t, err)
	require.Len(t, ledger.Transactions, 2)
	assert.True(t, ledger.Transactions[0].Balance.Equal(dec("100")))
	assert.True(t, ledger.Transactions[1].Balance.Equal(dec("75")))
}

func TestLedgerEmptyAccount(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")

	ledger, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      cash.ID,
	})
	require.NoError(t, err)
	assert.Zero(t, ledger.Total)
	assert.Empty(t, ledger.Transactions)
	assert.NotNil(t, ledger.Transactions)
}

func TestLedgerUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledgerUC.Get(f.ctx, &domain.LedgerFilter{
		OrganizationID: f.org.ID,
		AccountID:      9999,
	})
	assert.ErrorIs(t, err, xerrors.ErrAccountNotFound)
}
