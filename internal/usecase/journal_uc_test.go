package usecase

import (
	"errors"
	"strings"
	"testing"

	"ledger-service/internal/domain"
	"ledger-service/pkg/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostBalancedEntry(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	entry := f.post("2024-01-15",
		debit(cash.ID, "100"),
		credit(revenue.ID, "100"),
	)

	assert.Equal(t, domain.StatusPosted, entry.Status)
	assert.True(t, strings.HasPrefix(entry.Reference, "JE-"))
	assert.Len(t, entry.Lines, 2)
	assert.True(t, entry.TotalDebit.Equal(dec("100")))
	assert.True(t, entry.TotalCredit.Equal(dec("100")))

	// Debiting a debit-normal account and crediting a credit-normal
	// account both increase their balances.
	assert.True(t, f.balance(cash.ID).Equal(dec("100")))
	assert.True(t, f.balance(revenue.ID).Equal(dec("100")))
}

func TestPostKeepsExplicitReference(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	entry, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(t, "2024-01-15"),
		Reference:      "INV-001",
		Lines: []*domain.JournalLineInput{
			debit(cash.ID, "50"),
			credit(revenue.ID, "50"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-001", entry.Reference)
}

func TestPostUnbalancedEntryRejected(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	_, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(t, "2024-01-15"),
		Lines: []*domain.JournalLineInput{
			debit(cash.ID, "100"),
			credit(revenue.ID, "90"),
		},
	})
	require.Error(t, err)

	var unbalanced *xerrors.UnbalancedEntryError
	require.True(t, errors.As(err, &unbalanced))
	assert.True(t, unbalanced.TotalDebit.Equal(dec("100")))
	assert.True(t, unbalanced.TotalCredit.Equal(dec("90")))
	assert.True(t, unbalanced.Difference().Equal(dec("10")))

	// Nothing was written.
	assert.True(t, f.balance(cash.ID).IsZero())
	assert.True(t, f.balance(revenue.ID).IsZero())
	_, total, err := f.journalUC.List(f.ctx, &domain.JournalEntryFilter{OrganizationID: f.org.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostWithinRoundingTolerance(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	entry := f.post("2024-01-15",
		debit(cash.ID, "100.0005"),
		credit(revenue.ID, "100"),
	)
	assert.Equal(t, domain.StatusPosted, entry.Status)
}

func TestPostTooFewLines(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")

	_, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(t, "2024-01-15"),
		Lines:          []*domain.JournalLineInput{debit(cash.ID, "100")},
	})
	assert.ErrorIs(t, err, xerrors.ErrTooFewLines)
}

func TestPostNegativeAmount(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	_, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(t, "2024-01-15"),
		Lines: []*domain.JournalLineInput{
			debit(cash.ID, "-100"),
			credit(revenue.ID, "-100"),
		},
	})
	assert.ErrorIs(t, err, xerrors.ErrNegativeAmount)
}

func TestPostUnknownAccountRollsBack(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")

	_, err := f.journalUC.Post(f.ctx, &domain.JournalEntryCreate{
		OrganizationID: f.org.ID,
		EntryDate:      day(t, "2024-01-15"),
		Lines: []*domain.JournalLineInput{
			debit(cash.ID, "100"),
			credit(9999, "100"),
		},
	})
	assert.ErrorIs(t, err, xerrors.ErrAccountNotFound)

	// The first line's balance increment and the entry header must not
	// survive the failed posting.
	assert.True(t, f.balance(cash.ID).IsZero())
	_, total, err := f.journalUC.List(f.ctx, &domain.JournalEntryFilter{OrganizationID: f.org.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostDeltaFollowsNormalBalance(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	loan := f.account("2000", "Bank Loan", "Liability")

	// Borrow 500: debit cash, credit the loan. Both increase.
	f.post("2024-02-01",
		debit(cash.ID, "500"),
		credit(loan.ID, "500"),
	)
	assert.True(t, f.balance(cash.ID).Equal(dec("500")))
	assert.True(t, f.balance(loan.ID).Equal(dec("500")))

	// Repay 200: credit cash, debit the loan. Both decrease.
	f.post("2024-02-10",
		debit(loan.ID, "200"),
		credit(cash.ID, "200"),
	)
	assert.True(t, f.balance(cash.ID).Equal(dec("300")))
	assert.True(t, f.balance(loan.ID).Equal(dec("300")))
}

func TestGetEntryIncludesLinesAndTotals(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	posted := f.post("2024-01-15",
		debit(cash.ID, "75"),
		credit(revenue.ID, "75"),
	)

	entry, err := f.journalUC.GetByID(f.ctx, f.org.ID, posted.ID)
	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, "1000", entry.Lines[0].AccountCode)
	assert.Equal(t, "Cash", entry.Lines[0].AccountName)
	assert.True(t, entry.TotalDebit.Equal(dec("75")))
	assert.True(t, entry.TotalCredit.Equal(dec("75")))
}

func TestGetEntryWrongOrganization(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")
	posted := f.post("2024-01-15", debit(cash.ID, "10"), credit(revenue.ID, "10"))

	other := &domain.Organization{Name: "Other Org"}
	require.NoError(t, f.store.CreateOrganization(f.ctx, other))

	_, err := f.journalUC.GetByID(f.ctx, other.ID, posted.ID)
	assert.ErrorIs(t, err, xerrors.ErrJournalEntryNotFound)
}

func TestListEntriesNewestFirstWithDateFilter(t *testing.T) {
	f := newFixture(t)
	cash := f.account("1000", "Cash", "Asset")
	revenue := f.account("4000", "Sales Revenue", "Revenue")

	f.post("2024-01-10", debit(cash.ID, "10"), credit(revenue.ID, "10"))
	f.post("2024-01-20", debit(cash.ID, "20"), credit(revenue.ID, "20"))
	f.post("2024-02-05", debit(cash.ID, "30"), credit(revenue.ID, "30"))

	entries, total, err := f.journalUC.List(f.ctx, &domain.JournalEntryFilter{OrganizationID: f.org.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].EntryDate.After(entries[1].EntryDate))
	assert.True(t, entries[1].EntryDate.After(entries[2].EntryDate))

	start := day(t, "2024-01-15")
	end := day(t, "2024-01-31")
	entries, total, err = f.journalUC.List(f.ctx, &domain.JournalEntryFilter{
		OrganizationID: f.org.ID,
		StartDate:      &start,
		EndDate:        &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].TotalDebit.Equal(dec("20")))
}
