package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsBalancedTolerance(t *testing.T) {
	entry := func(debit, credit string) *JournalEntryCreate {
		return &JournalEntryCreate{
			Lines: []*JournalLineInput{
				{DebitAmount: decimal.RequireFromString(debit)},
				{CreditAmount: decimal.RequireFromString(credit)},
			},
		}
	}

	assert.True(t, entry("100", "100").IsBalanced())
	assert.True(t, entry("100.001", "100").IsBalanced())
	assert.True(t, entry("100", "100.0005").IsBalanced())
	assert.False(t, entry("100.002", "100").IsBalanced())
	assert.False(t, entry("100", "90").IsBalanced())
}

func TestLineDelta(t *testing.T) {
	hundred := decimal.NewFromInt(100)
	forty := decimal.NewFromInt(40)

	// Debit-normal: debits increase, credits decrease.
	assert.True(t, LineDelta(NormalBalanceDebit, hundred, decimal.Zero).Equal(hundred))
	assert.True(t, LineDelta(NormalBalanceDebit, decimal.Zero, forty).Equal(forty.Neg()))
	assert.True(t, LineDelta(NormalBalanceDebit, hundred, forty).Equal(decimal.NewFromInt(60)))

	// Credit-normal: the mirror image.
	assert.True(t, LineDelta(NormalBalanceCredit, decimal.Zero, hundred).Equal(hundred))
	assert.True(t, LineDelta(NormalBalanceCredit, forty, decimal.Zero).Equal(forty.Neg()))
}
