package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCodeClassifiesConnectionFailures(t *testing.T) {
	// SQLSTATE class 08 is a connection failure, retryable by the caller.
	connFailure := &pgconn.PgError{Code: "08006"}
	assert.True(t, IsConnectionError(connFailure))
	assert.Equal(t, "DATABASE_ERROR", Code(connFailure))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(connFailure))

	// Wrapped errors classify the same way.
	wrapped := fmt.Errorf("failed to list accounts: %w", connFailure)
	assert.Equal(t, "DATABASE_ERROR", Code(wrapped))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(wrapped))

	// A statement-level SQLSTATE is not an availability failure.
	uniqueViolation := &pgconn.PgError{Code: "23505"}
	assert.False(t, IsConnectionError(uniqueViolation))
	assert.True(t, IsUniqueViolation(uniqueViolation))
}

func TestCodeCollapsesUnknownErrors(t *testing.T) {
	err := errors.New("something unexpected")
	assert.Equal(t, "SERVER_ERROR", Code(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestCodeTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{ErrOrganizationNotFound, "ORGANIZATION_NOT_FOUND", http.StatusNotFound},
		{ErrAccountNotFound, "ACCOUNT_NOT_FOUND", http.StatusNotFound},
		{ErrJournalEntryNotFound, "JOURNAL_ENTRY_NOT_FOUND", http.StatusNotFound},
		{ErrDuplicateAccountCode, "DUPLICATE_ACCOUNT_CODE", http.StatusConflict},
		{ErrInvalidAccountType, "INVALID_ACCOUNT_TYPE", http.StatusBadRequest},
		{ErrInvalidAccountCategory, "INVALID_ACCOUNT_CATEGORY", http.StatusBadRequest},
		{ErrInvalidParentAccount, "INVALID_PARENT_ACCOUNT", http.StatusBadRequest},
		{ErrTooFewLines, "VALIDATION_ERROR", http.StatusBadRequest},
		{ErrNegativeAmount, "VALIDATION_ERROR", http.StatusBadRequest},
		{ErrMissingDateParameters, "MISSING_DATE_PARAMETERS", http.StatusBadRequest},
		{ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized},
		{&ValidationError{Field: "name", Msg: "required"}, "VALIDATION_ERROR", http.StatusBadRequest},
		{&UnbalancedEntryError{}, "UNBALANCED_ENTRY", http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, Code(tc.err), tc.err.Error())
		assert.Equal(t, tc.status, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestUnbalancedEntryErrorDifference(t *testing.T) {
	err := &UnbalancedEntryError{
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(90),
	}
	assert.True(t, err.Difference().Equal(decimal.NewFromInt(10)))
	assert.Contains(t, err.Error(), "difference 10.00")

	// Sign of the imbalance doesn't matter.
	flipped := &UnbalancedEntryError{
		TotalDebit:  decimal.NewFromInt(90),
		TotalCredit: decimal.NewFromInt(100),
	}
	assert.True(t, flipped.Difference().Equal(decimal.NewFromInt(10)))
}
