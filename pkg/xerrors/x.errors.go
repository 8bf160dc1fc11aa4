package xerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input provided")
)

// Account registry
var (
	ErrOrganizationNotFound   = errors.New("organization not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrDuplicateAccountCode   = errors.New("account code already exists for this organization")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidAccountCategory = errors.New("invalid account category")
	ErrInvalidParentAccount   = errors.New("invalid parent account")
)

// Journal engine
var (
	ErrJournalEntryNotFound  = errors.New("journal entry not found")
	ErrTooFewLines           = errors.New("journal entry must have at least 2 lines")
	ErrNegativeAmount        = errors.New("line amounts must not be negative")
	ErrMissingBalanceRow     = errors.New("account balance row missing")
	ErrMissingDateParameters = errors.New("startDate and endDate are required")
)

// UnbalancedEntryError reports both totals and their difference when an
// entry's debits and credits do not match within tolerance.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry does not balance: debits %s, credits %s, difference %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2), e.Difference().StringFixed(2))
}

// Difference returns |TotalDebit - TotalCredit|
func (e *UnbalancedEntryError) Difference() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit).Abs()
}

// ValidationError carries a field-level input schema failure
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Msg)
}

// ParsePGErrorCode extracts the SQLSTATE code from a postgres error
func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// IsUniqueViolation reports whether err is a postgres unique constraint failure
func IsUniqueViolation(err error) bool {
	return ParsePGErrorCode(err) == "23505"
}

// IsConnectionError reports whether err looks like a database availability
// failure (connection refusal, shutdown, pool exhaustion) rather than a
// statement-level fault. SQLSTATE class 08 plus pgconn connect errors.
func IsConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	code := ParsePGErrorCode(err)
	return len(code) == 5 && code[:2] == "08"
}

// Code returns the stable taxonomy code surfaced in API error envelopes
func Code(err error) string {
	var unbalanced *UnbalancedEntryError
	var validation *ValidationError
	switch {
	case errors.As(err, &unbalanced):
		return "UNBALANCED_ENTRY"
	case errors.As(err, &validation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrOrganizationNotFound):
		return "ORGANIZATION_NOT_FOUND"
	case errors.Is(err, ErrAccountNotFound):
		return "ACCOUNT_NOT_FOUND"
	case errors.Is(err, ErrDuplicateAccountCode):
		return "DUPLICATE_ACCOUNT_CODE"
	case errors.Is(err, ErrInvalidAccountType):
		return "INVALID_ACCOUNT_TYPE"
	case errors.Is(err, ErrInvalidAccountCategory):
		return "INVALID_ACCOUNT_CATEGORY"
	case errors.Is(err, ErrInvalidParentAccount):
		return "INVALID_PARENT_ACCOUNT"
	case errors.Is(err, ErrJournalEntryNotFound):
		return "JOURNAL_ENTRY_NOT_FOUND"
	case errors.Is(err, ErrTooFewLines), errors.Is(err, ErrNegativeAmount):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrMissingDateParameters):
		return "MISSING_DATE_PARAMETERS"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidInput):
		return "VALIDATION_ERROR"
	case IsConnectionError(err):
		return "DATABASE_ERROR"
	default:
		return "SERVER_ERROR"
	}
}

// HTTPStatus maps an error to the HTTP status its envelope is written with
func HTTPStatus(err error) int {
	switch Code(err) {
	case "ORGANIZATION_NOT_FOUND", "ACCOUNT_NOT_FOUND", "JOURNAL_ENTRY_NOT_FOUND":
		return http.StatusNotFound
	case "DUPLICATE_ACCOUNT_CODE":
		return http.StatusConflict
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "DATABASE_ERROR":
		return http.StatusServiceUnavailable
	case "SERVER_ERROR":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
