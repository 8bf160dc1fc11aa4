package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger-service/pkg/xerrors"
)

// APIResponse is the envelope every endpoint writes
type APIResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      *APIError   `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// APIError carries the stable taxonomy code plus a human message
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// NewPagination computes the page count from total and limit
func NewPagination(total, page, limit int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// JSON writes a success envelope
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{Success: true, Data: data})
}

// JSONPage writes a success envelope with pagination
func JSONPage(w http.ResponseWriter, status int, data interface{}, p *Pagination) {
	write(w, status, APIResponse{Success: true, Data: data, Pagination: p})
}

// Error writes an error envelope with an explicit code and message
func Error(w http.ResponseWriter, status int, code, msg string) {
	ErrorDetails(w, status, code, msg, nil)
}

// ErrorDetails writes an error envelope carrying structured details
func ErrorDetails(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	write(w, status, APIResponse{Success: false, Error: &APIError{Code: code, Message: msg, Details: details}})
}

// FromError classifies err through the xerrors taxonomy and writes the
// matching envelope. Internal detail is withheld for SERVER_ERROR unless
// development mode is on.
func FromError(w http.ResponseWriter, err error, development bool) {
	code := xerrors.Code(err)
	status := xerrors.HTTPStatus(err)

	msg := err.Error()
	if code == "SERVER_ERROR" && !development {
		msg = "internal server error"
	}

	var details interface{}
	var unbalanced *xerrors.UnbalancedEntryError
	if errors.As(err, &unbalanced) {
		details = map[string]string{
			"total_debit":  unbalanced.TotalDebit.StringFixed(2),
			"total_credit": unbalanced.TotalCredit.StringFixed(2),
			"difference":   unbalanced.Difference().StringFixed(2),
		}
	}

	ErrorDetails(w, status, code, msg, details)
}

func write(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
