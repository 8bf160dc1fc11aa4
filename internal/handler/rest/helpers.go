package hrest

import (
	"net/http"
	"strconv"
	"time"

	"ledger-service/pkg/xerrors"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func urlParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &xerrors.ValidationError{Field: name, Msg: "must be a positive integer"}
	}
	return id, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, &xerrors.ValidationError{Field: name, Msg: "must be formatted YYYY-MM-DD"}
	}
	return &t, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
