package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pricebookhq/pricebook-backend/pkg/errors"
	"github.com/pricebookhq/pricebook-backend/pkg/pagination"
)

// PaginationFromQuery reads limit/offset query params, applying defaults and caps.
func PaginationFromQuery(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit")
		}
		params.Limit = limit
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid offset")
		}
		if offset < 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "offset must be non-negative")
		}
		params.Offset = offset
	}

	return pagination.Normalize(params), nil
}

// CSVFromQuery splits a comma-separated query param into trimmed values.
func CSVFromQuery(r *http.Request, name string) []string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
