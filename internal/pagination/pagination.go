// Package pagination implements offset/limit page addressing for listings.
// Page metadata is computed purely from (total, limit, offset) so callers can
// thread the values through explicitly instead of holding page state.
package pagination

import (
	"net/http"

	"github.com/kvist-io/settingstore/pkg/httputil"
)

const (
	// DefaultLimit is the page size used when the client does not send one.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params is a validated (limit, offset) pair.
type Params struct {
	Limit  int
	Offset int
}

// Meta describes a page of results relative to the current total.
type Meta struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// ParseParams extracts limit and offset from the request query, clamping
// limit to [1, MaxLimit] and offset to >= 0. Unparseable values fall back to
// the defaults.
func ParseParams(r *http.Request) Params {
	limit := httputil.GetIntQueryParam(r, "limit", DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset := httputil.GetIntQueryParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// NewMeta computes page metadata for the given total count. The offset is
// taken as-is: when deletes have moved the end of the collection before the
// requested offset, the metadata still describes that (now empty) page and
// the client is expected to re-request from offset 0.
func NewMeta(total int, params Params) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		Total:       total,
		Limit:       params.Limit,
		Offset:      params.Offset,
		TotalPages:  totalPages,
		CurrentPage: params.Offset/params.Limit + 1,
		HasNext:     params.Offset+params.Limit < total,
		HasPrevious: params.Offset > 0 && params.Offset < total,
	}
}
