// Package pagination turns page/limit query values into offsets and list metadata.
package pagination

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// Params is a validated page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Error reports an out-of-range or non-numeric pagination value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Default returns the first page with the default limit.
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit}
}

// Parse validates raw query values. Empty values fall back to defaults.
func Parse(pageRaw, limitRaw string) (Params, error) {
	p := Default()

	if s := strings.TrimSpace(pageRaw); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil {
			return Params{}, &Error{Field: "page", Message: "must be an integer"}
		}
		if page < 1 {
			return Params{}, &Error{Field: "page", Message: "must be at least 1"}
		}
		p.Page = page
	}

	if s := strings.TrimSpace(limitRaw); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return Params{}, &Error{Field: "limit", Message: "must be an integer"}
		}
		if limit < 1 || limit > MaxLimit {
			return Params{}, &Error{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
		}
		p.Limit = limit
	}

	if p.Page-1 > math.MaxInt/p.Limit {
		return Params{}, &Error{Field: "page", Message: "is too large"}
	}

	return p, nil
}

// Skip is the number of rows before the page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Take is the page size.
func (p Params) Take() int {
	return p.Limit
}

// Meta is the pagination block returned alongside a list.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// NewMeta computes list metadata; TotalPages is ceil(total/limit).
func NewMeta(total int64, p Params) Meta {
	var pages int64
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
	}
}
