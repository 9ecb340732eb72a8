package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
)

// MaxPageSize caps a single page window.
const MaxPageSize = 1000

var (
	ErrInvalidPage     = apperr.Validation("page must be a positive integer")
	ErrInvalidPageSize = apperr.Validation("pageSize must be a positive integer")
)

// Params is an optional page window. When either Page or PageSize is nil no
// window is applied and the full result set is returned.
type Params struct {
	Page     *int `json:"page,omitempty"`
	PageSize *int `json:"pageSize,omitempty"`
}

// New returns a windowed Params.
func New(page, pageSize int) Params {
	return Params{Page: &page, PageSize: &pageSize}
}

// ParseParams extracts the page window from the "page" and "pageSize" query
// parameters. Absent parameters stay nil; malformed ones are a validation error.
func ParseParams(r *http.Request) (Params, error) {
	var p Params
	q := r.URL.Query()

	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return Params{}, ErrInvalidPage
		}
		p.Page = &v
	}

	if s := q.Get("pageSize"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return Params{}, ErrInvalidPageSize
		}
		if v > MaxPageSize {
			v = MaxPageSize
		}
		p.PageSize = &v
	}

	// The offset must stay representable.
	if p.Windowed() {
		if size := *p.PageSize; *p.Page > math.MaxInt/size {
			return Params{}, ErrInvalidPage
		}
	}
	return p, nil
}

// Windowed reports whether both page and pageSize were supplied.
func (p Params) Windowed() bool {
	return p.Page != nil && p.PageSize != nil
}

// Offset returns (page - 1) * pageSize, or 0 without a window.
func (p Params) Offset() int {
	if !p.Windowed() {
		return 0
	}
	return (*p.Page - 1) * *p.PageSize
}

// Apply appends LIMIT/OFFSET to sql when windowed, binding them after args.
func (p Params) Apply(sql string, args []any) (string, []any) {
	if !p.Windowed() {
		return sql, args
	}
	n := len(args)
	sql = fmt.Sprintf("%s LIMIT $%d OFFSET $%d", sql, n+1, n+2)
	return sql, append(args, *p.PageSize, p.Offset())
}

// Result packages one page of rows with its pagination metadata. TotalCount
// is the full matching count; Count is the number of rows on this page.
type Result[T any] struct {
	Rows       []T  `json:"rows"`
	Page       *int `json:"page"`
	PageSize   *int `json:"pageSize"`
	TotalCount int  `json:"totalCount"`
	Count      int  `json:"count"`
}

// NewResult builds a Result. rows may be nil; it is reported as an empty list.
func NewResult[T any](rows []T, totalCount int, p Params) Result[T] {
	if rows == nil {
		rows = []T{}
	}
	return Result[T]{
		Rows:       rows,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: totalCount,
		Count:      len(rows),
	}
}
