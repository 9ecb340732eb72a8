package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams_Absent(t *testing.T) {
	p, err := ParseParams(httptest.NewRequest("GET", "/memberships", nil))
	require.NoError(t, err)

	assert.Nil(t, p.Page)
	assert.Nil(t, p.PageSize)
	assert.False(t, p.Windowed())
	assert.Equal(t, 0, p.Offset())
}

func TestParseParams_Valid(t *testing.T) {
	p, err := ParseParams(httptest.NewRequest("GET", "/memberships?page=2&pageSize=10", nil))
	require.NoError(t, err)

	assert.True(t, p.Windowed())
	assert.Equal(t, 10, p.Offset())
}

func TestParseParams_OnlyOneSupplied(t *testing.T) {
	p, err := ParseParams(httptest.NewRequest("GET", "/memberships?page=3", nil))
	require.NoError(t, err)

	assert.False(t, p.Windowed())
	sql, args := p.Apply("SELECT 1", []any{"x"})
	assert.Equal(t, "SELECT 1", sql)
	assert.Equal(t, []any{"x"}, args)
}

func TestParseParams_Invalid(t *testing.T) {
	_, err := ParseParams(httptest.NewRequest("GET", "/x?page=0", nil))
	assert.True(t, errors.Is(err, ErrInvalidPage))

	_, err = ParseParams(httptest.NewRequest("GET", "/x?pageSize=abc", nil))
	assert.True(t, errors.Is(err, ErrInvalidPageSize))
}

func TestParseParams_RejectsOverflowingOffset(t *testing.T) {
	_, err := ParseParams(httptest.NewRequest("GET", "/x?page=9223372036854775807&pageSize=1000", nil))
	assert.True(t, errors.Is(err, ErrInvalidPage))

	_, err = ParseParams(httptest.NewRequest("GET", fmt.Sprintf("/x?page=%d&pageSize=1000", math.MaxInt/1000+1), nil))
	assert.True(t, errors.Is(err, ErrInvalidPage))

	p, err := ParseParams(httptest.NewRequest("GET", fmt.Sprintf("/x?page=%d&pageSize=1000", math.MaxInt/1000), nil))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	// Without a page size there is no window and so no offset to overflow.
	_, err = ParseParams(httptest.NewRequest("GET", "/x?page=9223372036854775807", nil))
	assert.NoError(t, err)
}

func TestParseParams_ClampsPageSize(t *testing.T) {
	p, err := ParseParams(httptest.NewRequest("GET", "/x?page=1&pageSize=50000", nil))
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, *p.PageSize)
}

func TestApply_AppendsWindowAfterArgs(t *testing.T) {
	sql, args := New(2, 10).Apply("SELECT * FROM memberships WHERE organization_id = $1", []any{int64(4)})

	assert.Equal(t, "SELECT * FROM memberships WHERE organization_id = $1 LIMIT $2 OFFSET $3", sql)
	assert.Equal(t, []any{int64(4), 10, 10}, args)
}

func TestNewResult(t *testing.T) {
	r := NewResult([]string{"a", "b"}, 25, New(3, 10))

	assert.Equal(t, 2, r.Count)
	assert.Equal(t, 25, r.TotalCount)
	assert.Equal(t, 3, *r.Page)

	empty := NewResult[string](nil, 0, Params{})
	assert.NotNil(t, empty.Rows)
	assert.Equal(t, 0, empty.Count)
}

// Walking every page of a fixed data set yields each row exactly once and the
// per-page counts add up to the total.
func TestPagesCoverTotalExactlyOnce(t *testing.T) {
	data := make([]int, 25)
	for i := range data {
		data[i] = i
	}

	pageSize := 10
	seen := map[int]bool{}
	sum := 0
	for page := 1; (page-1)*pageSize < len(data); page++ {
		p := New(page, pageSize)
		end := p.Offset() + pageSize
		if end > len(data) {
			end = len(data)
		}
		res := NewResult(data[p.Offset():end], len(data), p)
		sum += res.Count
		for _, v := range res.Rows {
			assert.False(t, seen[v], "row %d on two pages", v)
			seen[v] = true
		}
	}

	assert.Equal(t, len(data), sum)
}
