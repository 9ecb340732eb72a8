// Package query composes parameterized WHERE clauses from sparse filters.
//
// Two families of conditions are collected. Prefix conditions are OR-combined:
// any one matching is enough. Exact conditions are AND-combined: all supplied
// ones must match. When both families are present they are joined with AND.
// Every user value is bound as a positional parameter; nothing is interpolated.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Builder accumulates conditions and their bound arguments.
type Builder struct {
	anyOf []string
	allOf []string
	args  []any
}

func New() *Builder {
	return &Builder{}
}

func (b *Builder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Prefix adds "column starts with value" to the OR family. Empty values are
// ignored. Matching is case-insensitive.
func (b *Builder) Prefix(column, value string) *Builder {
	value = strings.TrimSpace(value)
	if value == "" {
		return b
	}
	b.anyOf = append(b.anyOf, fmt.Sprintf("%s ILIKE %s", column, b.bind(EscapeLike(value)+"%")))
	return b
}

// Equal adds "column = value" to the AND family.
func (b *Builder) Equal(column string, value any) *Builder {
	b.allOf = append(b.allOf, fmt.Sprintf("%s = %s", column, b.bind(value)))
	return b
}

// EqualString adds an exact match unless value is empty.
func (b *Builder) EqualString(column, value string) *Builder {
	if value == "" {
		return b
	}
	return b.Equal(column, value)
}

// EqualInt64 adds an exact match unless value is nil.
func (b *Builder) EqualInt64(column string, value *int64) *Builder {
	if value == nil {
		return b
	}
	return b.Equal(column, *value)
}

// EqualBool adds an exact match unless value is nil.
func (b *Builder) EqualBool(column string, value *bool) *Builder {
	if value == nil {
		return b
	}
	return b.Equal(column, *value)
}

// Where adds a fixed condition to the AND family. Each "?" in expr is replaced
// by the next positional parameter bound to the matching arg.
func (b *Builder) Where(expr string, args ...any) *Builder {
	if strings.Count(expr, "?") != len(args) {
		panic(fmt.Sprintf("query: %d placeholders but %d args in %q", strings.Count(expr, "?"), len(args), expr))
	}
	var sb strings.Builder
	i := 0
	for _, r := range expr {
		if r == '?' {
			sb.WriteString(b.bind(args[i]))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	b.allOf = append(b.allOf, sb.String())
	return b
}

// Build returns the WHERE clause (including the keyword, or "" when there are
// no conditions) and the bound arguments in placeholder order.
func (b *Builder) Build() (string, []any) {
	parts := make([]string, 0, len(b.allOf)+1)
	if len(b.anyOf) > 0 {
		parts = append(parts, "("+strings.Join(b.anyOf, " OR ")+")")
	}
	parts = append(parts, b.allOf...)
	if len(parts) == 0 {
		return "", b.args
	}
	return "WHERE " + strings.Join(parts, " AND "), b.args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
