// Package filter builds typed WHERE clauses for list endpoints.
//
// Each constructor yields a Predicate for one field. Optional inputs that are
// absent produce the zero Predicate, which All skips, so callers can build the
// full conjunction without branching on every query parameter.
package filter

import (
	"strings"

	"gorm.io/gorm"
)

// Predicate is a single parameterized SQL condition.
type Predicate struct {
	clause string
	args   []any
}

// IsZero reports whether the predicate constrains nothing.
func (p Predicate) IsZero() bool {
	return p.clause == ""
}

// SQL returns the clause and its bind arguments.
func (p Predicate) SQL() (string, []any) {
	return p.clause, p.args
}

// Apply adds the predicate to the query. Zero predicates leave it untouched.
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	if p.IsZero() {
		return db
	}
	return db.Where(p.clause, p.args...)
}

// Raw wraps a hand-written clause.
func Raw(clause string, args ...any) Predicate {
	return Predicate{clause: strings.TrimSpace(clause), args: args}
}

// Eq matches column = value.
func Eq(column string, value any) Predicate {
	return Predicate{clause: column + " = ?", args: []any{value}}
}

// EqOpt matches column = *value when value is set.
func EqOpt[T any](column string, value *T) Predicate {
	if value == nil {
		return Predicate{}
	}
	return Eq(column, *value)
}

// In matches column IN (values). An empty slice matches nothing.
func In[T any](column string, values []T) Predicate {
	if len(values) == 0 {
		return Predicate{clause: "1 = 0"}
	}
	return Predicate{clause: column + " IN ?", args: []any{values}}
}

// IsNull matches rows where column is NULL.
func IsNull(column string) Predicate {
	return Predicate{clause: column + " IS NULL"}
}

// Between matches min <= column <= max. Either bound may be omitted.
func Between[T any](column string, min, max *T) Predicate {
	switch {
	case min != nil && max != nil:
		return Predicate{clause: column + " >= ? AND " + column + " <= ?", args: []any{*min, *max}}
	case min != nil:
		return Predicate{clause: column + " >= ?", args: []any{*min}}
	case max != nil:
		return Predicate{clause: column + " <= ?", args: []any{*max}}
	default:
		return Predicate{}
	}
}

// ContainsFold matches a case-insensitive substring against any of the
// columns. A blank term yields the zero predicate.
func ContainsFold(term string, columns ...string) Predicate {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return Predicate{}
	}
	pattern := LikePattern(term)
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, "LOWER("+column+`) LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	return Predicate{clause: group(parts, " OR ", len(parts) > 1), args: args}
}

// All joins predicates with AND, skipping zero values.
func All(preds ...Predicate) Predicate {
	return join(" AND ", preds)
}

// Any joins predicates with OR, skipping zero values.
func Any(preds ...Predicate) Predicate {
	return join(" OR ", preds)
}

func join(sep string, preds []Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if !p.IsZero() {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return Predicate{}
	case 1:
		return kept[0]
	}
	parts := make([]string, 0, len(kept))
	var args []any
	for _, p := range kept {
		parts = append(parts, "("+p.clause+")")
		args = append(args, p.args...)
	}
	return Predicate{clause: strings.Join(parts, sep), args: args}
}

func group(parts []string, sep string, wrap bool) string {
	joined := strings.Join(parts, sep)
	if wrap {
		return "(" + joined + ")"
	}
	return joined
}

// LikePattern lowercases term, escapes LIKE wildcards and wraps it in %.
func LikePattern(term string) string {
	return "%" + escapeLike(strings.ToLower(term)) + "%"
}

// PrefixPattern is LikePattern anchored at the start.
func PrefixPattern(term string) string {
	return escapeLike(strings.ToLower(term)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
