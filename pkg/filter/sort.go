package filter

import (
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// SortKeys maps public sort names to columns. Unknown names fall back to the
// default key.
type SortKeys struct {
	Default string
	Columns map[string]string
}

// Sort is a resolved ORDER BY.
type Sort struct {
	Column string
	Order  enums.SortOrder
}

// Resolve maps the raw sortBy/sortOrder pair onto a Sort. The direction
// defaults to descending.
func (k SortKeys) Resolve(sortBy, sortOrder string) Sort {
	column, ok := k.Columns[strings.TrimSpace(sortBy)]
	if !ok {
		column = k.Columns[k.Default]
	}
	order, err := enums.ParseSortOrder(strings.ToLower(strings.TrimSpace(sortOrder)))
	if err != nil {
		order = enums.SortOrderDesc
	}
	return Sort{Column: column, Order: order}
}

// Apply adds the ORDER BY plus a stable id tiebreak.
func (s Sort) Apply(db *gorm.DB, idColumn string) *gorm.DB {
	if s.Column == "" {
		return db
	}
	dir := "DESC"
	if s.Order == enums.SortOrderAsc {
		dir = "ASC"
	}
	db = db.Order(s.Column + " " + dir)
	if idColumn != "" {
		db = db.Order(idColumn + " " + dir)
	}
	return db
}
