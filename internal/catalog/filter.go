package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

// ListQuery is the parsed public listing request.
type ListQuery struct {
	Search    string
	BrandID   *uuid.UUID
	Status    *enums.PhoneStatus
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
	Page      pagination.Params
}

// Predicate builds the conjunction of every populated field.
func (q ListQuery) Predicate() filter.Predicate {
	return filter.All(
		filter.ContainsFold(strings.TrimSpace(q.Search), "phones.name", "phones.model", "phones.series"),
		filter.EqOpt("phones.brand_id", q.BrandID),
		StatusPredicate(q.Status),
		filter.Between("phones.launch_price", q.MinPrice, q.MaxPrice),
	)
}

// Sort resolves the requested ordering against the public sort keys.
func (q ListQuery) Sort() filter.Sort {
	return phoneSortKeys.Resolve(q.SortBy, q.SortOrder)
}
