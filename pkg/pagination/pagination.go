package pagination

import (
	"math"

	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize returns a copy with page >= 1 and the limit clamped to the defaults.
func (p Params) Normalize() Params {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return Params{Page: page, Limit: NormalizeLimit(p.Limit)}
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Meta builds the response pagination block for the supplied total row count.
func (p Params) Meta(total int64) types.Pagination {
	n := p.Normalize()
	return types.Pagination{
		Page:  n.Page,
		Limit: n.Limit,
		Total: total,
		Pages: Pages(total, n.Limit),
	}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Pages returns ceil(total/limit), zero when there are no rows.
func Pages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
