package catalog

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
)

const maxSearchLen = 100

func parseListQuery(r *http.Request) (catalog.ListQuery, error) {
	page, err := validators.ParsePage(r)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	brandID, err := validators.ParseQueryUUID(r, "brandId")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	minPrice, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return catalog.ListQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}

	q := catalog.ListQuery{
		Search:    validators.QueryString(r, "search", maxSearchLen),
		BrandID:   brandID,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		SortBy:    validators.QueryString(r, "sortBy", 32),
		SortOrder: validators.QueryString(r, "sortOrder", 4),
		Page:      page,
	}
	if raw := validators.QueryString(r, "status", 32); raw != "" {
		status, err := enums.ParsePhoneStatus(strings.ToLower(raw))
		if err != nil {
			return catalog.ListQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		q.Status = &status
	}
	return q, nil
}

// visitFrom captures the request facts stored with a page view. The caller id
// header is optional on public reads and ignored when malformed.
func visitFrom(r *http.Request) analytics.Visit {
	visit := analytics.Visit{
		Path:      r.URL.Path,
		IPAddress: middleware.ClientIP(r),
		UserAgent: validators.SanitizeString(r.UserAgent(), 512),
		Referrer:  validators.SanitizeString(r.Referer(), 1024),
	}
	if raw := strings.TrimSpace(r.Header.Get(middleware.UserIDHeader)); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			visit.UserID = &id
		}
	}
	return visit
}
