// Package dashboard holds the admin CRUD handlers for brands, phones,
// reviews, users and comment moderation.
package dashboard

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

const maxSearchLen = 100

// listParams are the page, search and sort parameters every dashboard list shares.
type listParams struct {
	Page      pagination.Params
	Search    string
	SortBy    string
	SortOrder string
}

func parseListParams(r *http.Request) (listParams, error) {
	page, err := validators.ParsePage(r)
	if err != nil {
		return listParams{}, err
	}
	return listParams{
		Page:      page,
		Search:    validators.QueryString(r, "search", maxSearchLen),
		SortBy:    validators.QueryString(r, "sortBy", 32),
		SortOrder: validators.QueryString(r, "sortOrder", 4),
	}, nil
}

func includeDeleted(r *http.Request) (bool, error) {
	v, err := validators.ParseQueryBool(r, "includeDeleted")
	if err != nil || v == nil {
		return false, err
	}
	return *v, nil
}
