package search

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/search"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

const maxQueryLen = 100

// Search serves GET /search?q=&limit=&category=.
func Search(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", search.DefaultLimit, 1, 1000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		scope, err := search.ParseScope(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		q := validators.QueryString(r, "q", maxQueryLen)
		results, err := svc.Search(ctx, q, limit, scope, middleware.ClientIP(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

// Suggestions serves GET /search/suggestions?q=&limit=.
func Suggestions(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", search.DefaultSuggestionLimit, 1, 1000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out, err := svc.Suggest(ctx, validators.QueryString(r, "q", maxQueryLen), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// Filters serves the sidebar facets, optionally narrowed by category.
func Filters(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		facets, err := svc.Facets(ctx, validators.QueryString(r, "category", maxQueryLen))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, facets)
	}
}
