package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// ListPhones serves the filtered, paginated public phone listing.
func ListPhones(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := parseListQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, page, err := svc.ListPhones(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, page)
	}
}

// GetPhone returns a phone by id or slug and records the view.
func GetPhone(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		key := strings.TrimSpace(chi.URLParam(r, "id"))
		if key == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "phone id or slug is required"))
			return
		}

		detail, err := svc.GetPhone(ctx, key, visitFrom(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
