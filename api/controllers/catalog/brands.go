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

func ListBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetBrand returns a brand with its public phones.
func GetBrand(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "brand slug is required"))
			return
		}

		brand, err := svc.GetBrand(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}
