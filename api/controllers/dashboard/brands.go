package dashboard

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

func ListBrands(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		isActive, err := validators.ParseQueryBool(r, "isActive")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		deleted, err := includeDeleted(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, page, err := svc.List(ctx, brands.ListQuery{
			Page:           params.Page,
			Search:         params.Search,
			IsActive:       isActive,
			IncludeDeleted: deleted,
			SortBy:         params.SortBy,
			SortOrder:      params.SortOrder,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, page)
	}
}

func GetBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		brand, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

func CreateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input brands.CreateBrandInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		brand, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, brand)
	}
}

func UpdateBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input brands.UpdateBrandInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		brand, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

// DeleteBrand soft deletes; the row stays reachable for restore.
func DeleteBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func RestoreBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		brand, err := svc.Restore(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}
