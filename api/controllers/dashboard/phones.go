package dashboard

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/phones"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

func parsePhoneQuery(r *http.Request) (phones.ListQuery, error) {
	params, err := parseListParams(r)
	if err != nil {
		return phones.ListQuery{}, err
	}
	brandID, err := validators.ParseQueryUUID(r, "brandId")
	if err != nil {
		return phones.ListQuery{}, err
	}
	deleted, err := includeDeleted(r)
	if err != nil {
		return phones.ListQuery{}, err
	}
	q := phones.ListQuery{
		Page:           params.Page,
		Search:         params.Search,
		BrandID:        brandID,
		IncludeDeleted: deleted,
		SortBy:         params.SortBy,
		SortOrder:      params.SortOrder,
	}
	if raw := validators.QueryString(r, "status", 32); raw != "" {
		status, err := enums.ParsePhoneStatus(strings.ToLower(raw))
		if err != nil {
			return phones.ListQuery{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		q.Status = &status
	}
	return q, nil
}

func ListPhones(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := parsePhoneQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		rows, page, err := svc.List(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, page)
	}
}

func GetPhone(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phone, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, phone)
	}
}

// CreatePhone accepts the phone with its nested specifications, colors,
// variants and images.
func CreatePhone(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input phones.CreatePhoneInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phone, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, phone)
	}
}

// UpdatePhone replaces only the nested collections present in the body.
func UpdatePhone(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input phones.UpdatePhoneInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phone, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, phone)
	}
}

func DeletePhone(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
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

func RestorePhone(svc phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phone, err := svc.Restore(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, phone)
	}
}
