package dashboard

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/users"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
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
		q := users.ListQuery{
			Page:      params.Page,
			Search:    params.Search,
			IsActive:  isActive,
			SortBy:    params.SortBy,
			SortOrder: params.SortOrder,
		}
		if raw := validators.QueryString(r, "role", 16); raw != "" {
			role, err := enums.ParseUserRole(strings.ToLower(raw))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			q.Role = &role
		}

		rows, page, err := svc.List(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, page)
	}
}

func GetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		user, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input users.CreateUserInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		user, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

func UpdateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input users.UpdateUserInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		user, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// DeleteUser removes the user together with their reviews, comments and wishlist.
func DeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
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
