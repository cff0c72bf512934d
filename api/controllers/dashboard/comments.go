package dashboard

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/comments"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// ListComments is the moderation queue, filterable by phone and status.
func ListComments(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phoneID, err := validators.ParseQueryUUID(r, "phoneId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		q := comments.ListQuery{Page: page, PhoneID: phoneID}
		if raw := validators.QueryString(r, "status", 16); raw != "" {
			status, err := enums.ParseCommentStatus(strings.ToLower(raw))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			q.Status = &status
		}

		rows, meta, err := svc.List(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, meta)
	}
}

func SetCommentStatus(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input comments.StatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		comment, err := svc.SetStatus(ctx, id, input.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, comment)
	}
}
