package comments

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/comments"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

type threadResponse struct {
	Comments []comments.Node `json:"comments"`
	Total    int             `json:"total"`
}

// Thread serves the published comment tree of a phone.
func Thread(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		phoneID, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		nodes, err := svc.Thread(ctx, phoneID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, threadResponse{Comments: nodes, Total: comments.Count(nodes)})
	}
}

// Create posts a comment or reply as the X-User-Id caller.
func Create(svc comments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller required"))
			return
		}
		phoneID, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input comments.CreateCommentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		comment, err := svc.Create(ctx, userID, phoneID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, comment)
	}
}
