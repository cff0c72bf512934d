package reviews

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// ListForPhone serves GET /phones/{id}/reviews.
func ListForPhone(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		phoneID, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, meta, err := svc.ListForPhone(ctx, phoneID, reviews.PhoneQuery{
			Page: page,
			Sort: validators.QueryString(r, "sort", 32),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, meta)
	}
}

// Submit serves POST /phones/{id}/reviews for the X-User-Id caller.
func Submit(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
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

		var input reviews.ReviewInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.Submit(ctx, userID, phoneID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// Vote serves POST /reviews/{id}/vote.
func Vote(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reviewID, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input reviews.VoteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.Vote(ctx, reviewID, *input.Helpful)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}
