package dashboard

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

func ListReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		params, err := parseListParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phoneID, err := validators.ParseQueryUUID(r, "phoneId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		userID, err := validators.ParseQueryUUID(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		q := reviews.ListQuery{
			Page:      params.Page,
			PhoneID:   phoneID,
			UserID:    userID,
			SortBy:    params.SortBy,
			SortOrder: params.SortOrder,
		}
		if r.URL.Query().Has("rating") {
			rating, err := validators.ParseQueryInt(r, "rating", 0, reviews.MinRating, reviews.MaxRating)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			q.Rating = &rating
		}

		rows, page, err := svc.List(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, rows, page)
	}
}

func GetReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		review, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input reviews.CreateReviewInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		review, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

func UpdateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input reviews.UpdateReviewInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		review, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

// DeleteReview hard deletes and recomputes the phone's rating.
func DeleteReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
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
