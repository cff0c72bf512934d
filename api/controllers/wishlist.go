package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/api/validators"
	"github.com/angelmondragon/phonedex-backend/internal/wishlist"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

func requireCaller(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller required")
	}
	return userID, nil
}

// WishlistList returns the caller's wishlist, highest priority first.
func WishlistList(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireCaller(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, meta, err := svc.GetWishlist(ctx, userID, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WritePage(w, items, meta)
	}
}

// WishlistAddItem adds a phone to the caller's wishlist.
func WishlistAddItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireCaller(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input wishlist.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// WishlistUpdateItem changes notes or priority of a wishlisted phone.
func WishlistUpdateItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireCaller(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phoneID, err := validators.ParseURLUUID(r, "phoneId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input wishlist.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.UpdateItem(ctx, userID, phoneID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// WishlistRemoveItem removes a phone from the caller's wishlist.
func WishlistRemoveItem(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := requireCaller(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		phoneID, err := validators.ParseURLUUID(r, "phoneId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveItem(ctx, userID, phoneID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}
