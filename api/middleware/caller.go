package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/internal/users"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// UserIDHeader carries the caller id until session auth exists.
const UserIDHeader = "X-User-Id"

type callerLookup interface {
	Active(ctx context.Context, id uuid.UUID) (users.UserDTO, error)
}

// CallerIdentity resolves X-User-Id to an active user and seeds the context with it.
func CallerIdentity(lookup callerLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if raw == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "X-User-Id header is required"))
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "X-User-Id must be a uuid"))
				return
			}

			user, err := lookup.Active(ctx, userID)
			if err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					err = pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user")
				}
				responses.WriteError(ctx, logg, w, err)
				return
			}

			ctx = WithUserID(ctx, user.ID)
			ctx = withRole(ctx, string(user.Role))
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    user.ID.String(),
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
