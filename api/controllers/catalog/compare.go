package catalog

import (
	"net/http"

	"github.com/angelmondragon/phonedex-backend/api/responses"
	"github.com/angelmondragon/phonedex-backend/internal/compare"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

// ComparePhones serves GET /phones/compare?ids=a,b,c.
func ComparePhones(svc compare.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, meta, err := svc.Compare(ctx, r.URL.Query().Get("ids"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessWithMeta(w, result, meta)
	}
}
