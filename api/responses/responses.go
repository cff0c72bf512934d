package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type ctxKey struct{}

// WithInternalDetails marks the request so 5xx responses carry the raw error text.
// Only development deployments enable it.
func WithInternalDetails(ctx context.Context, enabled bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, enabled)
}

func internalDetailsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	enabled, _ := ctx.Value(ctxKey{}).(bool)
	return enabled
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Success: true, Data: data})
}

// WritePage writes a listing with its pagination block.
func WritePage(w http.ResponseWriter, data any, page types.Pagination) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Success: true, Data: data, Pagination: &page})
}

// WriteSuccessWithMeta writes data plus a free-form metadata object.
func WriteSuccessWithMeta(w http.ResponseWriter, data any, metadata any) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Success: true, Data: data, Metadata: metadata})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	default:
		if internalDetailsEnabled(ctx) {
			msg = rawMessage(typed)
		}
	}

	payload := types.ErrorEnvelope{
		Success: false,
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, pkgerrors.Dump(err).LogFields())
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.error")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func rawMessage(typed *pkgerrors.Error) string {
	if cause := typed.Unwrap(); cause != nil {
		return fmt.Sprintf("%s: %v", typed.Message(), cause)
	}
	return typed.Message()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
