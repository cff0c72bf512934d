package validators

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json names so details match the request payload
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// DecodeJSONBody strictly decodes a single JSON document into dest and runs
// its validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer io.Copy(io.Discard, body)

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return decodeError(err)
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func decodeError(err error) error {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case stdErrors.As(err, &typeErr):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]string{typeErr.Field: "must be " + typeErr.Type.String()})
	case stdErrors.As(err, &sizeErr):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
			WithDetails(map[string]any{"maxBytes": sizeErr.Limit})
	case stdErrors.Is(err, io.EOF):
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string]any{"error": err.Error()})
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !stdErrors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		// nested fields keep their path, e.g. variants[0].storageGb
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		details[field] = validationMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "hexcolor":
		return "must be a hex color"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "is invalid"
}
