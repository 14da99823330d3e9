package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/equilog/equilog-backend/pkg/enums"
	pkgerrors "github.com/equilog/equilog-backend/pkg/errors"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("stablerole", func(fl validator.FieldLevel) bool {
		role, ok := fl.Field().Interface().(enums.StableRole)
		return ok && role.IsValid()
	})
	return v
}

// DecodeJSONBody reads exactly one JSON document into dest and runs struct
// validation. All failures are Validation errors with per-field details.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}
	if err := validate.Struct(dest); err != nil {
		return fieldErrors(err)
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is empty")
	case errors.As(err, &tooLarge):
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.As(err, &typeErr):
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid request body").
			WithDetails(map[string]string{typeErr.Field: "has the wrong type"})
	case errors.As(err, &syntaxErr):
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid request body").
			WithDetails(map[string]string{strings.Trim(field, `"`): "is not allowed"})
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
}

func fieldErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "stablerole":
		return "must be a valid stable role"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "eqfield":
		return "must match " + fe.Param()
	}
	return "is invalid"
}
