package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ReadAndValidateRequest binds the body, applies `default` tags and validates.
// It returns nil when the request is usable.
func ReadAndValidateRequest(c echo.Context, req interface{}) []ValidationError {
	if err := c.Bind(req); err != nil {
		return toValidationErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return toValidationErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// fieldMessages renders one failed rule; %[1]s is the field, %[2]s the param.
var fieldMessages = map[string]string{
	"required": "%[1]s is required",
	"oneof":    "%[1]s must be one of: %[2]s",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be at least %[2]s",
	"lt":       "%[1]s must be less than %[2]s",
	"lte":      "%[1]s must be at most %[2]s",
	"min":      "%[1]s must be at least %[2]s",
	"max":      "%[1]s must be at most %[2]s",
}

func toValidationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, fieldError(fe))
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		// body that is not JSON or has the wrong types
		msg = fmt.Sprintf("malformed request body: %v", he.Message)
	}
	return []ValidationError{{Code: "ERR_MALFORMED", Message: msg}}
}

func fieldError(fe validator.FieldError) ValidationError {
	param := fe.Param()
	if fe.Tag() == "oneof" {
		param = strings.ReplaceAll(param, " ", ", ")
	}

	tmpl, ok := fieldMessages[fe.Tag()]
	if !ok {
		tmpl = "%[1]s failed validation: " + fe.Tag()
	}

	ve := ValidationError{
		Code:    "ERR_" + strings.ToUpper(fe.Tag()),
		Field:   fe.Field(),
		Message: fmt.Sprintf(tmpl, fe.Field(), param),
	}
	if fe.Param() != "" {
		ve.Params = map[string]interface{}{"limit": fe.Param()}
		if fe.Tag() == "oneof" {
			ve.Params = map[string]interface{}{"options": strings.Fields(fe.Param())}
		}
	}
	return ve
}
