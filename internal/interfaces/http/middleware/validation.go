package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/landmarket/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors name fields by their json or form tag
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, getRequestID(c)))
}

// fieldMessages render a failed rule as text. Length rules on strings
// count characters, on numbers they bound the value.
var fieldMessages = map[string]func(e validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"email":    func(validator.FieldError) string { return "Invalid email format" },
	"url":      func(validator.FieldError) string { return "Invalid URL format" },
	"numeric":  func(validator.FieldError) string { return "Must be numeric" },
	"min":      func(e validator.FieldError) string { return bound("at least", e) },
	"max":      func(e validator.FieldError) string { return bound("at most", e) },
	"gte":      func(e validator.FieldError) string { return "Must be greater than or equal to " + e.Param() },
	"lte":      func(e validator.FieldError) string { return "Must be less than or equal to " + e.Param() },
	"oneof":    func(e validator.FieldError) string { return "Must be one of: " + e.Param() },
	"eqfield":  func(e validator.FieldError) string { return "Must match " + snakeCase(e.Param()) },
}

func getValidationMessage(e validator.FieldError) string {
	if msg, ok := fieldMessages[e.Tag()]; ok {
		return msg(e)
	}
	return "Invalid value"
}

func bound(word string, e validator.FieldError) string {
	if e.Kind() == reflect.String {
		return "Must be " + word + " " + e.Param() + " characters"
	}
	return "Must be " + word + " " + e.Param()
}

// snakeCase turns a Go field name such as PasswordConfirmation into the
// password_confirmation form used by request bodies
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
