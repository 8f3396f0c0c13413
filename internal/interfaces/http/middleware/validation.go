package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/styleco/storefront/internal/domain/catalog"
	"github.com/styleco/storefront/internal/interfaces/http/dto"
)

// SetupValidator names fields after their json (or form) tag and registers
// the storefront tags:
//
//	slug  lowercase words joined by single hyphens, case-insensitive
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("slug", validateSlug)
}

func fieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// validateSlug accepts what catalog.ValidateSlug accepts once trimmed and lowercased
func validateSlug(fl validator.FieldLevel) bool {
	slug := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	return catalog.ValidateSlug(slug) == nil
}

// FormatValidationErrors turns validator errors into per-field details.
// Anything else, a malformed body for instance, yields no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	errors.As(err, &fieldErrs)

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{Field: fe.Field(), Message: validationMessage(fe)})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID(c)))
}

var tagMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"numeric":  "Must be numeric",
	"slug":     "Must be lowercase letters and digits separated by single hyphens",
	"dive":     "Contains an invalid entry",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
}

// bound tags read as a length for strings and slices, as a value otherwise
var boundMessages = map[string]string{
	"min": "Must be at least %s",
	"max": "Must be at most %s",
	"len": "Must be exactly %s",
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := boundMessages[fe.Tag()]; ok {
		msg = fmt.Sprintf(msg, fe.Param())
		switch fe.Kind() {
		case reflect.String:
			return msg + " characters"
		case reflect.Slice, reflect.Array, reflect.Map:
			return msg + " items"
		}
		return msg
	}
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
