package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/okaditya84/Spam-Contact-Search-API/internal/service"
)

// respondServiceError translates service failures into JSON responses.
// Anything that is not a service.APIError is an unexpected failure and
// becomes a 500.
func respondServiceError(c *gin.Context, err error) {
	if apiErr, ok := err.(*service.APIError); ok {
		body := gin.H{"error": apiErr.Code, "error_description": apiErr.Description}
		if len(apiErr.Fields) > 0 {
			body["fields"] = apiErr.Fields
		}
		c.JSON(apiErr.Status, body)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
}

// respondBindingError renders gin binding failures with per-field
// messages where the validator provides them.
func respondBindingError(c *gin.Context, err error) {
	body := gin.H{"error": "invalid_request", "error_description": "Validation failed."}
	if fields := bindingFieldErrors(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

func bindingFieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := snakeCase(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "This field is required."
		case "min":
			fields[name] = fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		case "email":
			fields[name] = "Enter a valid email address."
		default:
			fields[name] = "Invalid value."
		}
	}
	return fields
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
