// Package httpx holds the JSON envelope every endpoint answers with and
// the one mapping from error classes to HTTP status codes.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"food-delivery-broker/errs"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Envelope is the response body shape
type Envelope struct {
	Status  string `json:"status" example:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success writes data under the success envelope
func Success(c *gin.Context, code int, data any) {
	c.JSON(code, Envelope{Status: StatusSuccess, Data: data})
}

// Fail writes a fail envelope with message and aborts the chain
func Fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{Status: StatusFail, Message: message})
}

// Error maps err to its status code and writes it. Unclassified errors are
// recorded on the context and reported as a generic server error.
func Error(c *gin.Context, err error) {
	code := StatusFor(err)
	msg := errs.Message(err)
	if code == http.StatusInternalServerError || msg == "" {
		_ = c.Error(err)
		msg = "internal server error"
		code = http.StatusInternalServerError
	}
	Fail(c, code, msg)
}

// StatusFor maps the error taxonomy onto HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrInvalidCredential),
		errors.Is(err, errs.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	// a claim on a taken order is reported as a bad request
	case errors.Is(err, errs.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// BindError converts a gin binding failure into a validation error with a
// message naming the offending fields.
func BindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Validation("Invalid request body").WithCause(err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, describe(fe))
		}
	}
	if len(missing) > 0 {
		return errs.Validation("Missing required fields: %s", strings.Join(missing, ", "))
	}
	return errs.Validation("Invalid fields: %s", strings.Join(invalid, ", "))
}

func describe(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s must be a valid %s", fe.Field(), fe.Tag())
}

// UseJSONFieldNames makes validation errors report json field names
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
