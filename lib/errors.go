package rolodex

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("contact not found")

// DuplicateKeyError reports a uniqueness-constraint violation.
type DuplicateKeyError struct {
	Field string
	Value string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %s=%q", e.Field, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// InvalidPatternError reports a regex filter that does not compile.
type InvalidPatternError struct {
	Field   string
	Label   string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Field, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// BadRequestError reports a malformed request that is not a schema violation.
type BadRequestError struct {
	Message string
	Details string
}

func (e *BadRequestError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// ErrorResponse represents the error body returned to clients.
type ErrorResponse struct {
	Message string   `json:"message" validate:"required" desc:"A human-readable error message" ex:"Validation Error"`
	Errors  []string `json:"errors,omitempty" desc:"Per-field validation messages" ex:"firstName is required"`
	Details string   `json:"details,omitempty" desc:"Underlying cause" ex:"validation failed: firstName is required"`
}

// TranslateError maps an error to its HTTP status and response body.
func TranslateError(err error) (int, ErrorResponse) {
	var (
		validationErrs ValidationErrors
		duplicate      *DuplicateKeyError
		pattern        *InvalidPatternError
		badRequest     *BadRequestError
	)

	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, ErrorResponse{
			Message: "Validation Error",
			Errors:  validationErrs.Messages(),
			Details: validationErrs.Error(),
		}

	case errors.As(err, &duplicate):
		key, _ := json.Marshal(map[string]string{duplicate.Field: duplicate.Value})
		return http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("A contact with this %s already exists", duplicate.Field),
			Details: fmt.Sprintf("Duplicate key error: %s", key),
		}

	case errors.As(err, &pattern):
		return http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Invalid %s regex pattern", pattern.Label),
			Details: pattern.Err.Error(),
		}

	case errors.As(err, &badRequest):
		return http.StatusBadRequest, ErrorResponse{
			Message: badRequest.Message,
			Details: badRequest.Details,
		}

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Message: "Contact not found",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Message: "Internal Server Error",
			Details: err.Error(),
		}
	}
}

// RespondWithError logs err, translates it and writes the JSON error response.
func RespondWithError(ctx *gin.Context, l Logger, err error) {
	status, body := TranslateError(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		l.Error("Request failed", fields...)
	} else {
		l.Warn("Request rejected", fields...)
	}

	ctx.AbortWithStatusJSON(status, body)
}
