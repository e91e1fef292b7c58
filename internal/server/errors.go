// Package server provides the HTTP API for the training report generator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/training-report/internal/form"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/schemas"
)

// ErrInvalidCredentials indicates a failed login
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadRequest wraps a malformed request body or parameter
type ErrBadRequest struct {
	Err error
}

func (e *ErrBadRequest) Error() string {
	return "invalid request: " + e.Err.Error()
}

func (e *ErrBadRequest) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidCreds *ErrInvalidCredentials
		validation   *ErrValidation
		badRequest   *ErrBadRequest
		genInvalid   *generation.ValidationError
		fieldErr     *form.FieldError
		verrs        validator.ValidationErrors
		schemaErr    *schemas.ValidationError
		loadErr      *schemas.SchemaLoadError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &validation), errors.As(err, &badRequest),
		errors.As(err, &genInvalid), errors.As(err, &fieldErr), errors.As(err, &verrs),
		errors.As(err, &schemaErr), errors.As(err, &loadErr),
		errors.Is(err, generation.ErrEmptyInstruction), errors.Is(err, history.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrNotFound), errors.Is(err, generation.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, history.ErrInvalidTransition), errors.Is(err, generation.ErrStaleResult),
		errors.Is(err, generation.ErrRefineInProgress), errors.Is(err, generation.ErrNothingToSave),
		errors.Is(err, generation.ErrNotEditing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the message shown to clients. Internal errors are not
// echoed back.
func errorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("validation error: %s - %s", verrs[0].Field(), verrs[0].Tag())
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

// FieldProblem is one invalid field in an error response
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fieldOf lists the invalid fields carried by err, if any
func fieldOf(err error) []FieldProblem {
	var (
		genInvalid *generation.ValidationError
		fieldErr   *form.FieldError
		schemaErr  *schemas.ValidationError
		validation *ErrValidation
	)
	switch {
	case errors.As(err, &genInvalid):
		return []FieldProblem{{Field: genInvalid.Field, Message: genInvalid.Message}}
	case errors.As(err, &fieldErr):
		return []FieldProblem{{Field: fieldErr.Field, Message: fieldErr.Message}}
	case errors.As(err, &validation):
		return []FieldProblem{{Field: validation.Field, Message: validation.Message}}
	case errors.As(err, &schemaErr):
		out := make([]FieldProblem, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			out = append(out, FieldProblem{Field: fe.Field, Message: fe.Message})
		}
		return out
	}
	return nil
}
