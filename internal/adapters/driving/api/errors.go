package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Not-found bodies returned to clients.
const (
	msgDocumentNotFound = "Document not found"
	msgReportNotFound   = "Report not found"
)

// Error is a JSON error response.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ErrBadRequest is returned for unparseable request bodies.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ValidationError reports failed request fields.
type ValidationError struct {
	Status int               `json:"-"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a 422 validation error.
func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

// ErrorHandler maps errors to JSON bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	apiErr = fromDomain(err)
	if apiErr.Code >= fiber.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(apiErr.Code).JSON(apiErr)
}

func fromDomain(err error) Error {
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		return NewError(fiber.StatusNotFound, msgReportNotFound)
	case errors.Is(err, domain.ErrNotFound):
		return NewError(fiber.StatusNotFound, msgDocumentNotFound)
	case errors.Is(err, domain.ErrInvalidInput):
		return NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDriveNotConfigured):
		return NewError(fiber.StatusBadRequest, err.Error())
	default:
		return NewError(fiber.StatusInternalServerError, err.Error())
	}
}
