package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to clients. Each code maps to one HTTP status in
// the error handler middleware.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeReadOnly         = "READ_ONLY"
	CodeBusy             = "BUSY"
	CodeSnapshotFailed   = "SNAPSHOT_FAILED"
	CodeBuildFailed      = "BUILD_FAILED"
	CodeIndexUnavailable = "INDEX_UNAVAILABLE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is the typed error surface of the service layer. Message is
// always safe to show to an operator; Err carries the underlying cause.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Status: fiber.StatusNotFound, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Code: CodeConflict, Status: fiber.StatusConflict, Message: message}
}

func NewReadOnly(message string) *AppError {
	return &AppError{Code: CodeReadOnly, Status: fiber.StatusForbidden, Message: message}
}

func NewBusy(message string) *AppError {
	return &AppError{Code: CodeBusy, Status: fiber.StatusConflict, Message: message}
}

func NewSnapshotFailed(cause error) *AppError {
	return &AppError{Code: CodeSnapshotFailed, Status: fiber.StatusInternalServerError, Message: "failed to snapshot the document store", Err: cause}
}

func NewBuildFailed(cause error) *AppError {
	return &AppError{Code: CodeBuildFailed, Status: fiber.StatusInternalServerError, Message: "failed to build the retrieval index", Err: cause}
}

func NewIndexUnavailable() *AppError {
	return &AppError{Code: CodeIndexUnavailable, Status: fiber.StatusServiceUnavailable, Message: "no retrieval index has been committed yet"}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Status: fiber.StatusBadRequest, Message: message}
}

func NewInternal(cause error) *AppError {
	return &AppError{Code: CodeInternal, Status: fiber.StatusInternalServerError, Message: "an internal server error occurred", Err: cause}
}

// ErrorHandlerMiddleware converts service errors into the JSON error
// envelope. Unknown errors are masked as internal so storage faults
// never leak details to clients.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"code":    CodeInternal,
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"code":    CodeInternal,
			"message": "an internal server error occurred",
		})
	}
}
