package server

import (
	"errors"
	"log/slog"

	"inkwell/internal/models"
	"inkwell/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// respondError is the single place where errors become HTTP responses.
// Unknown errors are reported as internal errors and 5xx responses are logged
// with the wrapped cause, which is never sent to the client.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			s.log.ErrorContext(c.UserContext(), "request error", slog.String("error", fe.Error()))
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}

	var pe *pagination.Error
	if errors.As(err, &pe) {
		err = models.NewValidationError(models.FieldError{Field: pe.Field, Message: pe.Message})
	}

	appErr := models.AsAppError(err)
	if appErr.Status() >= fiber.StatusInternalServerError {
		s.log.ErrorContext(c.UserContext(), "request error",
			slog.String("code", appErr.Code),
			slog.String("error", appErr.Error()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)
	}
	return models.RespondWithError(c, appErr)
}

// errorHandler receives every error returned by a handler or middleware.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	return s.respondError(c, err)
}

func invalidBody() error {
	return models.NewValidationError(models.FieldError{Field: "body", Message: "invalid JSON body"})
}
