package middleware

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/hr-validator/internal/logger"
	"alfredoptarigan/hr-validator/internal/services"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type ValidationErrorResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Status  int              `json:"status"`
	Errors  []FieldViolation `json:"errors"`
}

// ErrorHandler turns handler errors into JSON bodies. Evaluation errors keep
// their code; anything unknown becomes a 500 without details.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			violations := make([]FieldViolation, 0, len(validationErrs))
			for _, fe := range validationErrs {
				violations = append(violations, FieldViolation{
					Field: fe.Field(),
					Rule:  fe.Tag(),
				})
			}
			log.Warn("Request validation failed",
				zap.String("path", c.Path()),
				zap.Int("error_count", len(violations)))
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(services.CodeInvalidInput),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  violations,
			})
		}

		var evalErr *services.EvaluationError
		if errors.As(err, &evalErr) {
			status := StatusFor(evalErr.Code)
			fields := []zap.Field{
				zap.String("code", string(evalErr.Code)),
				zap.String("message", evalErr.Message),
				zap.Int("status", status),
				zap.Error(evalErr.Err),
			}
			if status >= http.StatusInternalServerError {
				log.Error("Evaluation error", fields...)
			} else {
				log.Warn("Evaluation rejected", fields...)
			}
			return c.Status(status).JSON(ErrorResponse{
				Code:    string(evalErr.Code),
				Message: evalErr.Message,
				Status:  status,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err))

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(services.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func StatusFor(code services.ErrorCode) int {
	switch code {
	case services.CodeInvalidInput, services.CodeUnknownProfile:
		return http.StatusBadRequest
	case services.CodeMissingCredential:
		return http.StatusUnauthorized
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeCompletionFailed, services.CodeMalformedOutput:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
