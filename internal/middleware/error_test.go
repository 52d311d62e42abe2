package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hr-validator/internal/services"
)

func runErrorHandler(t *testing.T, handlerErr error) (int, map[string]any) {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error {
		return handlerErr
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestErrorHandler_EvaluationErrors(t *testing.T) {
	status, body := runErrorHandler(t, services.NewMalformedOutputError(errors.New("unexpected token")))

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "MALFORMED_OUTPUT", body["code"])
	assert.Equal(t, "model returned malformed output", body["message"])
}

func TestErrorHandler_WrappedEvaluationError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), services.NewNotFoundError("evaluation not found"))

	status, body := runErrorHandler(t, wrapped)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	type form struct {
		JobDescription string `validate:"required"`
	}
	err := validator.New().Struct(form{})
	require.Error(t, err)

	status, body := runErrorHandler(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", body["code"])
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "JobDescription", errs[0].(map[string]any)["field"])
	assert.Equal(t, "required", errs[0].(map[string]any)["rule"])
}

func TestErrorHandler_FiberAndUnknownErrors(t *testing.T) {
	status, body := runErrorHandler(t, fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "HTTP_ERROR", body["code"])

	status, body = runErrorHandler(t, errors.New("database exploded"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.Equal(t, "Internal server error", body["message"])
}

func TestStatusFor(t *testing.T) {
	tests := map[services.ErrorCode]int{
		services.CodeInvalidInput:      http.StatusBadRequest,
		services.CodeUnknownProfile:    http.StatusBadRequest,
		services.CodeMissingCredential: http.StatusUnauthorized,
		services.CodeNotFound:          http.StatusNotFound,
		services.CodeCompletionFailed:  http.StatusBadGateway,
		services.CodeMalformedOutput:   http.StatusBadGateway,
		services.CodeInternal:          http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, StatusFor(code), string(code))
	}
}
