package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	SessionId string `json:"sessionId" validate:"required"`
	Count     int    `json:"count" validate:"required,min=1,max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{SessionId: "x", Count: 2}))

	err := ValidateRequest(sampleRequest{Count: 9})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, map[string]string{
		"sessionId": "is required",
		"count":     "must be at most 5",
	}, appErr.Details)
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"not found", apperror.NotFound("quiz session %s not found", "abc"), 404, "quiz session abc not found"},
		{"validation", apperror.Validation("invalid request: count", map[string]string{"count": "is required"}), 400, "invalid request: count"},
		{"conflict", apperror.Conflict("done"), 409, "done"},
		{"malformed", apperror.Malformed("model response is not valid JSON", "oops", nil), 500, "Failed to process model response"},
		{"gateway", apperror.Gateway("text generation failed", errors.New("dial tcp")), 500, "Failed to generate content"},
		{"fiber", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope"},
		{"unknown", errors.New("boom"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.NewNopLogger())})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var out map[string]any
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.wantError, out["error"])
		})
	}
}

func TestErrorHandlerIncludesRawModelOutput(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.NewNopLogger())})
	app.Get("/", func(*fiber.Ctx) error {
		return apperror.InvalidShape(`response: missing required key "summary"`, `{"optimizations": []}`)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var out struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, `{"optimizations": []}`, out.Details["raw"])
	assert.Equal(t, "INVALID_RESPONSE_SHAPE", out.Details["kind"])
}
