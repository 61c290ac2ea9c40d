package helper

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestJsonErrorDefaults(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return JsonError(c, fiber.StatusNotFound, "")
	})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "NOT_FOUND", body["error_code"])
	assert.Equal(t, "not_found", body["message"])

	code, body = call(t, func(c *fiber.Ctx) error {
		return JsonError(c, 0, "")
	})
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_ERROR", body["error_code"])
}

func TestJsonErrorDetail(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return JsonErrorDetail(c, fiber.StatusBadRequest, ErrorResponse{
			Message:   "invalid answers",
			ErrorCode: "INVALID_ANSWERS",
			Reason:    "duplicate_answer",
			Details:   map[string]any{"session_question_id": "abc"},
			Success:   true,
		})
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_ANSWERS", body["error_code"])
	assert.Equal(t, "duplicate_answer", body["reason"])
	assert.Equal(t, map[string]any{"session_question_id": "abc"}, body["details"])
	assert.NotContains(t, body, "errors")
}

func TestValidationError(t *testing.T) {
	type req struct {
		Username string `json:"username" validate:"required"`
		Kind     string `json:"question_type" validate:"oneof=ma tf"`
	}
	v := NewValidator()

	code, body := call(t, func(c *fiber.Ctx) error {
		return ValidationError(c, v.Struct(&req{Kind: "essay"}))
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
	assert.Equal(t, map[string]any{
		"username":      []any{"required"},
		"question_type": []any{"oneof"},
	}, body["errors"])
}

func TestFromFiberError(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return FromFiberError(c, fiber.NewError(fiber.StatusBadRequest, "n must be a positive integer"))
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "n must be a positive integer", body["message"])
}

func TestJsonOK(t *testing.T) {
	code, body := call(t, func(c *fiber.Ctx) error {
		return JsonOK(c, "", fiber.Map{"n": 1})
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
}
