package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asStaff and asStudent stand in for the JWT middleware.
func asStaff(c *fiber.Ctx) error {
	c.Locals("user_id", uint(1))
	c.Locals("user_role", "staff")
	return c.Next()
}

func asStudent(studentID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", studentID+100)
		c.Locals("user_role", "student")
		c.Locals("student_id", studentID)
		return c.Next()
	}
}

type failurePayload struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}
