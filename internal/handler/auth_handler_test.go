package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
)

type stubAuthService struct {
	loginErr    error
	lastLogin   dto.LoginRequest
	profileID   uint
	loginCalls  int
	profileResp dto.UserProfile
}

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	s.loginCalls++
	s.lastLogin = req
	if s.loginErr != nil {
		return dto.LoginResponse{}, s.loginErr
	}
	return dto.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		User:      dto.UserProfile{ID: 3, Name: "Dr. Pittu Sharma", Email: req.Email, Role: "staff"},
	}, nil
}

func (s *stubAuthService) Profile(_ context.Context, userID uint) (dto.UserProfile, error) {
	s.profileID = userID
	return s.profileResp, nil
}

func newAuthApp(svc service.AuthService, limiter fiber.Handler, jwt fiber.Handler) *fiber.App {
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.Nop()).Register(app.Group("/auth"), limiter, jwt)
	return app
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc, nil, asStaff)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "admin@gmail.com", Password: "Admin@123"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "signed-token", payload.Data.Token)
	require.Equal(t, "admin@gmail.com", svc.lastLogin.Email)
}

func TestAuthHandler_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: service.ErrInvalidCredentials}
	app := newAuthApp(svc, nil, asStaff)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "admin@gmail.com", Password: "wrong-password"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var payload failurePayload
	decodeResponse(t, resp, &payload)
	require.Equal(t, service.ErrInvalidCredentials.Error(), payload.Message)
}

func TestAuthHandler_InvalidPayload(t *testing.T) {
	svc := &stubAuthService{}
	app := newAuthApp(svc, nil, asStaff)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.loginCalls)
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	svc := &stubAuthService{loginErr: service.ErrInvalidCredentials}
	app := newAuthApp(svc, middleware.RateLimit("login", 2, time.Minute), asStaff)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "admin@gmail.com", Password: "guessing"}))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		resp.Body.Close()
	}

	require.Equal(t, []int{fiber.StatusUnauthorized, fiber.StatusUnauthorized, fiber.StatusTooManyRequests}, statuses)
	require.Equal(t, 2, svc.loginCalls)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	svc := &stubAuthService{profileResp: dto.UserProfile{ID: 107, Name: "Priya Sharma", Role: "student"}}

	anonymous := newAuthApp(svc, nil, func(c *fiber.Ctx) error { return c.Next() })
	resp, err := anonymous.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	signedIn := newAuthApp(svc, nil, asStudent(7))
	resp, err = signedIn.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.UserProfile `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "Priya Sharma", payload.Data.Name)
	require.Equal(t, uint(107), svc.profileID)
}
