package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/config"
	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/router"
)

const testSecret = "router-test-secret"

type staffDashboardStub struct{}

func (staffDashboardStub) GetDashboard(context.Context) (dto.StaffDashboardResponse, bool, error) {
	return dto.StaffDashboardResponse{TotalStudents: 3, SubjectsHandled: 5}, false, nil
}

type studentDashboardStub struct {
	lastID uint
}

func (s *studentDashboardStub) GetDashboard(_ context.Context, studentID uint) (dto.StudentDashboardResponse, bool, error) {
	s.lastID = studentID
	return dto.StudentDashboardResponse{Student: dto.StudentResponse{ID: studentID}}, false, nil
}

func (s *studentDashboardStub) Marks(context.Context, uint) (dto.StudentMarksResponse, error) {
	return dto.StudentMarksResponse{}, nil
}

func (s *studentDashboardStub) Attendance(context.Context, uint) (dto.StudentAttendanceResponse, error) {
	return dto.StudentAttendanceResponse{}, nil
}

func (s *studentDashboardStub) Graphs(context.Context, uint) (dto.StudentGraphsResponse, error) {
	return dto.StudentGraphsResponse{}, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newApp(t *testing.T) (*fiber.App, *studentDashboardStub) {
	t.Helper()
	cfg := config.Config{AppName: "Academic Evaluator API", AppEnv: "test", LoginRateLimit: 5}
	students := &studentDashboardStub{}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		StaffDashboardHandler:   handler.NewStaffDashboardHandler(staffDashboardStub{}, zerolog.Nop()),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(students, zerolog.Nop()),
		JWTMiddleware:           middleware.JWTProtected(testSecret),
	})
	return app, students
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRouterHealthAndMetrics(t *testing.T) {
	app, _ := newApp(t)

	resp := get(t, app, "/api/v1/health", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Academic Evaluator API", resp.Header.Get("X-Application"))

	resp = get(t, app, "/metrics", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouterStaffGroupEnforcesRole(t *testing.T) {
	app, _ := newApp(t)

	staffToken := signToken(t, jwt.MapClaims{"sub": "1", "role": "staff"})
	studentToken := signToken(t, jwt.MapClaims{"sub": "2", "role": "student", "student_id": 7})

	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/api/v1/staff/dashboard", "").StatusCode)
	require.Equal(t, fiber.StatusForbidden, get(t, app, "/api/v1/staff/dashboard", studentToken).StatusCode)
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/staff/dashboard", staffToken).StatusCode)
}

func TestRouterStudentGroupUsesTokenStudent(t *testing.T) {
	app, students := newApp(t)

	staffToken := signToken(t, jwt.MapClaims{"sub": "1", "role": "staff"})
	studentToken := signToken(t, jwt.MapClaims{"sub": "2", "role": "student", "student_id": 7})

	require.Equal(t, fiber.StatusForbidden, get(t, app, "/api/v1/student/dashboard", staffToken).StatusCode)

	resp := get(t, app, "/api/v1/student/dashboard?student_id=99", studentToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(7), students.lastID)
}

func TestRouterRejectsForgedToken(t *testing.T) {
	app, _ := newApp(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": "staff",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("someone-else"))
	require.NoError(t, err)

	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/api/v1/staff/dashboard", forged).StatusCode)
}
