package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
)

type stubStaffDashboardService struct {
	response dto.StaffDashboardResponse
}

func (s stubStaffDashboardService) GetDashboard(context.Context) (dto.StaffDashboardResponse, bool, error) {
	return s.response, false, nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)
	return schema
}

func validateBody(t *testing.T, schema *jsonschema.Schema, resp *http.Response) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestStudentDashboardContract(t *testing.T) {
	schema := compileSchema(t, "student_dashboard.schema.json")

	for name, response := range map[string]dto.StudentDashboardResponse{
		"populated": sampleDashboard(),
		"fresh student": {
			Student:          dto.StudentResponse{ID: 3, RegNumber: "ST2024003", Name: "Neha Verma", Department: "Physics", Semester: 1},
			Subjects:         []evaluation.SubjectResult{},
			Attendance:       []evaluation.AttendanceSummary{},
			AttendanceStatus: "Needs Improvement",
			RecentFeedback:   []dto.FeedbackResponse{},
		},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubStudentDashboardService{response: response}
			app := fiber.New()
			handler.NewStudentDashboardHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/student", asStudent(response.Student.ID)))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/student/dashboard", nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			validateBody(t, schema, resp)
		})
	}
}

func TestStaffDashboardContract(t *testing.T) {
	schema := compileSchema(t, "staff_dashboard.schema.json")

	response := dto.StaffDashboardResponse{
		TotalStudents:   2,
		SubjectsHandled: 5,
		Summary: evaluation.RosterSummary{
			TotalStudents:     2,
			AverageCGPA:       7.9,
			AverageAttendance: 82,
			PassCount:         1,
			PassRate:          0.5,
			HighestTotal:      182,
			GradeDistribution: map[evaluation.Grade]int{evaluation.GradeO: 1, evaluation.GradeF: 1},
		},
		Students: []dto.RosterRow{
			{StudentID: 1, RegNumber: "ST2021001", Name: "Raahul Kumar", Department: "Computer Science", Semester: 5, CGPA: 9.1, Attendance: 92, Passed: true},
			{StudentID: 2, RegNumber: "ST2021002", Name: "Priya Sharma", Department: "Computer Science", Semester: 5, CGPA: 6.7, Attendance: 72, Passed: false},
		},
	}

	app := fiber.New()
	handler.NewStaffDashboardHandler(stubStaffDashboardService{response: response}, zerolog.Nop()).Register(app.Group("/api/v1/staff", asStaff))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/staff/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateBody(t, schema, resp)
}
