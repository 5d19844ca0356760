package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
)

type stubAttendanceService struct {
	recordErr error
	lastReq   dto.AttendanceRequest
	sheetDate string
	sheetErr  error
}

func (s *stubAttendanceService) Record(_ context.Context, req dto.AttendanceRequest, _ service.ActivityActor) (dto.AttendanceSaveResponse, error) {
	s.lastReq = req
	if s.recordErr != nil {
		return dto.AttendanceSaveResponse{}, s.recordErr
	}
	return dto.AttendanceSaveResponse{SubjectID: req.SubjectID, Date: req.Date, Present: 2, Absent: 1, Total: 3, Percentage: 67}, nil
}

func (s *stubAttendanceService) Sheet(_ context.Context, subjectID uint, date string) (dto.AttendanceSheetResponse, error) {
	s.sheetDate = date
	if s.sheetErr != nil {
		return dto.AttendanceSheetResponse{}, s.sheetErr
	}
	return dto.AttendanceSheetResponse{Subject: dto.SubjectResponse{ID: subjectID}, Date: date}, nil
}

type stubMarkService struct {
	recordErr error
	sheet     dto.MarkSheetResponse
}

func (s *stubMarkService) Record(_ context.Context, _ dto.MarksRequest, _ service.ActivityActor) (dto.MarkSheetResponse, error) {
	if s.recordErr != nil {
		return dto.MarkSheetResponse{}, s.recordErr
	}
	return s.sheet, nil
}

func (s *stubMarkService) Sheet(_ context.Context, _ uint) (dto.MarkSheetResponse, error) {
	return s.sheet, nil
}

func newAcademicApp(attendance service.AttendanceService, marks service.MarkService) *fiber.App {
	app := fiber.New()
	handler.NewAcademicHandler(attendance, marks, zerolog.Nop()).Register(app.Group("/staff", asStaff))
	return app
}

func TestAcademicHandler_RecordAttendance(t *testing.T) {
	present, absent := true, false
	svc := &stubAttendanceService{}
	app := newAcademicApp(svc, &stubMarkService{})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/staff/attendance", dto.AttendanceRequest{
		SubjectID: 1,
		Date:      "2024-01-15",
		Entries: []dto.AttendanceEntry{
			{StudentID: 1, Present: &present},
			{StudentID: 2, Present: &present},
			{StudentID: 3, Present: &absent},
		},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.AttendanceSaveResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, 67, payload.Data.Percentage)
	require.Len(t, svc.lastReq.Entries, 3)
	require.False(t, *svc.lastReq.Entries[2].Present)
}

func TestAcademicHandler_IncompleteMarksReportsStudents(t *testing.T) {
	marks := &stubMarkService{recordErr: &service.EntriesError{Err: service.ErrIncompleteMarks, StudentIDs: []uint{4, 9}}}
	app := newAcademicApp(&stubAttendanceService{}, marks)

	internal := 40
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/staff/marks", dto.MarksRequest{
		SubjectID: 1,
		Entries:   []dto.MarkEntry{{StudentID: 4, Internal: &internal}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload failurePayload
	decodeResponse(t, resp, &payload)
	require.Equal(t, service.ErrIncompleteMarks.Error(), payload.Message)

	var details struct {
		Count      int    `json:"count"`
		StudentIDs []uint `json:"student_ids"`
	}
	require.NoError(t, json.Unmarshal(payload.Details, &details))
	require.Equal(t, 2, details.Count)
	require.Equal(t, []uint{4, 9}, details.StudentIDs)
}

func TestAcademicHandler_NotEnrolledAttendance(t *testing.T) {
	svc := &stubAttendanceService{recordErr: &service.EntriesError{Err: service.ErrNotEnrolled, StudentIDs: []uint{12}}}
	app := newAcademicApp(svc, &stubMarkService{})

	present := true
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/staff/attendance", dto.AttendanceRequest{
		SubjectID: 1,
		Date:      "2024-01-15",
		Entries:   []dto.AttendanceEntry{{StudentID: 12, Present: &present}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAcademicHandler_SheetQueries(t *testing.T) {
	attendance := &stubAttendanceService{}
	marks := &stubMarkService{sheet: dto.MarkSheetResponse{
		Subject: dto.SubjectResponse{ID: 1, Code: "CS101"},
		Rows:    []dto.MarkSheetRow{{StudentID: 1, Internal: 90, External: 92, Total: 182, Grade: evaluation.GradeO}},
	}}
	app := newAcademicApp(attendance, marks)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/staff/attendance?subject_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/staff/attendance?subject_id=1&date=2024-01-15", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "2024-01-15", attendance.sheetDate)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/staff/marks", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/staff/marks?subject_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.MarkSheetResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, evaluation.GradeO, payload.Data.Rows[0].Grade)
}

func TestAcademicHandler_BadDateAndUnexpectedErrors(t *testing.T) {
	attendance := &stubAttendanceService{sheetErr: service.ErrInvalidDate}
	marks := &stubMarkService{recordErr: errors.New("connection reset")}
	app := newAcademicApp(attendance, marks)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/staff/attendance?subject_id=1&date=15-01-2024", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	external := 50
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/staff/marks", dto.MarksRequest{
		SubjectID: 1,
		Entries:   []dto.MarkEntry{{StudentID: 1, Internal: &external, External: &external}},
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload failurePayload
	decodeResponse(t, resp, &payload)
	require.Equal(t, "failed to record marks", payload.Message)
}
