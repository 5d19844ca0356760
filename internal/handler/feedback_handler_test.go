package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/handler"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
)

type stubFeedbackService struct {
	createErr      error
	listReq        dto.FeedbackListRequest
	ownStudentID   uint
	ownPage        int
	ownPageSize    int
	createdRequest dto.FeedbackCreateRequest
}

func (s *stubFeedbackService) Create(_ context.Context, req dto.FeedbackCreateRequest, _ service.ActivityActor) (dto.FeedbackResponse, error) {
	s.createdRequest = req
	if s.createErr != nil {
		return dto.FeedbackResponse{}, s.createErr
	}
	return dto.FeedbackResponse{ID: 1, StudentID: req.StudentID, Rating: req.Rating, Comment: req.Comment}, nil
}

func (s *stubFeedbackService) List(_ context.Context, req dto.FeedbackListRequest) (dto.FeedbackListResponse, error) {
	s.listReq = req
	return dto.FeedbackListResponse{Pagination: dto.PaginationMeta{Page: req.Page, PageSize: req.PageSize}}, nil
}

func (s *stubFeedbackService) ForStudent(_ context.Context, studentID uint, page, pageSize int) (dto.FeedbackListResponse, error) {
	s.ownStudentID = studentID
	s.ownPage = page
	s.ownPageSize = pageSize
	return dto.FeedbackListResponse{
		Items:      []dto.FeedbackResponse{{ID: 4, StudentID: studentID, Rating: "good"}},
		Pagination: dto.PaginationMeta{Page: page, PageSize: pageSize, TotalItems: 1, TotalPages: 1},
	}, nil
}

func TestFeedbackHandler_StaffCreate(t *testing.T) {
	svc := &stubFeedbackService{}
	app := fiber.New()
	handler.NewFeedbackHandler(svc, zerolog.Nop()).RegisterStaff(app.Group("/staff", asStaff))

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/staff/feedback", dto.FeedbackCreateRequest{
		StudentID: 1,
		SubjectID: 2,
		Rating:    "excellent",
		Comment:   "Consistently strong lab work.",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "excellent", svc.createdRequest.Rating)
}

func TestFeedbackHandler_CreateErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "short comment", err: service.ErrCommentTooShort, status: fiber.StatusBadRequest},
		{name: "not enrolled", err: &service.EntriesError{Err: service.ErrNotEnrolled, StudentIDs: []uint{1}}, status: fiber.StatusUnprocessableEntity},
		{name: "unknown subject", err: service.ErrSubjectNotFound, status: fiber.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			handler.NewFeedbackHandler(&stubFeedbackService{createErr: tc.err}, zerolog.Nop()).RegisterStaff(app.Group("/staff", asStaff))

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/staff/feedback", dto.FeedbackCreateRequest{
				StudentID: 1,
				SubjectID: 2,
				Rating:    "good",
				Comment:   "<b>ok</b>",
			}))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestFeedbackHandler_StaffListFilters(t *testing.T) {
	svc := &stubFeedbackService{}
	app := fiber.New()
	handler.NewFeedbackHandler(svc, zerolog.Nop()).RegisterStaff(app.Group("/staff", asStaff))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/staff/feedback?student_id=3&subject_id=2&page=2", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, dto.FeedbackListRequest{StudentID: 3, SubjectID: 2, Page: 2, PageSize: 20}, svc.listReq)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/staff/feedback?student_id=x", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFeedbackHandler_StudentSeesOwnFeedback(t *testing.T) {
	svc := &stubFeedbackService{}
	app := fiber.New()
	handler.NewFeedbackHandler(svc, zerolog.Nop()).RegisterStudent(app.Group("/student", asStudent(7)))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/student/feedback?student_id=99&page_size=5", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data []dto.FeedbackResponse `json:"data"`
		Meta dto.PaginationMeta     `json:"meta"`
	}
	decodeResponse(t, resp, &payload)
	require.Len(t, payload.Data, 1)
	require.Equal(t, uint(7), svc.ownStudentID)
	require.Equal(t, 5, svc.ownPageSize)
	require.Equal(t, 1, payload.Meta.TotalPages)
}
