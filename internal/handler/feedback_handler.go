package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// FeedbackHandler exposes feedback for staff and students.
type FeedbackHandler struct {
	service service.FeedbackService
	logger  zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// RegisterStaff attaches the staff feedback routes.
func (h *FeedbackHandler) RegisterStaff(router fiber.Router) {
	router.Post("/feedback", h.create)
	router.Get("/feedback", h.list)
}

// RegisterStudent attaches the student's own feedback history.
func (h *FeedbackHandler) RegisterStudent(router fiber.Router) {
	router.Get("/feedback", middleware.WithAuth(h.own, middleware.AuthOptions{Role: middleware.AuthRoleStudent}))
}

func (h *FeedbackHandler) create(c *fiber.Ctx) error {
	var payload dto.FeedbackCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	feedback, err := h.service.Create(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to save feedback")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback saved", feedback)
}

func (h *FeedbackHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student_id")
	}
	subjectID, err := parseQueryUint(c, "subject_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject_id")
	}

	response, err := h.service.List(requestContext(c), dto.FeedbackListRequest{
		StudentID: studentID,
		SubjectID: subjectID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list feedback")
	}
	return utils.OK(c, response.Items, "feedback retrieved", response.Pagination)
}

func (h *FeedbackHandler) own(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.ForStudent(requestContext(c), studentIDFromContext(c), page, pageSize)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list feedback")
	}
	return utils.OK(c, response.Items, "feedback retrieved", response.Pagination)
}
