package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// AcademicHandler exposes the staff attendance and marks sheets.
type AcademicHandler struct {
	attendance service.AttendanceService
	marks      service.MarkService
	logger     zerolog.Logger
}

// NewAcademicHandler constructs the handler.
func NewAcademicHandler(attendance service.AttendanceService, marks service.MarkService, logger zerolog.Logger) *AcademicHandler {
	return &AcademicHandler{
		attendance: attendance,
		marks:      marks,
		logger:     logger.With().Str("component", "academic_handler").Logger(),
	}
}

// Register attaches the attendance and marks routes to the staff group.
func (h *AcademicHandler) Register(router fiber.Router) {
	router.Post("/attendance", h.recordAttendance)
	router.Get("/attendance", h.attendanceSheet)
	router.Post("/marks", h.recordMarks)
	router.Get("/marks", h.markSheet)
}

func (h *AcademicHandler) recordAttendance(c *fiber.Ctx) error {
	var payload dto.AttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	saved, err := h.attendance.Record(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to record attendance")
	}
	return utils.SendSuccess(c, "attendance recorded", saved)
}

func (h *AcademicHandler) attendanceSheet(c *fiber.Ctx) error {
	subjectID, err := parseQueryUint(c, "subject_id")
	if err != nil || subjectID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "subject_id is required")
	}

	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "date is required")
	}

	sheet, err := h.attendance.Sheet(requestContext(c), subjectID, date)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load attendance")
	}
	return utils.SendSuccess(c, "attendance retrieved", sheet)
}

func (h *AcademicHandler) recordMarks(c *fiber.Ctx) error {
	var payload dto.MarksRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sheet, err := h.marks.Record(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to record marks")
	}
	return utils.SendSuccess(c, "marks recorded", sheet)
}

func (h *AcademicHandler) markSheet(c *fiber.Ctx) error {
	subjectID, err := parseQueryUint(c, "subject_id")
	if err != nil || subjectID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "subject_id is required")
	}

	sheet, err := h.marks.Sheet(requestContext(c), subjectID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load marks")
	}
	return utils.SendSuccess(c, "marks retrieved", sheet)
}
