package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/middleware"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// StudentDashboardHandler exposes the student's academic views.
type StudentDashboardHandler struct {
	service service.StudentDashboardService
	logger  zerolog.Logger
}

// NewStudentDashboardHandler creates a new handler instance.
func NewStudentDashboardHandler(service service.StudentDashboardService, logger zerolog.Logger) *StudentDashboardHandler {
	return &StudentDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "student_dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoints.
func (h *StudentDashboardHandler) Register(router fiber.Router) {
	studentOnly := middleware.AuthOptions{Role: middleware.AuthRoleStudent}
	router.Get("/dashboard", middleware.WithAuth(h.getDashboard, studentOnly))
	router.Get("/marks", middleware.WithAuth(h.getMarks, studentOnly))
	router.Get("/attendance", middleware.WithAuth(h.getAttendance, studentOnly))
	router.Get("/graphs", middleware.WithAuth(h.getGraphs, studentOnly))
}

func (h *StudentDashboardHandler) getDashboard(c *fiber.Ctx) error {
	studentID := studentIDFromContext(c)

	dashboard, cacheHit, err := h.service.GetDashboard(requestContext(c), studentID)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load dashboard")
	}

	return utils.OK(c, dashboard, "dashboard retrieved", fiber.Map{"cache_hit": cacheHit})
}

func (h *StudentDashboardHandler) getMarks(c *fiber.Ctx) error {
	marks, err := h.service.Marks(requestContext(c), studentIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load marks")
	}
	return utils.SendSuccess(c, "marks retrieved", marks)
}

func (h *StudentDashboardHandler) getAttendance(c *fiber.Ctx) error {
	attendance, err := h.service.Attendance(requestContext(c), studentIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load attendance")
	}
	return utils.SendSuccess(c, "attendance retrieved", attendance)
}

func (h *StudentDashboardHandler) getGraphs(c *fiber.Ctx) error {
	graphs, err := h.service.Graphs(requestContext(c), studentIDFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load graphs")
	}
	return utils.SendSuccess(c, "graphs retrieved", graphs)
}
