package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// StaffDashboardHandler exposes the roster overview.
type StaffDashboardHandler struct {
	service service.StaffDashboardService
	logger  zerolog.Logger
}

// NewStaffDashboardHandler constructs the handler.
func NewStaffDashboardHandler(service service.StaffDashboardService, logger zerolog.Logger) *StaffDashboardHandler {
	return &StaffDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "staff_dashboard_handler").Logger(),
	}
}

// Register attaches the staff dashboard endpoint.
func (h *StaffDashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
}

func (h *StaffDashboardHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, cacheHit, err := h.service.GetDashboard(requestContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load dashboard")
	}
	return utils.OK(c, dashboard, "dashboard retrieved", fiber.Map{"cache_hit": cacheHit})
}
