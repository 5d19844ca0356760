package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// SeedHandler lets staff load the demo portal data on demand.
type SeedHandler struct {
	service  service.SeedService
	notifier service.AcademicNotifier
	logger   zerolog.Logger
}

// NewSeedHandler constructs a seed handler. notifier may be nil.
func NewSeedHandler(service service.SeedService, notifier service.AcademicNotifier, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service:  service,
		notifier: notifier,
		logger:   logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/seed", h.seedDemo)
}

func (h *SeedHandler) seedDemo(c *fiber.Ctx) error {
	ctx := requestContext(c)
	report, err := h.service.SeedDemo(ctx)
	if err != nil {
		if errors.Is(err, service.ErrSeedDisabled) {
			return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("seed operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
	}

	if h.notifier != nil && (report.StudentsCreated > 0 || report.SubjectsCreated > 0) {
		h.notifier.Invalidate(ctx)
	}

	return utils.SendSuccess(c, "demo data seeded", report)
}
