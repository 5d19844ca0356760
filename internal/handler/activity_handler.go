package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// ActivityHandler exposes the staff audit trail.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activity", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	actorID, err := parseQueryUint(c, "actor_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	response, err := h.service.List(requestContext(c), dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    actorID,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	})
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list activity logs")
	}

	return utils.OK(c, response.Items, "activity logs", response.Pagination)
}
