package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

// SubjectHandler exposes subjects and enrollment management.
type SubjectHandler struct {
	service service.SubjectService
	logger  zerolog.Logger
}

// NewSubjectHandler constructs the handler.
func NewSubjectHandler(service service.SubjectService, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		service: service,
		logger:  logger.With().Str("component", "subject_handler").Logger(),
	}
}

// Register attaches subject and enrollment routes to the staff group.
func (h *SubjectHandler) Register(router fiber.Router) {
	router.Get("/subjects", h.list)
	router.Post("/subjects", h.create)
	router.Get("/subjects/:id/students", h.roster)
	router.Get("/students/:id/subjects", h.studentSubjects)
	router.Put("/students/:id/subjects", h.assign)
}

func (h *SubjectHandler) list(c *fiber.Ctx) error {
	subjects, err := h.service.List(requestContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to list subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *SubjectHandler) create(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subject, err := h.service.Create(requestContext(c), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to create subject")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject created", subject)
}

func (h *SubjectHandler) roster(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.Roster(requestContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load roster")
	}
	return utils.SendSuccess(c, "roster retrieved", roster)
}

func (h *SubjectHandler) studentSubjects(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	subjects, err := h.service.StudentSubjects(requestContext(c), id)
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to load subjects")
	}
	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *SubjectHandler) assign(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EnrollmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.service.AssignSubjects(requestContext(c), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, h.logger, err, "failed to assign subjects")
	}
	return utils.SendSuccess(c, "subjects assigned", student)
}
