package handler

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/academic-evaluator-api/internal/service"
	"github.com/noah-isme/academic-evaluator-api/internal/utils"
)

const realtimePingInterval = 30 * time.Second

// RealtimeHandler streams academic events to connected students.
type RealtimeHandler struct {
	events service.EventService
	logger zerolog.Logger
}

// NewRealtimeHandler constructs the handler.
func NewRealtimeHandler(events service.EventService, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		events: events,
		logger: logger.With().Str("component", "realtime_handler").Logger(),
	}
}

// Register binds the websocket stream under the student group.
func (h *RealtimeHandler) Register(router fiber.Router) {
	router.Use("/live", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if studentIDFromContext(c) == 0 {
			return utils.SendError(c, fiber.StatusForbidden, "student profile missing")
		}
		return c.Next()
	})
	router.Get("/live", websocket.New(h.handleConnection))
}

func (h *RealtimeHandler) handleConnection(conn *websocket.Conn) {
	studentID := uintLocal(conn.Locals("student_id"))
	events, cancel := h.events.Subscribe(studentID)
	defer cancel()

	logger := h.logger.With().Uint("student_id", studentID).Logger()
	logger.Info().Msg("realtime websocket connected")
	defer logger.Info().Msg("realtime websocket disconnected")

	// The client only reads; a read error means it went away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(realtimePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug().Err(err).Msg("failed to write realtime event")
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
