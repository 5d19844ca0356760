package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/academic-evaluator-api/internal/observability"
)

const eventBufferSize = 16

// Academic event types.
const (
	EventMarksUpdated      = "marks.updated"
	EventAttendanceUpdated = "attendance.updated"
	EventFeedbackCreated   = "feedback.created"
)

// AcademicEvent tells a student that part of their record changed.
type AcademicEvent struct {
	Type       string    `json:"type"`
	StudentID  uint      `json:"student_id"`
	SubjectID  uint      `json:"subject_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AcademicNotifier is used by write paths to drop stale dashboards and
// announce changes.
type AcademicNotifier interface {
	Publish(ctx context.Context, events ...AcademicEvent)
	Invalidate(ctx context.Context, studentIDs ...uint)
}

// EventService fans academic events out to local websocket subscribers and
// to the other API nodes over NATS.
type EventService interface {
	AcademicNotifier
	Subscribe(studentID uint) (<-chan AcademicEvent, func())
	Start(ctx context.Context)
}

type eventEnvelope struct {
	Source string          `json:"source"`
	Events []AcademicEvent `json:"events"`
	SentAt time.Time       `json:"sent_at"`
}

type eventService struct {
	cache   dashboardCache
	nats    *nats.Conn
	subject string
	broker  *eventBroker
	nodeID  string
	tracer  trace.Tracer
	logger  zerolog.Logger
	now     func() time.Time
}

type eventBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan AcademicEvent]struct{}
}

// NewEventService constructs the event bus. Either transport may be nil.
func NewEventService(redisClient *redis.Client, natsConn *nats.Conn, subject string, logger zerolog.Logger) EventService {
	componentLogger := logger.With().Str("component", "event_service").Logger()
	return &eventService{
		cache:   newDashboardCache(redisClient, 0, componentLogger),
		nats:    natsConn,
		subject: subject,
		broker: &eventBroker{
			subscribers: make(map[uint]map[chan AcademicEvent]struct{}),
		},
		nodeID: uuid.NewString(),
		tracer: otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/events"),
		logger: componentLogger,
		now:    time.Now,
	}
}

func (s *eventService) Start(ctx context.Context) {
	if s.nats == nil || s.subject == "" {
		return
	}

	// Every node needs every event, so this is a plain subscription rather
	// than a queue group.
	sub, err := s.nats.Subscribe(s.subject, func(msg *nats.Msg) {
		s.handleRemote(ctx, msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("subject", s.subject).Msg("failed to subscribe to academic events")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain academic event subscription")
		}
	}()
}

func (s *eventService) Invalidate(ctx context.Context, studentIDs ...uint) {
	s.cache.invalidate(ctx, studentIDs...)
}

func (s *eventService) Publish(ctx context.Context, events ...AcademicEvent) {
	if len(events) == 0 {
		return
	}

	ctx, span := s.tracer.Start(ctx, "events.publish", trace.WithAttributes(
		attribute.String("events.type", events[0].Type),
		attribute.Int("events.count", len(events)),
	))
	defer span.End()

	now := s.now().UTC()
	studentIDs := make([]uint, 0, len(events))
	for i := range events {
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = now
		}
		studentIDs = append(studentIDs, events[i].StudentID)
	}

	s.cache.invalidate(ctx, studentIDs...)
	s.deliver(events, "local")

	if s.nats == nil || s.subject == "" {
		return
	}

	payload, err := json.Marshal(eventEnvelope{Source: s.nodeID, Events: events, SentAt: now})
	if err != nil {
		return
	}
	if err := s.nats.Publish(s.subject, payload); err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("failed to forward academic events to nats")
	}
}

func (s *eventService) Subscribe(studentID uint) (<-chan AcademicEvent, func()) {
	channel := make(chan AcademicEvent, eventBufferSize)

	s.broker.subscribe(studentID, channel)
	observability.RealtimeClientsActive().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			s.broker.unsubscribe(studentID, channel)
			observability.RealtimeClientsActive().Dec()
		})
	}

	return channel, cleanup
}

func (s *eventService) handleRemote(ctx context.Context, payload []byte) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("invalid academic event payload")
		return
	}

	if envelope.Source == s.nodeID {
		return
	}

	studentIDs := make([]uint, 0, len(envelope.Events))
	for _, event := range envelope.Events {
		studentIDs = append(studentIDs, event.StudentID)
	}
	s.cache.invalidate(ctx, studentIDs...)
	s.deliver(envelope.Events, "remote")
}

func (s *eventService) deliver(events []AcademicEvent, origin string) {
	for _, event := range events {
		observability.EventsPublished().WithLabelValues(event.Type, origin).Inc()
		s.broker.broadcast(event)
	}
}

func (b *eventBroker) subscribe(studentID uint, ch chan AcademicEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[studentID]; !exists {
		b.subscribers[studentID] = make(map[chan AcademicEvent]struct{})
	}
	b.subscribers[studentID][ch] = struct{}{}
}

func (b *eventBroker) unsubscribe(studentID uint, ch chan AcademicEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[studentID]; ok {
		if _, present := subscribers[ch]; !present {
			return
		}
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, studentID)
		}
	}
}

// broadcast drops events for subscribers whose buffer is full.
func (b *eventBroker) broadcast(event AcademicEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[event.StudentID] {
		select {
		case ch <- event:
		default:
		}
	}
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, ...AcademicEvent) {}
func (noopNotifier) Invalidate(context.Context, ...uint)       {}

func notifierOrNoop(notifier AcademicNotifier) AcademicNotifier {
	if notifier == nil {
		return noopNotifier{}
	}
	return notifier
}
