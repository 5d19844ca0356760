package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

const minCommentLength = 10

// FeedbackService manages staff feedback for students.
type FeedbackService interface {
	Create(ctx context.Context, req dto.FeedbackCreateRequest, actor ActivityActor) (dto.FeedbackResponse, error)
	List(ctx context.Context, req dto.FeedbackListRequest) (dto.FeedbackListResponse, error)
	ForStudent(ctx context.Context, studentID uint, page, pageSize int) (dto.FeedbackListResponse, error)
}

type feedbackService struct {
	feedback  repository.FeedbackRepository
	students  repository.StudentRepository
	subjects  repository.SubjectRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	activity  ActivityRecorder
	notifier  AcademicNotifier
	logger    zerolog.Logger
}

// NewFeedbackService constructs the feedback service.
func NewFeedbackService(feedback repository.FeedbackRepository, students repository.StudentRepository, subjects repository.SubjectRepository, validate *validator.Validate, activity ActivityRecorder, notifier AcademicNotifier, logger zerolog.Logger) FeedbackService {
	return &feedbackService{
		feedback:  feedback,
		students:  students,
		subjects:  subjects,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		activity:  activity,
		notifier:  notifierOrNoop(notifier),
		logger:    logger.With().Str("component", "feedback_service").Logger(),
	}
}

func (s *feedbackService) Create(ctx context.Context, req dto.FeedbackCreateRequest, actor ActivityActor) (dto.FeedbackResponse, error) {
	req.Rating = strings.ToLower(strings.TrimSpace(req.Rating))
	if err := s.validator.Struct(req); err != nil {
		return dto.FeedbackResponse{}, err
	}

	comment := strings.TrimSpace(s.sanitizer.Sanitize(req.Comment))
	// Entities count as the character they render, not their escaped form.
	if utf8.RuneCountInString(html.UnescapeString(comment)) < minCommentLength {
		return dto.FeedbackResponse{}, ErrCommentTooShort
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrStudentNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	if _, err := s.subjects.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FeedbackResponse{}, ErrSubjectNotFound
		}
		return dto.FeedbackResponse{}, err
	}

	enrolled, err := s.subjects.IsEnrolled(ctx, req.StudentID, req.SubjectID)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}
	if !enrolled {
		return dto.FeedbackResponse{}, &EntriesError{Err: ErrNotEnrolled, StudentIDs: []uint{req.StudentID}}
	}

	feedback := models.Feedback{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		StaffID:   actor.ID,
		Rating:    req.Rating,
		Comment:   comment,
	}
	if err := s.feedback.Create(ctx, &feedback); err != nil {
		s.logger.Error().Err(err).Uint("student_id", req.StudentID).Msg("failed to store feedback")
		return dto.FeedbackResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "feedback.created", "feedback", feedback.ID, map[string]interface{}{
		"student_id": feedback.StudentID,
		"subject_id": feedback.SubjectID,
		"rating":     feedback.Rating,
	})
	s.notifier.Publish(ctx, AcademicEvent{Type: EventFeedbackCreated, StudentID: feedback.StudentID, SubjectID: feedback.SubjectID})

	return dto.NewFeedbackResponse(feedback), nil
}

func (s *feedbackService) List(ctx context.Context, req dto.FeedbackListRequest) (dto.FeedbackListResponse, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := s.feedback.List(ctx, repository.FeedbackFilter{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return dto.FeedbackListResponse{}, err
	}

	responses := make([]dto.FeedbackResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewFeedbackResponse(item))
	}

	return dto.FeedbackListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *feedbackService) ForStudent(ctx context.Context, studentID uint, page, pageSize int) (dto.FeedbackListResponse, error) {
	return s.List(ctx, dto.FeedbackListRequest{StudentID: studentID, Page: page, PageSize: pageSize})
}
