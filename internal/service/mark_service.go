package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

// MarkService records and evaluates exam marks.
type MarkService interface {
	Record(ctx context.Context, req dto.MarksRequest, actor ActivityActor) (dto.MarkSheetResponse, error)
	Sheet(ctx context.Context, subjectID uint) (dto.MarkSheetResponse, error)
}

type markService struct {
	marks     repository.MarkRepository
	subjects  repository.SubjectRepository
	validator *validator.Validate
	activity  ActivityRecorder
	notifier  AcademicNotifier
	logger    zerolog.Logger
}

// NewMarkService constructs the mark service.
func NewMarkService(marks repository.MarkRepository, subjects repository.SubjectRepository, validate *validator.Validate, activity ActivityRecorder, notifier AcademicNotifier, logger zerolog.Logger) MarkService {
	return &markService{
		marks:     marks,
		subjects:  subjects,
		validator: validate,
		activity:  activity,
		notifier:  notifierOrNoop(notifier),
		logger:    logger.With().Str("component", "mark_service").Logger(),
	}
}

// Record stores both components for every enrolled student. A submission that
// leaves any enrolled student without both scores is rejected as a whole.
func (s *markService) Record(ctx context.Context, req dto.MarksRequest, actor ActivityActor) (dto.MarkSheetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MarkSheetResponse{}, err
	}

	tracer := otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/marks")
	ctx, span := tracer.Start(ctx, "marks.record")
	span.SetAttributes(
		attribute.Int64("marks.subject_id", int64(req.SubjectID)),
		attribute.Int("marks.entries", len(req.Entries)),
	)
	defer span.End()

	subject, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkSheetResponse{}, ErrSubjectNotFound
		}
		span.RecordError(err)
		return dto.MarkSheetResponse{}, err
	}

	roster, err := s.subjects.ListStudents(ctx, subject.ID)
	if err != nil {
		span.RecordError(err)
		return dto.MarkSheetResponse{}, err
	}

	entryIDs := make([]uint, 0, len(req.Entries))
	complete := make(map[uint]struct{}, len(req.Entries))
	for _, entry := range req.Entries {
		entryIDs = append(entryIDs, entry.StudentID)
		if entry.Internal != nil && entry.External != nil {
			complete[entry.StudentID] = struct{}{}
		}
	}

	if _, err := validateRosterEntries(roster, entryIDs); err != nil {
		return dto.MarkSheetResponse{}, err
	}

	incomplete := make([]uint, 0)
	for _, student := range roster {
		if _, ok := complete[student.ID]; !ok {
			incomplete = append(incomplete, student.ID)
		}
	}
	if len(incomplete) > 0 {
		return dto.MarkSheetResponse{}, &EntriesError{Err: ErrIncompleteMarks, StudentIDs: incomplete}
	}

	rows := make([]models.Mark, 0, len(req.Entries)*2)
	events := make([]AcademicEvent, 0, len(req.Entries))
	for _, entry := range req.Entries {
		rows = append(rows,
			models.Mark{StudentID: entry.StudentID, SubjectID: subject.ID, ExamType: string(evaluation.ExamInternal), Score: *entry.Internal, RecordedBy: actor.ID},
			models.Mark{StudentID: entry.StudentID, SubjectID: subject.ID, ExamType: string(evaluation.ExamExternal), Score: *entry.External, RecordedBy: actor.ID},
		)
		events = append(events, AcademicEvent{Type: EventMarksUpdated, StudentID: entry.StudentID, SubjectID: subject.ID})
	}

	if err := s.marks.Upsert(ctx, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert_marks_failed")
		return dto.MarkSheetResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "marks.recorded", "subject", subject.ID, map[string]interface{}{
		"entries": len(req.Entries),
	})
	s.notifier.Publish(ctx, events...)

	return s.sheetFor(ctx, subject, roster)
}

func (s *markService) Sheet(ctx context.Context, subjectID uint) (dto.MarkSheetResponse, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarkSheetResponse{}, ErrSubjectNotFound
		}
		return dto.MarkSheetResponse{}, err
	}

	roster, err := s.subjects.ListStudents(ctx, subjectID)
	if err != nil {
		return dto.MarkSheetResponse{}, err
	}

	return s.sheetFor(ctx, subject, roster)
}

func (s *markService) sheetFor(ctx context.Context, subject models.Subject, roster []models.Student) (dto.MarkSheetResponse, error) {
	marks, err := s.marks.ListBySubject(ctx, subject.ID)
	if err != nil {
		return dto.MarkSheetResponse{}, err
	}

	byStudent := make(map[uint][]evaluation.MarkRecord, len(roster))
	for _, mark := range marks {
		byStudent[mark.StudentID] = append(byStudent[mark.StudentID], mark.Record())
	}

	ref := subject.Reference()
	rows := make([]dto.MarkSheetRow, 0, len(roster))
	results := make([]evaluation.SubjectResult, 0, len(roster))
	for _, student := range roster {
		result, err := evaluation.BuildSubjectResult(ref, byStudent[student.ID])
		if err != nil {
			return dto.MarkSheetResponse{}, err
		}
		reportWarnings(s.logger, student.ID, []evaluation.SubjectResult{result})

		results = append(results, result)
		rows = append(rows, dto.MarkSheetRow{
			StudentID:  student.ID,
			RegNumber:  student.RegNumber,
			Name:       student.Name,
			Internal:   result.Internal,
			External:   result.External,
			Total:      result.Total,
			Grade:      result.Grade,
			Incomplete: result.Incomplete,
		})
	}

	return dto.MarkSheetResponse{
		Subject: dto.NewSubjectResponse(subject),
		Rows:    rows,
		Summary: evaluation.SummarizeSubject(results),
	}, nil
}
