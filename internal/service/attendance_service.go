package service

import (
	"context"
	"errors"
	"time"

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

const dateLayout = "2006-01-02"

// AttendanceService records class sessions.
type AttendanceService interface {
	Record(ctx context.Context, req dto.AttendanceRequest, actor ActivityActor) (dto.AttendanceSaveResponse, error)
	Sheet(ctx context.Context, subjectID uint, date string) (dto.AttendanceSheetResponse, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	subjects   repository.SubjectRepository
	validator  *validator.Validate
	activity   ActivityRecorder
	notifier   AcademicNotifier
	logger     zerolog.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(attendance repository.AttendanceRepository, subjects repository.SubjectRepository, validate *validator.Validate, activity ActivityRecorder, notifier AcademicNotifier, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		attendance: attendance,
		subjects:   subjects,
		validator:  validate,
		activity:   activity,
		notifier:   notifierOrNoop(notifier),
		logger:     logger.With().Str("component", "attendance_service").Logger(),
	}
}

// Record saves a session for the whole roster. Every enrolled student must be
// marked; saving the same date again replaces the earlier statuses.
func (s *attendanceService) Record(ctx context.Context, req dto.AttendanceRequest, actor ActivityActor) (dto.AttendanceSaveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AttendanceSaveResponse{}, err
	}

	date, err := parseSessionDate(req.Date)
	if err != nil {
		return dto.AttendanceSaveResponse{}, err
	}

	tracer := otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/attendance")
	ctx, span := tracer.Start(ctx, "attendance.record")
	span.SetAttributes(
		attribute.Int64("attendance.subject_id", int64(req.SubjectID)),
		attribute.String("attendance.date", req.Date),
	)
	defer span.End()

	subject, err := s.subjects.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceSaveResponse{}, ErrSubjectNotFound
		}
		span.RecordError(err)
		return dto.AttendanceSaveResponse{}, err
	}

	roster, err := s.subjects.ListStudents(ctx, subject.ID)
	if err != nil {
		span.RecordError(err)
		return dto.AttendanceSaveResponse{}, err
	}

	entryIDs := make([]uint, 0, len(req.Entries))
	marked := make(map[uint]bool, len(req.Entries))
	for _, entry := range req.Entries {
		entryIDs = append(entryIDs, entry.StudentID)
		if entry.Present != nil {
			marked[entry.StudentID] = *entry.Present
		}
	}

	if _, err := validateRosterEntries(roster, entryIDs); err != nil {
		return dto.AttendanceSaveResponse{}, err
	}

	unmarked := make([]uint, 0)
	for _, student := range roster {
		if _, ok := marked[student.ID]; !ok {
			unmarked = append(unmarked, student.ID)
		}
	}
	if len(unmarked) > 0 {
		return dto.AttendanceSaveResponse{}, &EntriesError{Err: ErrIncompleteAttendance, StudentIDs: unmarked}
	}

	rows := make([]models.Attendance, 0, len(roster))
	events := make([]AcademicEvent, 0, len(roster))
	present := 0
	for _, student := range roster {
		status := evaluation.StatusAbsent
		if marked[student.ID] {
			status = evaluation.StatusPresent
			present++
		}
		rows = append(rows, models.Attendance{
			StudentID:  student.ID,
			SubjectID:  subject.ID,
			Date:       date,
			Status:     string(status),
			RecordedBy: actor.ID,
		})
		events = append(events, AcademicEvent{Type: EventAttendanceUpdated, StudentID: student.ID, SubjectID: subject.ID})
	}

	if err := s.attendance.Upsert(ctx, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert_attendance_failed")
		return dto.AttendanceSaveResponse{}, err
	}

	total := len(rows)
	response := dto.AttendanceSaveResponse{
		SubjectID:  subject.ID,
		Date:       req.Date,
		Present:    present,
		Absent:     total - present,
		Total:      total,
		Percentage: evaluation.Percentage(present, total),
	}

	recordActivity(ctx, s.activity, s.logger, actor, "attendance.recorded", "subject", subject.ID, map[string]interface{}{
		"date":    req.Date,
		"present": response.Present,
		"absent":  response.Absent,
	})
	s.notifier.Publish(ctx, events...)

	return response, nil
}

func (s *attendanceService) Sheet(ctx context.Context, subjectID uint, date string) (dto.AttendanceSheetResponse, error) {
	day, err := parseSessionDate(date)
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceSheetResponse{}, ErrSubjectNotFound
		}
		return dto.AttendanceSheetResponse{}, err
	}

	roster, err := s.subjects.ListStudents(ctx, subjectID)
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	rows, err := s.attendance.List(ctx, repository.AttendanceFilter{SubjectID: subjectID, Date: &day})
	if err != nil {
		return dto.AttendanceSheetResponse{}, err
	}

	statuses := make(map[uint]string, len(rows))
	for _, row := range rows {
		statuses[row.StudentID] = row.Status
	}

	sheet := make([]dto.AttendanceSheetRow, 0, len(roster))
	for _, student := range roster {
		sheet = append(sheet, dto.AttendanceSheetRow{
			StudentID: student.ID,
			RegNumber: student.RegNumber,
			Name:      student.Name,
			Status:    statuses[student.ID],
		})
	}

	return dto.AttendanceSheetResponse{
		Subject: dto.NewSubjectResponse(subject),
		Date:    day.Format(dateLayout),
		Rows:    sheet,
	}, nil
}

func parseSessionDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}
