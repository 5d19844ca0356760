package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

// StaffDashboardService aggregates the whole roster for staff.
type StaffDashboardService interface {
	GetDashboard(ctx context.Context) (dto.StaffDashboardResponse, bool, error)
}

type staffDashboardService struct {
	students   repository.StudentRepository
	subjects   repository.SubjectRepository
	marks      repository.MarkRepository
	attendance repository.AttendanceRepository
	cache      dashboardCache
	logger     zerolog.Logger
}

// NewStaffDashboardService builds the roster aggregator.
func NewStaffDashboardService(
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	marks repository.MarkRepository,
	attendance repository.AttendanceRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) StaffDashboardService {
	componentLogger := logger.With().Str("component", "staff_dashboard_service").Logger()
	return &staffDashboardService{
		students:   students,
		subjects:   subjects,
		marks:      marks,
		attendance: attendance,
		cache:      newDashboardCache(cache, ttl, componentLogger),
		logger:     componentLogger,
	}
}

func (s *staffDashboardService) GetDashboard(ctx context.Context) (dto.StaffDashboardResponse, bool, error) {
	var cached dto.StaffDashboardResponse
	if s.cache.get(ctx, staffDashboardKey, &cached) {
		s.logger.Debug().Msg("staff dashboard cache hit")
		return cached, true, nil
	}

	tracer := otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.staff")
	defer span.End()

	students, err := s.students.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.StaffDashboardResponse{}, false, err
	}

	subjects, err := s.subjects.List(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.StaffDashboardResponse{}, false, err
	}

	enrollments, err := s.subjects.Enrollments(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.StaffDashboardResponse{}, false, err
	}

	marks, err := s.marks.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.StaffDashboardResponse{}, false, err
	}

	sessions, err := s.attendance.List(ctx, repository.AttendanceFilter{})
	if err != nil {
		span.RecordError(err)
		return dto.StaffDashboardResponse{}, false, err
	}

	subjectByID := make(map[uint]models.Subject, len(subjects))
	for _, subject := range subjects {
		subjectByID[subject.ID] = subject
	}

	enrolled := make(map[uint][]models.Subject, len(students))
	for _, enrollment := range enrollments {
		if subject, ok := subjectByID[enrollment.SubjectID]; ok {
			enrolled[enrollment.StudentID] = append(enrolled[enrollment.StudentID], subject)
		}
	}

	marksByStudent := make(map[uint][]models.Mark, len(students))
	for _, mark := range marks {
		marksByStudent[mark.StudentID] = append(marksByStudent[mark.StudentID], mark)
	}

	sessionsByStudent := make(map[uint][]models.Attendance, len(students))
	for _, session := range sessions {
		sessionsByStudent[session.StudentID] = append(sessionsByStudent[session.StudentID], session)
	}

	rows := make([]dto.RosterRow, 0, len(students))
	records := make([]evaluation.StudentRecord, 0, len(students))
	for _, student := range students {
		record, err := evaluateStudent(student, enrolled[student.ID], marksByStudent[student.ID], sessionsByStudent[student.ID])
		if err != nil {
			span.RecordError(err)
			return dto.StaffDashboardResponse{}, false, err
		}
		reportWarnings(s.logger, student.ID, record.Results)

		records = append(records, evaluation.StudentRecord{
			StudentID:  student.ID,
			Results:    record.Results,
			Attendance: record.Attendance,
		})
		rows = append(rows, dto.RosterRow{
			StudentID:  student.ID,
			RegNumber:  student.RegNumber,
			Name:       student.Name,
			Department: student.Department,
			Semester:   student.Semester,
			CGPA:       record.Summary.CGPA,
			Attendance: record.Summary.OverallAttendancePercentage,
			Passed:     evaluation.Passed(record.Results),
		})
	}

	span.SetAttributes(attribute.Int("dashboard.students", len(students)))

	response := dto.StaffDashboardResponse{
		TotalStudents:   len(students),
		SubjectsHandled: len(subjects),
		Summary:         evaluation.SummarizeRoster(records),
		Students:        rows,
	}

	s.cache.set(ctx, staffDashboardKey, response)

	return response, false, nil
}
