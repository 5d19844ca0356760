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

const recentFeedbackLimit = 3

// Attendance standing labels.
const (
	AttendanceExcellent        = "Excellent"
	AttendanceGood             = "Good"
	AttendanceNeedsImprovement = "Needs Improvement"
)

// StudentDashboardService produces a student's academic views.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, bool, error)
	Marks(ctx context.Context, studentID uint) (dto.StudentMarksResponse, error)
	Attendance(ctx context.Context, studentID uint) (dto.StudentAttendanceResponse, error)
	Graphs(ctx context.Context, studentID uint) (dto.StudentGraphsResponse, error)
}

type studentDashboardService struct {
	records  academicRecords
	feedback repository.FeedbackRepository
	cache    dashboardCache
	logger   zerolog.Logger
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	marks repository.MarkRepository,
	attendance repository.AttendanceRepository,
	feedback repository.FeedbackRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) StudentDashboardService {
	componentLogger := logger.With().Str("component", "student_dashboard_service").Logger()
	return &studentDashboardService{
		records: academicRecords{
			students:   students,
			subjects:   subjects,
			marks:      marks,
			attendance: attendance,
			logger:     componentLogger,
		},
		feedback: feedback,
		cache:    newDashboardCache(cache, ttl, componentLogger),
		logger:   componentLogger,
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, bool, error) {
	cacheKey := studentDashboardKey(studentID)

	var cached dto.StudentDashboardResponse
	if s.cache.get(ctx, cacheKey, &cached) {
		s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
		return cached, true, nil
	}

	tracer := otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.student")
	span.SetAttributes(attribute.Int64("dashboard.student_id", int64(studentID)))
	defer span.End()

	record, err := s.records.load(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentDashboardResponse{}, false, err
	}

	feedback, _, err := s.feedback.List(ctx, repository.FeedbackFilter{StudentID: studentID, Page: 1, PageSize: recentFeedbackLimit})
	if err != nil {
		span.RecordError(err)
		return dto.StudentDashboardResponse{}, false, err
	}

	recent := make([]dto.FeedbackResponse, 0, len(feedback))
	for _, item := range feedback {
		recent = append(recent, dto.NewFeedbackResponse(item))
	}

	response := dto.StudentDashboardResponse{
		Student:          dto.NewStudentResponse(record.Student),
		Summary:          record.Summary,
		Subjects:         record.Results,
		Attendance:       record.Attendance,
		BestSubject:      bestSubject(record.Results),
		AverageGrade:     evaluation.AverageGrade(record.Results),
		AttendanceStatus: AttendanceStanding(record.Summary.OverallAttendancePercentage),
		RecentFeedback:   recent,
	}

	s.cache.set(ctx, cacheKey, response)

	return response, false, nil
}

func (s *studentDashboardService) Marks(ctx context.Context, studentID uint) (dto.StudentMarksResponse, error) {
	record, err := s.records.load(ctx, studentID)
	if err != nil {
		return dto.StudentMarksResponse{}, err
	}

	return dto.StudentMarksResponse{
		Results: record.Results,
		Summary: record.Summary,
	}, nil
}

func (s *studentDashboardService) Attendance(ctx context.Context, studentID uint) (dto.StudentAttendanceResponse, error) {
	record, err := s.records.load(ctx, studentID)
	if err != nil {
		return dto.StudentAttendanceResponse{}, err
	}

	subjects := make(map[uint]models.Subject, len(record.Subjects))
	for _, subject := range record.Subjects {
		subjects[subject.ID] = subject
	}

	// Newest sessions first; sessions of subjects no longer assigned are kept.
	sessions := make([]dto.AttendanceLogRow, 0, len(record.Sessions))
	for i := len(record.Sessions) - 1; i >= 0; i-- {
		session := record.Sessions[i]
		subject := subjects[session.SubjectID]
		sessions = append(sessions, dto.AttendanceLogRow{
			Date:        session.Date,
			SubjectCode: subject.Code,
			SubjectName: subject.Name,
			Status:      session.Status,
		})
	}

	overall := record.Summary.OverallAttendancePercentage
	return dto.StudentAttendanceResponse{
		Subjects: record.Attendance,
		Overall:  overall,
		Status:   AttendanceStanding(overall),
		Sessions: sessions,
	}, nil
}

func (s *studentDashboardService) Graphs(ctx context.Context, studentID uint) (dto.StudentGraphsResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/academic-evaluator-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.student_graphs")
	span.SetAttributes(attribute.Int64("dashboard.student_id", int64(studentID)))
	defer span.End()

	record, err := s.records.load(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return dto.StudentGraphsResponse{}, err
	}

	marks := make([]dto.MarkChartPoint, 0, len(record.Results))
	for _, result := range record.Results {
		marks = append(marks, dto.MarkChartPoint{
			Subject:  result.Code,
			Name:     result.Name,
			Internal: result.Internal,
			External: result.External,
			Total:    result.Total,
		})
	}

	attendance := make([]dto.AttendanceChartPoint, 0, len(record.Attendance))
	var bestAttendance *dto.SubjectHighlight
	for _, summary := range record.Attendance {
		attendance = append(attendance, dto.AttendanceChartPoint{
			Subject:    summary.Code,
			Name:       summary.Name,
			Percentage: summary.Percentage,
		})
		if bestAttendance == nil || summary.Percentage > bestAttendance.Value {
			bestAttendance = &dto.SubjectHighlight{
				SubjectID: summary.SubjectID,
				Code:      summary.Code,
				Name:      summary.Name,
				Value:     summary.Percentage,
			}
		}
	}

	return dto.StudentGraphsResponse{
		Marks:             marks,
		Attendance:        attendance,
		GradeDistribution: evaluation.GradeDistribution(record.Results),
		HighestScore:      bestSubject(record.Results),
		BestAttendance:    bestAttendance,
		Summary:           record.Summary,
	}, nil
}

// AttendanceStanding labels an overall attendance percentage.
func AttendanceStanding(percentage int) string {
	switch {
	case percentage >= 85:
		return AttendanceExcellent
	case percentage >= 75:
		return AttendanceGood
	default:
		return AttendanceNeedsImprovement
	}
}

func bestSubject(results []evaluation.SubjectResult) *dto.SubjectHighlight {
	index := evaluation.Best(results)
	if index < 0 {
		return nil
	}
	best := results[index]
	return &dto.SubjectHighlight{
		SubjectID: best.SubjectID,
		Code:      best.Code,
		Name:      best.Name,
		Value:     best.Total,
		Grade:     best.Grade,
	}
}
