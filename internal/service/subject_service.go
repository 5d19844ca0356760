package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

// SubjectService manages subjects and the subjects each student takes.
type SubjectService interface {
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Create(ctx context.Context, req dto.SubjectCreateRequest, actor ActivityActor) (dto.SubjectResponse, error)
	StudentSubjects(ctx context.Context, studentID uint) ([]dto.SubjectResponse, error)
	AssignSubjects(ctx context.Context, studentID uint, req dto.EnrollmentRequest, actor ActivityActor) (dto.StudentDetailResponse, error)
	Roster(ctx context.Context, subjectID uint) (dto.SubjectRosterResponse, error)
}

type subjectService struct {
	subjects  repository.SubjectRepository
	students  repository.StudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	notifier  AcademicNotifier
	logger    zerolog.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(subjects repository.SubjectRepository, students repository.StudentRepository, validate *validator.Validate, activity ActivityRecorder, notifier AcademicNotifier, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjects:  subjects,
		students:  students,
		validator: validate,
		activity:  activity,
		notifier:  notifierOrNoop(notifier),
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponses(subjects), nil
}

func (s *subjectService) Create(ctx context.Context, req dto.SubjectCreateRequest, actor ActivityActor) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{Code: req.Code, Name: strings.TrimSpace(req.Name)}
	if err := s.subjects.Create(ctx, &subject); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubjectResponse{}, ErrDuplicateSubject
		}
		return dto.SubjectResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "subject.created", "subject", subject.ID, map[string]interface{}{"code": subject.Code})
	s.notifier.Invalidate(ctx)
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) StudentSubjects(ctx context.Context, studentID uint) ([]dto.SubjectResponse, error) {
	if err := s.ensureStudent(ctx, studentID); err != nil {
		return nil, err
	}

	subjects, err := s.subjects.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponses(subjects), nil
}

// AssignSubjects replaces the enrollment set of a student.
func (s *subjectService) AssignSubjects(ctx context.Context, studentID uint, req dto.EnrollmentRequest, actor ActivityActor) (dto.StudentDetailResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentDetailResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDetailResponse{}, ErrStudentNotFound
		}
		return dto.StudentDetailResponse{}, err
	}

	subjectIDs := uniqueIDs(req.SubjectIDs)
	subjects, err := s.subjects.FindByIDs(ctx, subjectIDs)
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}
	if len(subjects) != len(subjectIDs) {
		return dto.StudentDetailResponse{}, ErrSubjectNotFound
	}

	if err := s.subjects.ReplaceEnrollments(ctx, studentID, subjectIDs); err != nil {
		return dto.StudentDetailResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "enrollment.updated", "student", studentID, map[string]interface{}{"subject_ids": subjectIDs})
	s.notifier.Invalidate(ctx, studentID)

	return dto.NewStudentDetailResponse(student, subjects), nil
}

func (s *subjectService) Roster(ctx context.Context, subjectID uint) (dto.SubjectRosterResponse, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectRosterResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectRosterResponse{}, err
	}

	students, err := s.subjects.ListStudents(ctx, subjectID)
	if err != nil {
		return dto.SubjectRosterResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}
	return dto.SubjectRosterResponse{Subject: dto.NewSubjectResponse(subject), Students: items}, nil
}

func (s *subjectService) ensureStudent(ctx context.Context, studentID uint) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
