package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

const regNumberAttempts = 3

// StudentService orchestrates staff student management use cases.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentDetailResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest, actor ActivityActor) (dto.StudentCreatedResponse, error)
	Update(ctx context.Context, id uint, req dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentDetailResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type studentService struct {
	students        repository.StudentRepository
	subjects        repository.SubjectRepository
	validator       *validator.Validate
	activity        ActivityRecorder
	notifier        AcademicNotifier
	defaultPassword string
	logger          zerolog.Logger
	now             func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, subjects repository.SubjectRepository, validate *validator.Validate, activity ActivityRecorder, notifier AcademicNotifier, defaultPassword string, logger zerolog.Logger) StudentService {
	return &studentService{
		students:        students,
		subjects:        subjects,
		validator:       validate,
		activity:        activity,
		notifier:        notifierOrNoop(notifier),
		defaultPassword: defaultPassword,
		logger:          logger.With().Str("component", "student_service").Logger(),
		now:             time.Now,
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	filter := repository.StudentFilter{
		Search:     strings.TrimSpace(req.Search),
		Department: strings.TrimSpace(req.Department),
		Semester:   req.Semester,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}

	return dto.StudentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentDetailResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDetailResponse{}, ErrStudentNotFound
		}
		return dto.StudentDetailResponse{}, err
	}

	subjects, err := s.subjects.ListByStudent(ctx, id)
	if err != nil {
		return dto.StudentDetailResponse{}, err
	}

	return dto.NewStudentDetailResponse(student, subjects), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest, actor ActivityActor) (dto.StudentCreatedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentCreatedResponse{}, err
	}

	department, ok := canonicalDepartment(req.Department)
	if !ok {
		return dto.StudentCreatedResponse{}, ErrInvalidDepartment
	}

	subjectIDs := uniqueIDs(req.SubjectIDs)
	subjects, err := s.subjects.FindByIDs(ctx, subjectIDs)
	if err != nil {
		return dto.StudentCreatedResponse{}, err
	}
	if len(subjects) != len(subjectIDs) {
		return dto.StudentCreatedResponse{}, ErrSubjectNotFound
	}

	hash, err := HashPassword(s.defaultPassword)
	if err != nil {
		return dto.StudentCreatedResponse{}, fmt.Errorf("hash default password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	regNumber := strings.ToUpper(strings.TrimSpace(req.RegNumber))
	generated := regNumber == ""

	var student models.Student
	for attempt := 0; ; attempt++ {
		if generated {
			regNumber, err = s.nextRegNumber(ctx)
			if err != nil {
				return dto.StudentCreatedResponse{}, err
			}
		}

		user := models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleStudent}
		student = models.Student{
			RegNumber:  regNumber,
			Name:       name,
			Email:      email,
			Department: department,
			Semester:   req.Semester,
		}

		err = s.students.CreateWithAccount(ctx, &user, &student, subjectIDs)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent create may have taken the generated number.
			if generated && attempt+1 < regNumberAttempts {
				continue
			}
			return dto.StudentCreatedResponse{}, ErrDuplicateStudent
		}
		return dto.StudentCreatedResponse{}, err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "student.created", "student", student.ID, map[string]interface{}{
		"reg_number": student.RegNumber,
		"department": student.Department,
		"subjects":   len(subjectIDs),
	})
	s.notifier.Invalidate(ctx)

	return dto.StudentCreatedResponse{
		Student:         dto.NewStudentDetailResponse(student, subjects),
		InitialPassword: s.defaultPassword,
	}, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req dto.StudentUpdateRequest, actor ActivityActor) (dto.StudentDetailResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentDetailResponse{}, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		department, ok := canonicalDepartment(*req.Department)
		if !ok {
			return dto.StudentDetailResponse{}, ErrInvalidDepartment
		}
		updates["department"] = department
	}
	if req.Semester != nil {
		updates["semester"] = *req.Semester
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if _, err := s.students.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDetailResponse{}, ErrStudentNotFound
		}
		return dto.StudentDetailResponse{}, err
	}

	if _, err := s.students.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentDetailResponse{}, ErrDuplicateStudent
		}
		return dto.StudentDetailResponse{}, err
	}

	fields := make([]string, 0, len(updates))
	for key := range updates {
		fields = append(fields, key)
	}
	recordActivity(ctx, s.activity, s.logger, actor, "student.updated", "student", id, map[string]interface{}{"fields": fields})
	s.notifier.Invalidate(ctx, id)

	return s.Get(ctx, id)
}

func (s *studentService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.students.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	recordActivity(ctx, s.activity, s.logger, actor, "student.deleted", "student", id, nil)
	s.notifier.Invalidate(ctx, id)
	return nil
}

// nextRegNumber allocates ST{year}{NNN} after the highest number issued this year.
func (s *studentService) nextRegNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("ST%d", s.now().Year())
	latest, err := s.students.LatestRegNumber(ctx, prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if latest != "" {
		if current, convErr := strconv.Atoi(strings.TrimPrefix(latest, prefix)); convErr == nil {
			next = current + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, next), nil
}

func canonicalDepartment(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	for _, department := range models.Departments {
		if strings.EqualFold(department, trimmed) {
			return department, true
		}
	}
	return "", false
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
