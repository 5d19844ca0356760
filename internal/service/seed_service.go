package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

// ErrSeedDisabled indicates seeding is disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

const (
	demoStaffName     = "Dr. Pittu Sharma"
	demoStaffEmail    = "admin@gmail.com"
	demoStaffPassword = "Admin@123"
	demoSemester      = 5
	demoSessionDays   = 5
)

var demoSubjects = []models.Subject{
	{Code: "CS101", Name: "Introduction to Computer Science"},
	{Code: "CS102", Name: "Data Structures and Algorithms"},
	{Code: "CS103", Name: "Database Management Systems"},
	{Code: "CS104", Name: "Web Development"},
	{Code: "CS105", Name: "Software Engineering"},
}

var demoStudents = []models.Student{
	{RegNumber: "ST2021001", Name: "Raahul Kumar", Email: "raahul.kumar@university.edu", Department: "Computer Science"},
	{RegNumber: "ST2021002", Name: "Priya Sharma", Email: "priya.sharma@university.edu", Department: "Computer Science"},
	{RegNumber: "ST2021003", Name: "Amit Patel", Email: "amit.patel@university.edu", Department: "Information Technology"},
}

var demoFirstSession = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

// SeedReport counts what a seeding run created.
type SeedReport struct {
	StaffCreated    bool `json:"staff_created"`
	SubjectsCreated int  `json:"subjects_created"`
	StudentsCreated int  `json:"students_created"`
	Marks           int  `json:"marks"`
	Sessions        int  `json:"sessions"`
}

// SeedService loads the demo portal data.
type SeedService interface {
	SeedDemo(ctx context.Context) (SeedReport, error)
}

type seedService struct {
	users           repository.UserRepository
	students        repository.StudentRepository
	subjects        repository.SubjectRepository
	marks           repository.MarkRepository
	attendance      repository.AttendanceRepository
	enabled         bool
	studentPassword string
	logger          zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(
	users repository.UserRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	marks repository.MarkRepository,
	attendance repository.AttendanceRepository,
	enabled bool,
	studentPassword string,
	logger zerolog.Logger,
) SeedService {
	return &seedService{
		users:           users,
		students:        students,
		subjects:        subjects,
		marks:           marks,
		attendance:      attendance,
		enabled:         enabled,
		studentPassword: studentPassword,
		logger:          logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedDemo creates whatever part of the demo data is missing. Marks and
// attendance are only generated for students created by this run, so staff
// edits survive a re-seed.
func (s *seedService) SeedDemo(ctx context.Context) (SeedReport, error) {
	if !s.enabled {
		return SeedReport{}, ErrSeedDisabled
	}

	report := SeedReport{}

	staff, created, err := s.ensureStaff(ctx)
	if err != nil {
		return report, err
	}
	report.StaffCreated = created

	subjects, err := s.ensureSubjects(ctx, &report)
	if err != nil {
		return report, err
	}

	subjectIDs := make([]uint, 0, len(subjects))
	for _, subject := range subjects {
		subjectIDs = append(subjectIDs, subject.ID)
	}

	hash, err := HashPassword(s.studentPassword)
	if err != nil {
		return report, fmt.Errorf("hash student password: %w", err)
	}

	for si, template := range demoStudents {
		student, created, err := s.ensureStudent(ctx, template, hash, subjectIDs)
		if err != nil {
			return report, err
		}
		if !created {
			continue
		}
		report.StudentsCreated++

		marks, sessions := demoRecords(si, student.ID, subjects, staff.ID)
		if err := s.marks.Upsert(ctx, marks); err != nil {
			return report, fmt.Errorf("seed marks for %s: %w", student.RegNumber, err)
		}
		if err := s.attendance.Upsert(ctx, sessions); err != nil {
			return report, fmt.Errorf("seed attendance for %s: %w", student.RegNumber, err)
		}
		report.Marks += len(marks)
		report.Sessions += len(sessions)
	}

	s.logger.Info().
		Bool("staff_created", report.StaffCreated).
		Int("subjects_created", report.SubjectsCreated).
		Int("students_created", report.StudentsCreated).
		Int("marks", report.Marks).
		Int("sessions", report.Sessions).
		Msg("demo data seeded")

	return report, nil
}

func (s *seedService) ensureStaff(ctx context.Context) (models.User, bool, error) {
	staff, err := s.users.GetByEmail(ctx, demoStaffEmail)
	if err == nil {
		return staff, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, err
	}

	hash, err := HashPassword(demoStaffPassword)
	if err != nil {
		return models.User{}, false, fmt.Errorf("hash staff password: %w", err)
	}

	staff = models.User{Name: demoStaffName, Email: demoStaffEmail, PasswordHash: hash, Role: models.RoleStaff}
	if err := s.users.Create(ctx, &staff); err != nil {
		return models.User{}, false, fmt.Errorf("seed staff: %w", err)
	}
	return staff, true, nil
}

func (s *seedService) ensureSubjects(ctx context.Context, report *SeedReport) ([]models.Subject, error) {
	existing, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]models.Subject, len(existing))
	for _, subject := range existing {
		byCode[subject.Code] = subject
	}

	subjects := make([]models.Subject, 0, len(demoSubjects))
	for _, template := range demoSubjects {
		if subject, ok := byCode[template.Code]; ok {
			subjects = append(subjects, subject)
			continue
		}

		subject := template
		if err := s.subjects.Create(ctx, &subject); err != nil {
			return nil, fmt.Errorf("seed subject %s: %w", template.Code, err)
		}
		report.SubjectsCreated++
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

func (s *seedService) ensureStudent(ctx context.Context, template models.Student, hash string, subjectIDs []uint) (models.Student, bool, error) {
	if user, err := s.users.GetByEmail(ctx, template.Email); err == nil {
		student, err := s.students.GetByUserID(ctx, user.ID)
		if err != nil {
			return models.Student{}, false, fmt.Errorf("load demo student %s: %w", template.RegNumber, err)
		}
		return student, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, false, err
	}

	user := models.User{Name: template.Name, Email: template.Email, PasswordHash: hash, Role: models.RoleStudent}
	student := template
	student.Semester = demoSemester
	if err := s.students.CreateWithAccount(ctx, &user, &student, subjectIDs); err != nil {
		return models.Student{}, false, fmt.Errorf("seed student %s: %w", template.RegNumber, err)
	}
	return student, true, nil
}

// demoRecords generates stable marks and a week of sessions for the si-th
// demo student.
func demoRecords(si int, studentID uint, subjects []models.Subject, staffID uint) ([]models.Mark, []models.Attendance) {
	marks := make([]models.Mark, 0, len(subjects)*2)
	sessions := make([]models.Attendance, 0, len(subjects)*demoSessionDays)

	for sj, subject := range subjects {
		marks = append(marks,
			models.Mark{StudentID: studentID, SubjectID: subject.ID, ExamType: string(evaluation.ExamInternal), Score: 60 + (si*7+sj*11)%40, RecordedBy: staffID},
			models.Mark{StudentID: studentID, SubjectID: subject.ID, ExamType: string(evaluation.ExamExternal), Score: 60 + (si*13+sj*5)%40, RecordedBy: staffID},
		)

		for day := 0; day < demoSessionDays; day++ {
			status := evaluation.StatusPresent
			if (si+sj+day)%5 == 0 {
				status = evaluation.StatusAbsent
			}
			sessions = append(sessions, models.Attendance{
				StudentID:  studentID,
				SubjectID:  subject.ID,
				Date:       demoFirstSession.AddDate(0, 0, day),
				Status:     string(status),
				RecordedBy: staffID,
			})
		}
	}
	return marks, sessions
}
