package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// SubjectRepository persists subjects and student enrollments.
type SubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Subject, error)
	ListStudents(ctx context.Context, subjectID uint) ([]models.Student, error)
	ReplaceEnrollments(ctx context.Context, studentID uint, subjectIDs []uint) error
	IsEnrolled(ctx context.Context, studentID, subjectID uint) (bool, error)
	Enrollments(ctx context.Context) ([]models.StudentSubject, error)
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs the subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *subjectRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Subject, error) {
	if len(ids) == 0 {
		return []models.Subject{}, nil
	}
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("code ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	subject.Code = strings.ToUpper(strings.TrimSpace(subject.Code))
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.WithContext(ctx).
		Joins("JOIN student_subjects ON student_subjects.subject_id = subjects.id").
		Where("student_subjects.student_id = ?", studentID).
		Order("subjects.code ASC").
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListStudents(ctx context.Context, subjectID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Joins("JOIN student_subjects ON student_subjects.student_id = students.id").
		Where("student_subjects.subject_id = ?", subjectID).
		Order("students.reg_number ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *subjectRepository) ReplaceEnrollments(ctx context.Context, studentID uint, subjectIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceEnrollments(tx, studentID, subjectIDs)
	})
}

func (r *subjectRepository) IsEnrolled(ctx context.Context, studentID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StudentSubject{}).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Count(&count).Error
	return count > 0, err
}

// Enrollments returns every enrollment of an active student.
func (r *subjectRepository) Enrollments(ctx context.Context) ([]models.StudentSubject, error) {
	var rows []models.StudentSubject
	err := r.db.WithContext(ctx).
		Joins("JOIN students ON students.id = student_subjects.student_id AND students.deleted_at IS NULL").
		Order("student_subjects.student_id ASC, student_subjects.subject_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func replaceEnrollments(tx *gorm.DB, studentID uint, subjectIDs []uint) error {
	if err := tx.Where("student_id = ?", studentID).Delete(&models.StudentSubject{}).Error; err != nil {
		return err
	}

	seen := make(map[uint]struct{}, len(subjectIDs))
	rows := make([]models.StudentSubject, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.StudentSubject{StudentID: studentID, SubjectID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit("Student", "Subject").Create(&rows).Error
}
