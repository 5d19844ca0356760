package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// MarkRepository persists exam component scores.
type MarkRepository interface {
	Upsert(ctx context.Context, marks []models.Mark) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Mark, error)
	ListBySubject(ctx context.Context, subjectID uint) ([]models.Mark, error)
	ListAll(ctx context.Context) ([]models.Mark, error)
}

type markRepository struct {
	db *gorm.DB
}

// NewMarkRepository constructs the mark repository.
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &markRepository{db: db}
}

// Upsert writes one row per (student, subject, exam type), replacing the score
// of an existing row.
func (r *markRepository) Upsert(ctx context.Context, marks []models.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "exam_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "recorded_by", "updated_at"}),
	}).Create(&marks).Error
}

func (r *markRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Mark, error) {
	return r.find(r.db.WithContext(ctx).Where("student_id = ?", studentID))
}

func (r *markRepository) ListBySubject(ctx context.Context, subjectID uint) ([]models.Mark, error) {
	return r.find(r.db.WithContext(ctx).Where("subject_id = ?", subjectID))
}

func (r *markRepository) ListAll(ctx context.Context) ([]models.Mark, error) {
	return r.find(r.db.WithContext(ctx))
}

// Rows come back in insertion order so the first record of a duplicate pair
// is the oldest one.
func (r *markRepository) find(query *gorm.DB) ([]models.Mark, error) {
	var marks []models.Mark
	if err := query.Order("id ASC").Find(&marks).Error; err != nil {
		return nil, err
	}
	return marks, nil
}
