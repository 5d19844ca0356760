package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// AttendanceFilter narrows attendance queries.
type AttendanceFilter struct {
	StudentID uint
	SubjectID uint
	Date      *time.Time
}

// AttendanceRepository persists attendance sessions.
type AttendanceRepository interface {
	Upsert(ctx context.Context, rows []models.Attendance) error
	List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs the attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert writes one row per (student, subject, date), replacing the status of
// an existing session.
func (r *attendanceRepository) Upsert(ctx context.Context, rows []models.Attendance) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "recorded_by", "updated_at"}),
	}).Create(&rows).Error
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}

	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}

	var rows []models.Attendance
	if err := query.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
