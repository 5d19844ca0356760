package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// FeedbackFilter narrows feedback history queries.
type FeedbackFilter struct {
	StudentID uint
	SubjectID uint
	Page      int
	PageSize  int
}

// FeedbackRepository persists staff feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, int64, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs the feedback repository.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Omit("Subject", "Staff").Create(feedback).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Subject").Preload("Staff").First(feedback, feedback.ID).Error
}

func (r *feedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Feedback{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var entries []models.Feedback
	err := query.Preload("Subject").Preload("Staff").
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
