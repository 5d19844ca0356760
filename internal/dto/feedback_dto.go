package dto

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// FeedbackCreateRequest captures staff feedback for a student.
type FeedbackCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	SubjectID uint   `json:"subject_id" validate:"required,gt=0"`
	Rating    string `json:"rating" validate:"required,oneof=outstanding excellent good average poor"`
	Comment   string `json:"comment" validate:"required,min=10,max=2000"`
}

// FeedbackListRequest filters feedback history.
type FeedbackListRequest struct {
	StudentID uint
	SubjectID uint
	Page      int
	PageSize  int
}

// FeedbackResponse serializes a feedback entry.
type FeedbackResponse struct {
	ID        uint            `json:"id"`
	StudentID uint            `json:"student_id"`
	Subject   SubjectResponse `json:"subject"`
	StaffName string          `json:"staff_name"`
	Rating    string          `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
}

// FeedbackListResponse wraps paginated feedback.
type FeedbackListResponse struct {
	Items      []FeedbackResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewFeedbackResponse converts a feedback model.
func NewFeedbackResponse(feedback models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        feedback.ID,
		StudentID: feedback.StudentID,
		Subject:   NewSubjectResponse(feedback.Subject),
		StaffName: feedback.Staff.Name,
		Rating:    feedback.Rating,
		Comment:   feedback.Comment,
		CreatedAt: feedback.CreatedAt,
	}
}
