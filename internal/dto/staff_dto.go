package dto

import (
	"math"
	"time"

	"gorm.io/datatypes"

	"github.com/noah-isme/academic-evaluator-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta computes the page count for a result set. A zero page
// size means the whole set was returned on one page.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	pagination := PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: 1}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return pagination
}

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	Page       int
	PageSize   int
	Search     string
	Department string
	Semester   int
}

// StudentCreateRequest captures the create-student form.
type StudentCreateRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	RegNumber  string `json:"reg_number" validate:"omitempty,alphanum,min=3,max=32"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Semester   int    `json:"semester" validate:"required,min=1,max=8"`
	SubjectIDs []uint `json:"subject_ids" validate:"required,min=1,dive,gt=0"`
}

// StudentUpdateRequest captures partial update payloads for students.
type StudentUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department *string `json:"department" validate:"omitempty,min=1"`
	Semester   *int    `json:"semester" validate:"omitempty,min=1,max=8"`
}

// StudentResponse serializes a student record.
type StudentResponse struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"user_id"`
	RegNumber  string    `json:"reg_number"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Semester   int       `json:"semester"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StudentDetailResponse adds the enrolled subjects.
type StudentDetailResponse struct {
	StudentResponse
	Subjects []SubjectResponse `json:"subjects"`
}

// StudentCreatedResponse is returned after creating a student together with
// its login account.
type StudentCreatedResponse struct {
	Student         StudentDetailResponse `json:"student"`
	InitialPassword string                `json:"initial_password"`
}

// StudentListResponse wraps a paginated student response.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:         student.ID,
		UserID:     student.UserID,
		RegNumber:  student.RegNumber,
		Name:       student.Name,
		Email:      student.Email,
		Department: student.Department,
		Semester:   student.Semester,
		CreatedAt:  student.CreatedAt,
		UpdatedAt:  student.UpdatedAt,
	}
}

// NewStudentDetailResponse converts a student and its subjects.
func NewStudentDetailResponse(student models.Student, subjects []models.Subject) StudentDetailResponse {
	return StudentDetailResponse{
		StudentResponse: NewStudentResponse(student),
		Subjects:        NewSubjectResponses(subjects),
	}
}

// ActivityListRequest defines filters for retrieving activity logs.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	ActorID    uint
	Action     string
	EntityType string
}

// ActivityResponse serializes activity log entries.
type ActivityResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ActivityListResponse wraps paginated activity logs.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

func metadataFromJSON(data datatypes.JSONMap) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		result[key] = value
	}
	return result
}

// NewActivityResponse converts a model into an activity DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorRole:  entry.ActorRole,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadataFromJSON(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
}
