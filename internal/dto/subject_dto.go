package dto

import "github.com/noah-isme/academic-evaluator-api/internal/models"

// SubjectCreateRequest captures a new subject.
type SubjectCreateRequest struct {
	Code string `json:"code" validate:"required,alphanum,min=2,max=32"`
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// EnrollmentRequest replaces the subjects a student is enrolled in.
type EnrollmentRequest struct {
	SubjectIDs []uint `json:"subject_ids" validate:"required,min=1,dive,gt=0"`
}

// SubjectResponse serializes a subject.
type SubjectResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSubjectResponse converts a subject model.
func NewSubjectResponse(subject models.Subject) SubjectResponse {
	return SubjectResponse{ID: subject.ID, Code: subject.Code, Name: subject.Name}
}

// NewSubjectResponses converts a list of subject models.
func NewSubjectResponses(subjects []models.Subject) []SubjectResponse {
	items := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		items = append(items, NewSubjectResponse(subject))
	}
	return items
}

// SubjectRosterResponse lists the students enrolled in a subject.
type SubjectRosterResponse struct {
	Subject  SubjectResponse   `json:"subject"`
	Students []StudentResponse `json:"students"`
}
