package models

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
)

// Subject is a course students can be enrolled in.
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reference converts the subject into the evaluation reference type.
func (s Subject) Reference() evaluation.Subject {
	return evaluation.Subject{ID: s.ID, Code: s.Code, Name: s.Name}
}

// SubjectReferences converts a list of subjects.
func SubjectReferences(subjects []Subject) []evaluation.Subject {
	refs := make([]evaluation.Subject, 0, len(subjects))
	for _, subject := range subjects {
		refs = append(refs, subject.Reference())
	}
	return refs
}

// StudentSubject links a student to a subject they are enrolled in.
type StudentSubject struct {
	StudentID uint      `gorm:"primaryKey" json:"student_id"`
	SubjectID uint      `gorm:"primaryKey;index" json:"subject_id"`
	CreatedAt time.Time `json:"created_at"`
	Student   Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Subject   Subject   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
