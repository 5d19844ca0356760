package models

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
)

// Mark stores one exam component score for a student in a subject.
type Mark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_marks_student_subject_exam" json:"student_id"`
	SubjectID  uint      `gorm:"not null;uniqueIndex:idx_marks_student_subject_exam;index" json:"subject_id"`
	ExamType   string    `gorm:"size:16;not null;uniqueIndex:idx_marks_student_subject_exam" json:"exam_type"`
	Score      int       `gorm:"not null" json:"score"`
	RecordedBy uint      `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Record converts the row into an evaluation mark.
func (m Mark) Record() evaluation.MarkRecord {
	return evaluation.MarkRecord{
		StudentID: m.StudentID,
		SubjectID: m.SubjectID,
		ExamType:  evaluation.ExamType(m.ExamType),
		Score:     m.Score,
	}
}

// MarkRecords converts a list of rows.
func MarkRecords(marks []Mark) []evaluation.MarkRecord {
	records := make([]evaluation.MarkRecord, 0, len(marks))
	for _, mark := range marks {
		records = append(records, mark.Record())
	}
	return records
}
