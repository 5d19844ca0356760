package models

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
)

// Attendance stores whether a student attended a subject session on a date.
type Attendance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_attendance_student_subject_date" json:"student_id"`
	SubjectID  uint      `gorm:"not null;uniqueIndex:idx_attendance_student_subject_date;index" json:"subject_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_student_subject_date" json:"date"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	RecordedBy uint      `json:"recorded_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the singular table name used by the portal.
func (Attendance) TableName() string {
	return "attendance"
}

// Record converts the row into an evaluation attendance record.
func (a Attendance) Record() evaluation.AttendanceRecord {
	return evaluation.AttendanceRecord{
		StudentID: a.StudentID,
		SubjectID: a.SubjectID,
		Date:      a.Date,
		Status:    evaluation.AttendanceStatus(a.Status),
	}
}

// AttendanceRecords converts a list of rows.
func AttendanceRecords(rows []Attendance) []evaluation.AttendanceRecord {
	records := make([]evaluation.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records
}
