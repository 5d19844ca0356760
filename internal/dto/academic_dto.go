package dto

import (
	"time"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
)

// AttendanceEntry marks one student for a session. A nil Present means the
// student was left unmarked.
type AttendanceEntry struct {
	StudentID uint  `json:"student_id" validate:"required,gt=0"`
	Present   *bool `json:"present"`
}

// AttendanceRequest records a whole class session.
type AttendanceRequest struct {
	SubjectID uint              `json:"subject_id" validate:"required,gt=0"`
	Date      string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries   []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceSaveResponse summarises a recorded session.
type AttendanceSaveResponse struct {
	SubjectID  uint   `json:"subject_id"`
	Date       string `json:"date"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// AttendanceSheetRow is one enrolled student on an attendance sheet. Status is
// empty while the student is unmarked.
type AttendanceSheetRow struct {
	StudentID uint   `json:"student_id"`
	RegNumber string `json:"reg_number"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// AttendanceSheetResponse is the attendance of a subject on one date.
type AttendanceSheetResponse struct {
	Subject SubjectResponse      `json:"subject"`
	Date    string               `json:"date"`
	Rows    []AttendanceSheetRow `json:"rows"`
}

// MarkEntry carries both exam components for a student. Nil components are
// treated as not entered.
type MarkEntry struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	Internal  *int `json:"internal" validate:"omitempty,gte=0,lte=100"`
	External  *int `json:"external" validate:"omitempty,gte=0,lte=100"`
}

// MarksRequest records the marks of a subject.
type MarksRequest struct {
	SubjectID uint        `json:"subject_id" validate:"required,gt=0"`
	Entries   []MarkEntry `json:"entries" validate:"required,min=1,dive"`
}

// MarkSheetRow is one enrolled student on a mark sheet.
type MarkSheetRow struct {
	StudentID  uint             `json:"student_id"`
	RegNumber  string           `json:"reg_number"`
	Name       string           `json:"name"`
	Internal   int              `json:"internal"`
	External   int              `json:"external"`
	Total      int              `json:"total"`
	Grade      evaluation.Grade `json:"grade"`
	Incomplete bool             `json:"incomplete"`
}

// MarkSheetResponse is the evaluated mark sheet of a subject.
type MarkSheetResponse struct {
	Subject SubjectResponse                `json:"subject"`
	Rows    []MarkSheetRow                 `json:"rows"`
	Summary evaluation.SubjectClassSummary `json:"summary"`
}

// AttendanceLogRow is one session in a student's attendance history.
type AttendanceLogRow struct {
	Date        time.Time `json:"date"`
	SubjectCode string    `json:"subject_code"`
	SubjectName string    `json:"subject_name"`
	Status      string    `json:"status"`
}
