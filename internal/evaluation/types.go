// Package evaluation derives grades, attendance percentages and CGPA from raw
// academic rows. Every function is pure: inputs are never mutated and nothing
// is cached, so the package is safe to call from concurrent requests.
package evaluation

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingSubjectID is returned when a subject without an identifier is
// passed to a builder. It signals a caller bug rather than bad data.
var ErrMissingSubjectID = errors.New("evaluation: subject id is required")

// ExamType distinguishes the two score components of a subject.
type ExamType string

const (
	ExamInternal ExamType = "internal"
	ExamExternal ExamType = "external"
)

// Valid returns true when the exam type is supported.
func (e ExamType) Valid() bool {
	return e == ExamInternal || e == ExamExternal
}

// AttendanceStatus is the outcome of a single class session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is supported.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Subject is immutable reference data.
type Subject struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// MarkRecord is a single stored score for one exam component.
type MarkRecord struct {
	StudentID uint     `json:"student_id"`
	SubjectID uint     `json:"subject_id"`
	ExamType  ExamType `json:"exam_type"`
	Score     int      `json:"score"`
}

// AttendanceRecord is one class session for one student.
type AttendanceRecord struct {
	StudentID uint             `json:"student_id"`
	SubjectID uint             `json:"subject_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

// WarningKind classifies recoverable data issues found while evaluating.
type WarningKind string

const (
	WarningDuplicateMark   WarningKind = "duplicate_mark"
	WarningOutOfRangeScore WarningKind = "out_of_range_score"
	WarningUnknownExamType WarningKind = "unknown_exam_type"
)

// Warning describes a data issue that was resolved by a documented default.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	SubjectID uint        `json:"subject_id"`
	ExamType  ExamType    `json:"exam_type,omitempty"`
	Message   string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// SubjectResult is the evaluated outcome for one subject.
// Callers must check Incomplete before presenting Total as final.
type SubjectResult struct {
	SubjectID  uint      `json:"subject_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Internal   int       `json:"internal"`
	External   int       `json:"external"`
	Total      int       `json:"total"`
	Grade      Grade     `json:"grade"`
	Incomplete bool      `json:"incomplete"`
	Clamped    bool      `json:"clamped"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// AttendanceSummary aggregates the sessions of one subject.
type AttendanceSummary struct {
	SubjectID       uint   `json:"subject_id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	TotalClasses    int    `json:"total_classes"`
	AttendedClasses int    `json:"attended_classes"`
	Percentage      int    `json:"percentage"`
}

// StudentSummary aggregates a student's results across subjects.
type StudentSummary struct {
	CGPA                        float64 `json:"cgpa"`
	OverallPercentage           float64 `json:"overall_percentage"`
	OverallAttendancePercentage int     `json:"overall_attendance_percentage"`
	TotalSubjects               int     `json:"total_subjects"`
	TotalMarks                  int     `json:"total_marks"`
	IncompleteSubjects          int     `json:"incomplete_subjects"`
}

// StudentRecord bundles one roster member's evaluated rows.
type StudentRecord struct {
	StudentID  uint
	Results    []SubjectResult
	Attendance []AttendanceSummary
}

// RosterSummary aggregates the students visible to a staff view.
type RosterSummary struct {
	TotalStudents     int           `json:"total_students"`
	AverageCGPA       float64       `json:"average_cgpa"`
	AverageAttendance int           `json:"average_attendance"`
	PassCount         int           `json:"pass_count"`
	PassRate          float64       `json:"pass_rate"`
	HighestTotal      int           `json:"highest_total"`
	GradeDistribution map[Grade]int `json:"grade_distribution"`
}

// SubjectClassSummary holds class statistics for a single subject.
type SubjectClassSummary struct {
	Evaluated    int     `json:"evaluated"`
	AverageTotal float64 `json:"average_total"`
	HighestTotal int     `json:"highest_total"`
	PassCount    int     `json:"pass_count"`
	PassRate     int     `json:"pass_rate"`
}

// GradeShare is a slice of the grade distribution chart.
type GradeShare struct {
	Grade      Grade   `json:"grade"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
