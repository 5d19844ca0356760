package dto

import "github.com/noah-isme/academic-evaluator-api/internal/evaluation"

// StudentDashboardResponse aggregates a student's academic standing.
type StudentDashboardResponse struct {
	Student          StudentResponse                `json:"student"`
	Summary          evaluation.StudentSummary      `json:"summary"`
	Subjects         []evaluation.SubjectResult     `json:"subjects"`
	Attendance       []evaluation.AttendanceSummary `json:"attendance"`
	BestSubject      *SubjectHighlight              `json:"best_subject"`
	AverageGrade     evaluation.Grade               `json:"average_grade"`
	AttendanceStatus string                         `json:"attendance_status"`
	RecentFeedback   []FeedbackResponse             `json:"recent_feedback"`
}

// SubjectHighlight names a standout subject and the value that earned it.
type SubjectHighlight struct {
	SubjectID uint             `json:"subject_id"`
	Code      string           `json:"code"`
	Name      string           `json:"name"`
	Value     int              `json:"value"`
	Grade     evaluation.Grade `json:"grade,omitempty"`
}

// StudentMarksResponse is the marks table of a student.
type StudentMarksResponse struct {
	Results []evaluation.SubjectResult `json:"results"`
	Summary evaluation.StudentSummary  `json:"summary"`
}

// StudentAttendanceResponse is the attendance table of a student.
type StudentAttendanceResponse struct {
	Subjects []evaluation.AttendanceSummary `json:"subjects"`
	Overall  int                            `json:"overall"`
	Status   string                         `json:"status"`
	Sessions []AttendanceLogRow             `json:"sessions"`
}

// MarkChartPoint is one bar of the marks chart.
type MarkChartPoint struct {
	Subject  string `json:"subject"`
	Name     string `json:"name"`
	Internal int    `json:"internal"`
	External int    `json:"external"`
	Total    int    `json:"total"`
}

// AttendanceChartPoint is one bar of the attendance chart.
type AttendanceChartPoint struct {
	Subject    string `json:"subject"`
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// StudentGraphsResponse feeds the performance charts.
type StudentGraphsResponse struct {
	Marks             []MarkChartPoint          `json:"marks"`
	Attendance        []AttendanceChartPoint    `json:"attendance"`
	GradeDistribution []evaluation.GradeShare   `json:"grade_distribution"`
	HighestScore      *SubjectHighlight         `json:"highest_score"`
	BestAttendance    *SubjectHighlight         `json:"best_attendance"`
	Summary           evaluation.StudentSummary `json:"summary"`
}

// RosterRow is one student on the staff dashboard.
type RosterRow struct {
	StudentID  uint    `json:"student_id"`
	RegNumber  string  `json:"reg_number"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Semester   int     `json:"semester"`
	CGPA       float64 `json:"cgpa"`
	Attendance int     `json:"attendance"`
	Passed     bool    `json:"passed"`
}

// StaffDashboardResponse aggregates the whole roster.
type StaffDashboardResponse struct {
	TotalStudents   int                      `json:"total_students"`
	SubjectsHandled int                      `json:"subjects_handled"`
	Summary         evaluation.RosterSummary `json:"summary"`
	Students        []RosterRow              `json:"students"`
}
