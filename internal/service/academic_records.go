package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
	"github.com/noah-isme/academic-evaluator-api/internal/models"
	"github.com/noah-isme/academic-evaluator-api/internal/observability"
	"github.com/noah-isme/academic-evaluator-api/internal/repository"
)

// studentRecord is the evaluated academic state of one student.
type studentRecord struct {
	Student    models.Student
	Subjects   []models.Subject
	Results    []evaluation.SubjectResult
	Attendance []evaluation.AttendanceSummary
	Sessions   []models.Attendance
	Summary    evaluation.StudentSummary
}

// academicRecords loads raw rows and runs them through the evaluation engine.
type academicRecords struct {
	students   repository.StudentRepository
	subjects   repository.SubjectRepository
	marks      repository.MarkRepository
	attendance repository.AttendanceRepository
	logger     zerolog.Logger
}

func (r academicRecords) load(ctx context.Context, studentID uint) (studentRecord, error) {
	student, err := r.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return studentRecord{}, ErrStudentNotFound
		}
		return studentRecord{}, err
	}

	subjects, err := r.subjects.ListByStudent(ctx, studentID)
	if err != nil {
		return studentRecord{}, err
	}

	marks, err := r.marks.ListByStudent(ctx, studentID)
	if err != nil {
		return studentRecord{}, err
	}

	sessions, err := r.attendance.List(ctx, repository.AttendanceFilter{StudentID: studentID})
	if err != nil {
		return studentRecord{}, err
	}

	record, err := evaluateStudent(student, subjects, marks, sessions)
	if err != nil {
		return studentRecord{}, err
	}
	reportWarnings(r.logger, studentID, record.Results)

	return record, nil
}

// evaluateStudent runs the engine over rows already scoped to one student.
func evaluateStudent(student models.Student, subjects []models.Subject, marks []models.Mark, sessions []models.Attendance) (studentRecord, error) {
	refs := models.SubjectReferences(subjects)

	results, err := evaluation.BuildSubjectResults(refs, models.MarkRecords(marks))
	if err != nil {
		return studentRecord{}, err
	}

	attendance, err := evaluation.BuildAttendanceSummaries(refs, models.AttendanceRecords(sessions))
	if err != nil {
		return studentRecord{}, err
	}

	return studentRecord{
		Student:    student,
		Subjects:   subjects,
		Results:    results,
		Attendance: attendance,
		Sessions:   sessions,
		Summary:    evaluation.SummarizeStudent(results, attendance),
	}, nil
}

// reportWarnings surfaces data issues the engine resolved with a default.
func reportWarnings(logger zerolog.Logger, studentID uint, results []evaluation.SubjectResult) {
	for _, warning := range evaluation.Warnings(results) {
		observability.EvaluationWarnings().WithLabelValues(string(warning.Kind)).Inc()
		logger.Warn().
			Uint("student_id", studentID).
			Uint("subject_id", warning.SubjectID).
			Str("kind", string(warning.Kind)).
			Msg(warning.Message)
	}
}
