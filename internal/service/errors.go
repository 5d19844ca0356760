package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStudentNotFound indicates the student record does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrSubjectNotFound indicates a referenced subject does not exist.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateStudent indicates the email or registration number is taken.
	ErrDuplicateStudent = errors.New("a student with this email or registration number already exists")
	// ErrDuplicateSubject indicates the subject code is taken.
	ErrDuplicateSubject = errors.New("a subject with this code already exists")
	// ErrInvalidDepartment indicates the department is not offered.
	ErrInvalidDepartment = errors.New("unknown department")
	// ErrInvalidDate indicates a malformed session date.
	ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")
	// ErrDuplicateEntry indicates a student appears twice in one submission.
	ErrDuplicateEntry = errors.New("student listed more than once")
	// ErrNotEnrolled indicates an entry references a student outside the subject roster.
	ErrNotEnrolled = errors.New("student is not enrolled in the subject")
	// ErrIncompleteMarks indicates enrolled students are missing a mark component.
	ErrIncompleteMarks = errors.New("marks are incomplete")
	// ErrIncompleteAttendance indicates enrolled students were left unmarked.
	ErrIncompleteAttendance = errors.New("attendance is incomplete")
	// ErrCommentTooShort indicates the sanitised feedback comment is too short.
	ErrCommentTooShort = errors.New("comment must be at least 10 characters")
)

// EntriesError reports which students made a batch submission invalid. It
// unwraps to the sentinel describing the problem.
type EntriesError struct {
	Err        error
	StudentIDs []uint
}

func (e *EntriesError) Error() string {
	return fmt.Sprintf("%s: %d student(s)", e.Err.Error(), len(e.StudentIDs))
}

func (e *EntriesError) Unwrap() error {
	return e.Err
}
