package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-evaluator-api/internal/dto"
	"github.com/noah-isme/academic-evaluator-api/internal/evaluation"
)

func TestMarkServiceRecordEvaluatesSheet(t *testing.T) {
	f := newFixture(t)
	staff := f.staff(t)
	subject := f.subject(t, "CS101", "Introduction to Computer Science")
	raahul := f.student(t, "ST2021001", "Raahul Kumar", subject)
	priya := f.student(t, "ST2021002", "Priya Sharma", subject)

	svc := NewMarkService(f.marks, f.subjects, f.validate, f.activity, f.notifier, testLogger())

	sheet, err := svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: subject.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(85), External: ptrInt(78)},
			{StudentID: priya.ID, Internal: ptrInt(40), External: ptrInt(45)},
		},
	}, staffActor(staff))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)

	require.Equal(t, "ST2021001", sheet.Rows[0].RegNumber)
	require.Equal(t, 163, sheet.Rows[0].Total)
	require.Equal(t, evaluation.GradeAPlus, sheet.Rows[0].Grade)
	require.False(t, sheet.Rows[0].Incomplete)
	require.Equal(t, 85, sheet.Rows[1].Total)
	require.Equal(t, evaluation.GradeF, sheet.Rows[1].Grade)

	require.Equal(t, 2, sheet.Summary.Evaluated)
	require.Equal(t, 124.0, sheet.Summary.AverageTotal)
	require.Equal(t, 163, sheet.Summary.HighestTotal)
	require.Equal(t, 1, sheet.Summary.PassCount)
	require.Equal(t, 50, sheet.Summary.PassRate)

	require.Len(t, f.notifier.events, 2)
	require.Equal(t, EventMarksUpdated, f.notifier.events[0].Type)
	require.Equal(t, []string{"marks.recorded"}, f.activity.actions())

	// A second submission replaces the stored components.
	sheet, err = svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: subject.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(90), External: ptrInt(90)},
			{StudentID: priya.ID, Internal: ptrInt(50), External: ptrInt(50)},
		},
	}, staffActor(staff))
	require.NoError(t, err)
	require.Equal(t, 180, sheet.Rows[0].Total)
	require.Equal(t, evaluation.GradeO, sheet.Rows[0].Grade)
	require.Equal(t, 100, sheet.Rows[1].Total)

	stored, err := f.marks.ListBySubject(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
}

func TestMarkServiceRejectsIncompleteRoster(t *testing.T) {
	f := newFixture(t)
	staff := f.staff(t)
	subject := f.subject(t, "CS101", "Introduction to Computer Science")
	raahul := f.student(t, "ST2021001", "Raahul Kumar", subject)
	priya := f.student(t, "ST2021002", "Priya Sharma", subject)

	svc := NewMarkService(f.marks, f.subjects, f.validate, f.activity, f.notifier, testLogger())

	_, err := svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: subject.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(85), External: ptrInt(78)},
			{StudentID: priya.ID, Internal: ptrInt(60)},
		},
	}, staffActor(staff))
	require.ErrorIs(t, err, ErrIncompleteMarks)

	var entriesErr *EntriesError
	require.True(t, errors.As(err, &entriesErr))
	require.Equal(t, []uint{priya.ID}, entriesErr.StudentIDs)

	_, err = svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: subject.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(85), External: ptrInt(78)},
		},
	}, staffActor(staff))
	require.ErrorIs(t, err, ErrIncompleteMarks)

	stored, err := f.marks.ListBySubject(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Empty(t, stored)
	require.Empty(t, f.notifier.events)
}

func TestMarkServiceRejectsForeignAndDuplicateEntries(t *testing.T) {
	f := newFixture(t)
	staff := f.staff(t)
	cs101 := f.subject(t, "CS101", "Introduction to Computer Science")
	cs102 := f.subject(t, "CS102", "Data Structures and Algorithms")
	raahul := f.student(t, "ST2021001", "Raahul Kumar", cs101)
	amit := f.student(t, "ST2021003", "Amit Patel", cs102)

	svc := NewMarkService(f.marks, f.subjects, f.validate, f.activity, f.notifier, testLogger())

	_, err := svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: cs101.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(85), External: ptrInt(78)},
			{StudentID: amit.ID, Internal: ptrInt(85), External: ptrInt(78)},
		},
	}, staffActor(staff))
	require.ErrorIs(t, err, ErrNotEnrolled)

	_, err = svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: cs101.ID,
		Entries: []dto.MarkEntry{
			{StudentID: raahul.ID, Internal: ptrInt(85), External: ptrInt(78)},
			{StudentID: raahul.ID, Internal: ptrInt(10), External: ptrInt(10)},
		},
	}, staffActor(staff))
	require.ErrorIs(t, err, ErrDuplicateEntry)

	_, err = svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: 999,
		Entries:   []dto.MarkEntry{{StudentID: raahul.ID, Internal: ptrInt(1), External: ptrInt(1)}},
	}, staffActor(staff))
	require.ErrorIs(t, err, ErrSubjectNotFound)

	_, err = svc.Record(context.Background(), dto.MarksRequest{
		SubjectID: cs101.ID,
		Entries:   []dto.MarkEntry{{StudentID: raahul.ID, Internal: ptrInt(101), External: ptrInt(1)}},
	}, staffActor(staff))
	require.Error(t, err)
	require.True(t, isValidationFailure(err))
}

func TestMarkServiceSheetFlagsMissingComponents(t *testing.T) {
	f := newFixture(t)
	subject := f.subject(t, "CS101", "Introduction to Computer Science")
	raahul := f.student(t, "ST2021001", "Raahul Kumar", subject)
	f.student(t, "ST2021002", "Priya Sharma", subject)
	f.mark(t, raahul.ID, subject.ID, 85, 78)

	svc := NewMarkService(f.marks, f.subjects, f.validate, nil, nil, testLogger())

	sheet, err := svc.Sheet(context.Background(), subject.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 2)
	require.False(t, sheet.Rows[0].Incomplete)
	require.True(t, sheet.Rows[1].Incomplete)
	require.Equal(t, 0, sheet.Rows[1].Total)
	require.Equal(t, 1, sheet.Summary.Evaluated)
	require.Equal(t, 50, sheet.Summary.PassRate)
}
