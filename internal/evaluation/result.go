package evaluation

import "fmt"

// ClampScore bounds a component score to [0, MaxComponent].
func ClampScore(score int) (int, bool) {
	switch {
	case score < 0:
		return 0, true
	case score > MaxComponent:
		return MaxComponent, true
	default:
		return score, false
	}
}

// BuildSubjectResult evaluates one subject from the supplied marks.
//
// Marks for other subjects are ignored. A missing component counts as zero and
// marks the result incomplete. When a component appears more than once the
// first record in supplied order is used and a duplicate warning is attached.
// Scores outside [0,100] are clamped and flagged.
func BuildSubjectResult(subject Subject, marks []MarkRecord) (SubjectResult, error) {
	if subject.ID == 0 {
		return SubjectResult{}, ErrMissingSubjectID
	}

	result := SubjectResult{
		SubjectID: subject.ID,
		Code:      subject.Code,
		Name:      subject.Name,
	}

	var internal, external *MarkRecord
	for i := range marks {
		mark := &marks[i]
		if mark.SubjectID != subject.ID {
			continue
		}

		var slot **MarkRecord
		switch mark.ExamType {
		case ExamInternal:
			slot = &internal
		case ExamExternal:
			slot = &external
		default:
			result.Warnings = append(result.Warnings, Warning{
				Kind:      WarningUnknownExamType,
				SubjectID: subject.ID,
				ExamType:  mark.ExamType,
				Message:   fmt.Sprintf("ignored mark with exam type %q", mark.ExamType),
			})
			continue
		}

		if *slot != nil {
			result.Warnings = append(result.Warnings, Warning{
				Kind:      WarningDuplicateMark,
				SubjectID: subject.ID,
				ExamType:  mark.ExamType,
				Message:   fmt.Sprintf("student %d has more than one %s mark, kept the first", mark.StudentID, mark.ExamType),
			})
			continue
		}
		*slot = mark
	}

	result.Internal = result.component(internal, ExamInternal)
	result.External = result.component(external, ExamExternal)
	result.Total = result.Internal + result.External
	result.Grade = GradeOf(result.Total)

	return result, nil
}

func (r *SubjectResult) component(mark *MarkRecord, examType ExamType) int {
	if mark == nil {
		r.Incomplete = true
		return 0
	}

	score, clamped := ClampScore(mark.Score)
	if clamped {
		r.Clamped = true
		r.Warnings = append(r.Warnings, Warning{
			Kind:      WarningOutOfRangeScore,
			SubjectID: r.SubjectID,
			ExamType:  examType,
			Message:   fmt.Sprintf("%s score %d clamped to %d", examType, mark.Score, score),
		})
	}
	return score
}

// BuildSubjectResults evaluates every subject in order.
func BuildSubjectResults(subjects []Subject, marks []MarkRecord) ([]SubjectResult, error) {
	results := make([]SubjectResult, 0, len(subjects))
	for _, subject := range subjects {
		result, err := BuildSubjectResult(subject, marks)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Warnings flattens the warnings attached to a set of results.
func Warnings(results []SubjectResult) []Warning {
	var warnings []Warning
	for _, result := range results {
		warnings = append(warnings, result.Warnings...)
	}
	return warnings
}
