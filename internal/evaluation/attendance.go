package evaluation

// BuildAttendanceSummary counts the sessions recorded for one subject.
// A subject without sessions reports 0%.
func BuildAttendanceSummary(subject Subject, records []AttendanceRecord) (AttendanceSummary, error) {
	if subject.ID == 0 {
		return AttendanceSummary{}, ErrMissingSubjectID
	}

	summary := AttendanceSummary{
		SubjectID: subject.ID,
		Code:      subject.Code,
		Name:      subject.Name,
	}
	for _, record := range records {
		if record.SubjectID != subject.ID {
			continue
		}
		summary.TotalClasses++
		if record.Status == StatusPresent {
			summary.AttendedClasses++
		}
	}
	summary.Percentage = Percentage(summary.AttendedClasses, summary.TotalClasses)

	return summary, nil
}

// BuildAttendanceSummaries summarises every subject in order.
func BuildAttendanceSummaries(subjects []Subject, records []AttendanceRecord) ([]AttendanceSummary, error) {
	summaries := make([]AttendanceSummary, 0, len(subjects))
	for _, subject := range subjects {
		summary, err := BuildAttendanceSummary(subject, records)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// OverallAttendance is the rounded mean of the per-subject percentages.
func OverallAttendance(summaries []AttendanceSummary) int {
	if len(summaries) == 0 {
		return 0
	}
	sum := 0
	for _, summary := range summaries {
		sum += summary.Percentage
	}
	return roundRatio(sum, len(summaries))
}

// Percentage returns part/whole*100 rounded half up, or 0 when whole is 0.
// Integer arithmetic keeps exact halves (84.5 -> 85) stable.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return roundRatio(part*100, whole)
}

// roundRatio rounds num/den half up for non-negative operands.
func roundRatio(num, den int) int {
	if den <= 0 {
		return 0
	}
	if num < 0 {
		return -roundRatio(-num, den)
	}
	return (2*num + den) / (2 * den)
}
