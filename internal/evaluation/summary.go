package evaluation

// CGPA converts subject totals into the 0-10 scale: the overall percentage
// (sum of totals over n*200) divided by ten, rounded half up to one decimal.
func CGPA(totals []int) float64 {
	if len(totals) == 0 {
		return 0
	}
	sum := sumInts(totals)
	// percentage = sum*100/(n*200) = sum/(2n); one decimal of CGPA is one
	// integer step of the percentage.
	return float64(roundRatio(sum, 2*len(totals))) / 10
}

// OverallPercentage is the share of the maximum total obtained across
// subjects, rounded half up to two decimals.
func OverallPercentage(totals []int) float64 {
	if len(totals) == 0 {
		return 0
	}
	return float64(roundRatio(sumInts(totals)*100, 2*len(totals))) / 100
}

func totalsOf(results []SubjectResult) []int {
	totals := make([]int, 0, len(results))
	for _, result := range results {
		totals = append(totals, result.Total)
	}
	return totals
}

// SummarizeStudent aggregates one student's subject results and attendance.
func SummarizeStudent(results []SubjectResult, attendance []AttendanceSummary) StudentSummary {
	totals := totalsOf(results)
	summary := StudentSummary{
		CGPA:                        CGPA(totals),
		OverallPercentage:           OverallPercentage(totals),
		OverallAttendancePercentage: OverallAttendance(attendance),
		TotalSubjects:               len(results),
	}
	for _, result := range results {
		summary.TotalMarks += result.Total
		if result.Incomplete {
			summary.IncompleteSubjects++
		}
	}
	return summary
}

// Passed reports whether the mean subject total reaches the pass mark.
// A student without results has not passed.
func Passed(results []SubjectResult) bool {
	if len(results) == 0 {
		return false
	}
	sum := 0
	for _, result := range results {
		sum += result.Total
	}
	return sum >= PassingTotal*len(results)
}

// SummarizeRoster aggregates every student of a staff view. An empty roster
// yields zero values.
func SummarizeRoster(students []StudentRecord) RosterSummary {
	summary := RosterSummary{
		TotalStudents:     len(students),
		GradeDistribution: emptyDistribution(),
	}
	if len(students) == 0 {
		return summary
	}

	cgpaTenths := 0
	attendance := 0
	for _, student := range students {
		cgpaTenths += roundRatio(sumInts(totalsOf(student.Results)), 2*len(student.Results))
		attendance += OverallAttendance(student.Attendance)
		if Passed(student.Results) {
			summary.PassCount++
		}
		for _, result := range student.Results {
			summary.GradeDistribution[result.Grade]++
			if result.Total > summary.HighestTotal {
				summary.HighestTotal = result.Total
			}
		}
	}

	n := len(students)
	summary.AverageCGPA = float64(roundRatio(cgpaTenths, n)) / 10
	summary.AverageAttendance = roundRatio(attendance, n)
	summary.PassRate = float64(summary.PassCount) / float64(n)

	return summary
}

// SummarizeSubject computes class statistics for one subject's results.
// Only results with a positive total count as evaluated; the pass rate is
// taken over every result supplied.
func SummarizeSubject(results []SubjectResult) SubjectClassSummary {
	summary := SubjectClassSummary{}
	sum := 0
	for _, result := range results {
		if result.Total <= 0 {
			continue
		}
		summary.Evaluated++
		sum += result.Total
		if result.Total > summary.HighestTotal {
			summary.HighestTotal = result.Total
		}
		if result.Total >= PassingTotal {
			summary.PassCount++
		}
	}
	if summary.Evaluated > 0 {
		summary.AverageTotal = float64(roundRatio(sum*10, summary.Evaluated)) / 10
	}
	summary.PassRate = Percentage(summary.PassCount, len(results))
	return summary
}

// GradeDistribution returns the count and share of each grade present in
// results, in descending grade order.
func GradeDistribution(results []SubjectResult) []GradeShare {
	counts := emptyDistribution()
	for _, result := range results {
		counts[result.Grade]++
	}

	shares := make([]GradeShare, 0, len(counts))
	for _, grade := range Grades() {
		count := counts[grade]
		if count == 0 {
			continue
		}
		shares = append(shares, GradeShare{
			Grade:      grade,
			Count:      count,
			Percentage: float64(roundRatio(count*1000, len(results))) / 10,
		})
	}
	return shares
}

func emptyDistribution() map[Grade]int {
	distribution := make(map[Grade]int, len(Grades()))
	for _, grade := range Grades() {
		distribution[grade] = 0
	}
	return distribution
}

func sumInts(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}

// AverageGrade grades the mean subject total rounded half up. It returns an
// empty grade when there are no results.
func AverageGrade(results []SubjectResult) Grade {
	if len(results) == 0 {
		return ""
	}
	return GradeOf(roundRatio(sumInts(totalsOf(results)), len(results)))
}

// Best returns the index of the result with the highest total, preferring the
// earliest on ties, or -1 when there are none.
func Best(results []SubjectResult) int {
	best := -1
	for i, result := range results {
		if best < 0 || result.Total > results[best].Total {
			best = i
		}
	}
	return best
}
