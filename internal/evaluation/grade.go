package evaluation

// Grade is the letter awarded for a subject total.
type Grade string

// Supported grades, highest first.
const (
	GradeO     Grade = "O"
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeF     Grade = "F"
)

// Score bounds for a subject.
const (
	MaxComponent = 100
	MaxTotal     = 2 * MaxComponent
	PassingTotal = 100
)

// gradeBands holds inclusive lower bounds, checked from the top.
var gradeBands = []struct {
	min   int
	grade Grade
}{
	{180, GradeO},
	{160, GradeAPlus},
	{140, GradeA},
	{120, GradeBPlus},
	{100, GradeB},
}

// Grades lists every grade in descending order.
func Grades() []Grade {
	return []Grade{GradeO, GradeAPlus, GradeA, GradeBPlus, GradeB, GradeF}
}

// GradeOf maps a subject total (internal + external) to its grade.
// Totals below 100, including negative values, map to F.
func GradeOf(total int) Grade {
	for _, band := range gradeBands {
		if total >= band.min {
			return band.grade
		}
	}
	return GradeF
}

// Passing reports whether the grade clears the pass mark.
func (g Grade) Passing() bool {
	return g.Valid() && g != GradeF
}

// Valid returns true when the grade is one of the supported values.
func (g Grade) Valid() bool {
	switch g {
	case GradeO, GradeAPlus, GradeA, GradeBPlus, GradeB, GradeF:
		return true
	default:
		return false
	}
}
