package models

// DaysOfWeek lists weekday names in calendar order, Sunday first.
var DaysOfWeek = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DefaultPhase is the hardcoded phase fallback used when metadata declares no
// phases for a (course, semester) pair.
const DefaultPhase = "1"

// Tuple identifies a specific timetable.
type Tuple struct {
	Course   string `json:"course"`
	Semester string `json:"semester"`
	Phase    string `json:"phase"`
	Batch    string `json:"batch"`
}

// Combo drops the batch component; elective catalogs and selections are keyed
// on it.
type Combo struct {
	Course   string `json:"course"`
	Semester string `json:"semester"`
	Phase    string `json:"phase"`
}

// Combo returns the tuple's (course, semester, phase) projection.
func (t Tuple) Combo() Combo {
	return Combo{Course: t.Course, Semester: t.Semester, Phase: t.Phase}
}

// Complete reports whether the tuple carries enough information to load class
// data. Batch is allowed to be empty.
func (t Tuple) Complete() bool {
	return t.Course != "" && t.Semester != "" && t.Phase != ""
}

// Selection is the full user selection: a tuple plus the viewed day.
type Selection struct {
	Tuple
	Day string `json:"day"`
}

// IsDay reports whether the name is one of the seven weekday names.
func IsDay(name string) bool {
	return DayIndex(name) >= 0
}

// DayIndex returns the calendar position of a weekday name, or -1.
func DayIndex(name string) int {
	for i, d := range DaysOfWeek {
		if d == name {
			return i
		}
	}
	return -1
}

// NextDay returns the weekday after the given one, wrapping across the week.
// Unknown names map to Sunday.
func NextDay(name string) string {
	idx := DayIndex(name)
	if idx < 0 {
		return DaysOfWeek[0]
	}
	return DaysOfWeek[(idx+1)%len(DaysOfWeek)]
}

// PrevDay returns the weekday before the given one, wrapping across the week.
func PrevDay(name string) string {
	idx := DayIndex(name)
	if idx < 0 {
		return DaysOfWeek[0]
	}
	return DaysOfWeek[(idx+len(DaysOfWeek)-1)%len(DaysOfWeek)]
}
