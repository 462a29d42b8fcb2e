package models

// ClassItem is one scheduled session as returned by the remote API. Items are
// immutable once fetched; identity is positional within a day's array.
type ClassItem struct {
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Subject     string   `json:"subject"`
	SubjectCode string   `json:"subjectcode"`
	Teacher     string   `json:"teacher"`
	Batches     []string `json:"batches"`
	Venue       string   `json:"venue"`
	Type        string   `json:"type"`
	IsElective  bool     `json:"is_elective,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// Code resolves the identifier used for elective matching: subject code,
// falling back to the subject name.
func (c ClassItem) Code() string {
	if c.SubjectCode != "" {
		return c.SubjectCode
	}
	return c.Subject
}

// WeekData maps weekday names to that day's class list for one tuple. All
// seven days travel together; the map is replaced wholesale on a new version,
// never patched.
type WeekData map[string][]ClassItem

// ClassesPayload is the /api/allclasses response envelope.
type ClassesPayload struct {
	Classes      WeekData `json:"classes"`
	CacheVersion string   `json:"cacheVersion"`
}

// VersionPayload is the /api/allclasses-version response envelope.
type VersionPayload struct {
	CacheVersion string `json:"cacheVersion"`
}
