package models

// Option is a single selectable entry in the server-declared taxonomy.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Metadata is the server-declared taxonomy of courses, semesters, phases and
// batches, plus an opaque version token used for staleness comparison.
type Metadata struct {
	Courses      []Option                                  `json:"courses"`
	Semesters    map[string][]Option                       `json:"semesters"`
	Phases       map[string]map[string][]Option            `json:"phases"`
	Batches      map[string]map[string]map[string][]Option `json:"batches"`
	CacheVersion string                                    `json:"cacheVersion"`
}

// SemestersFor returns the semesters declared for a course.
func (m *Metadata) SemestersFor(course string) []Option {
	if m == nil || course == "" {
		return nil
	}
	return m.Semesters[course]
}

// PhasesFor returns the phases declared for a (course, semester) pair.
func (m *Metadata) PhasesFor(course, semester string) []Option {
	if m == nil || course == "" || semester == "" {
		return nil
	}
	return m.Phases[course][semester]
}

// BatchesFor returns the batches declared for a (course, semester, phase)
// tuple. An empty list is legitimate: no batch is required for that tuple.
func (m *Metadata) BatchesFor(course, semester, phase string) []Option {
	if m == nil || course == "" || semester == "" || phase == "" {
		return nil
	}
	return m.Batches[course][semester][phase]
}

// HasCourse reports whether the course id exists in the taxonomy.
func (m *Metadata) HasCourse(id string) bool {
	if m == nil {
		return false
	}
	return ContainsOption(m.Courses, id)
}

// ContainsOption reports whether the id appears in the option list.
func ContainsOption(options []Option, id string) bool {
	if id == "" {
		return false
	}
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}
