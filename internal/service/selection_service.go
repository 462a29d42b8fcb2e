package service

import (
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

// SelectionService owns the active (course, semester, phase, batch, day)
// selection, enforcing the containment hierarchy against the loaded metadata
// and persisting every level.
type SelectionService struct {
	mu        sync.Mutex
	cache     *store.Cache
	validator *validator.Validate
	logger    *zap.Logger

	meta    *models.Metadata
	current models.Selection
}

// ChangeRequest mutates one selection level.
type ChangeRequest struct {
	Level string `json:"level" validate:"required,oneof=course semester phase batch day"`
	Value string `json:"value" validate:"required"`
}

// NewSelectionService builds the selection service. The initial day is the
// current weekday.
func NewSelectionService(cache *store.Cache, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		cache:     cache,
		validator: validate,
		logger:    logger,
		current: models.Selection{
			Tuple: models.Tuple{Phase: models.DefaultPhase},
			Day:   models.DaysOfWeek[int(time.Now().Weekday())],
		},
	}
}

// Resolve computes the valid default tuple from metadata and a previously
// saved tuple. Strict cascade: each level only proceeds when its parent
// resolved to a non-empty value; a saved value survives only while it still
// exists in the metadata; otherwise the first available entry wins. Phase
// falls back to "1" even with no metadata entry; batch may be genuinely
// absent.
func Resolve(meta *models.Metadata, saved models.Tuple) models.Tuple {
	resolved := models.Tuple{Phase: models.DefaultPhase}
	if meta == nil {
		return resolved
	}

	if len(meta.Courses) > 0 {
		if meta.HasCourse(saved.Course) {
			resolved.Course = saved.Course
		} else {
			resolved.Course = meta.Courses[0].ID
		}
	}

	if resolved.Course != "" {
		semesters := meta.SemestersFor(resolved.Course)
		if len(semesters) > 0 {
			if models.ContainsOption(semesters, saved.Semester) {
				resolved.Semester = saved.Semester
			} else {
				resolved.Semester = semesters[0].ID
			}
		}
	}

	if resolved.Course != "" && resolved.Semester != "" {
		phases := meta.PhasesFor(resolved.Course, resolved.Semester)
		if len(phases) > 0 {
			if models.ContainsOption(phases, saved.Phase) {
				resolved.Phase = saved.Phase
			} else {
				resolved.Phase = phases[0].ID
			}
		}
	}

	if resolved.Complete() {
		batches := meta.BatchesFor(resolved.Course, resolved.Semester, resolved.Phase)
		if len(batches) > 0 {
			if models.ContainsOption(batches, saved.Batch) {
				resolved.Batch = saved.Batch
			} else {
				resolved.Batch = batches[0].ID
			}
		}
	}

	return resolved
}

// ApplyMetadata re-resolves the selection against freshly loaded metadata,
// honouring whatever the user had persisted before.
func (s *SelectionService) ApplyMetadata(meta *models.Metadata) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	s.current.Tuple = Resolve(meta, s.cache.SavedTuple())
	s.cache.SaveTuple(s.current.Tuple)
	return s.current
}

// Current returns the active selection.
func (s *SelectionService) Current() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply validates and applies a single-level change, cascading resets
// downward from the changed level.
func (s *SelectionService) Apply(req ChangeRequest) (models.Selection, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Selection{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid selection change")
	}

	switch req.Level {
	case "course":
		return s.SetCourse(req.Value), nil
	case "semester":
		return s.SetSemester(req.Value), nil
	case "phase":
		return s.SetPhase(req.Value), nil
	case "batch":
		return s.SetBatch(req.Value), nil
	default:
		return s.SetDay(req.Value)
	}
}

// SetCourse changes the course and resets semester, phase and batch to their
// first valid values (or empty).
func (s *SelectionService) SetCourse(course string) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Course = course
	s.current.Semester = firstOption(s.meta.SemestersFor(course))

	s.current.Phase = models.DefaultPhase
	if s.current.Semester != "" {
		if phase := firstOption(s.meta.PhasesFor(course, s.current.Semester)); phase != "" {
			s.current.Phase = phase
		}
	}

	s.current.Batch = ""
	if s.current.Semester != "" {
		s.current.Batch = firstOption(s.meta.BatchesFor(course, s.current.Semester, s.current.Phase))
	}

	s.cache.SaveTuple(s.current.Tuple)
	return s.current
}

// SetSemester changes the semester and resets phase and batch.
func (s *SelectionService) SetSemester(semester string) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Semester = semester

	s.current.Phase = models.DefaultPhase
	if phase := firstOption(s.meta.PhasesFor(s.current.Course, semester)); phase != "" {
		s.current.Phase = phase
	}

	s.current.Batch = firstOption(s.meta.BatchesFor(s.current.Course, semester, s.current.Phase))

	s.cache.SaveTuple(s.current.Tuple)
	return s.current
}

// SetPhase changes the phase and resets the batch.
func (s *SelectionService) SetPhase(phase string) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Phase = phase
	s.current.Batch = firstOption(s.meta.BatchesFor(s.current.Course, s.current.Semester, phase))

	s.cache.SaveTuple(s.current.Tuple)
	return s.current
}

// SetBatch changes only the batch.
func (s *SelectionService) SetBatch(batch string) models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Batch = batch
	s.cache.SaveTuple(s.current.Tuple)
	return s.current
}

// SetDay changes the viewed day.
func (s *SelectionService) SetDay(day string) (models.Selection, error) {
	if !models.IsDay(day) {
		return models.Selection{}, appErrors.Clone(appErrors.ErrValidation, "unknown day name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Day = day
	return s.current, nil
}

// NextDay advances the viewed day, wrapping across the week.
func (s *SelectionService) NextDay() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Day = models.NextDay(s.current.Day)
	return s.current
}

// PrevDay rewinds the viewed day, wrapping across the week.
func (s *SelectionService) PrevDay() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Day = models.PrevDay(s.current.Day)
	return s.current
}

// Courses lists the selectable courses.
func (s *SelectionService) Courses() []models.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		return nil
	}
	return s.meta.Courses
}

// Semesters lists the semesters for the active course.
func (s *SelectionService) Semesters() []models.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.SemestersFor(s.current.Course)
}

// Phases lists the phases for the active (course, semester).
func (s *SelectionService) Phases() []models.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.PhasesFor(s.current.Course, s.current.Semester)
}

// Batches lists the batches for the active (course, semester, phase).
func (s *SelectionService) Batches() []models.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.BatchesFor(s.current.Course, s.current.Semester, s.current.Phase)
}

func firstOption(options []models.Option) string {
	if len(options) == 0 {
		return ""
	}
	return options[0].ID
}
