package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

// StatusReport is the companion's state summary for the viewer.
type StatusReport struct {
	Status         models.SyncStatus        `json:"status"`
	Offline        bool                     `json:"offline"`
	Skeleton       bool                     `json:"skeleton"`
	Selection      models.Selection         `json:"selection"`
	ElectivePrompt bool                     `json:"electivePrompt"`
	Electives      models.ElectiveSelection `json:"electives"`
}

// ViewService orchestrates one full refresh pass and serves derived day
// views from whatever the cache and controller currently hold.
type ViewService struct {
	selection *SelectionService
	control   *RevalidationController
	electives *ElectiveService
	week      *WeekService
	timeline  *TimelineService
	cache     *store.Cache
	logger    *zap.Logger

	mu            sync.Mutex
	promptPending bool
}

// NewViewService wires the orchestrator.
func NewViewService(
	selection *SelectionService,
	control *RevalidationController,
	electives *ElectiveService,
	week *WeekService,
	timeline *TimelineService,
	cache *store.Cache,
	logger *zap.Logger,
) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewService{
		selection: selection,
		control:   control,
		electives: electives,
		week:      week,
		timeline:  timeline,
		cache:     cache,
		logger:    logger,
	}
}

// Refresh runs one end-to-end revalidation pass: metadata, selection
// re-resolution, class data for the active tuple, then the elective catalog.
// Failures never abort the pass; each stage falls back to its cached copy.
func (s *ViewService) Refresh(ctx context.Context) {
	meta := s.control.SyncMetadata(ctx)
	if meta != nil {
		s.selection.ApplyMetadata(meta)
	}

	sel := s.selection.Current()
	if !sel.Complete() {
		return
	}

	s.control.SyncClasses(ctx, sel.Tuple)

	_, prompt, err := s.electives.Sync(ctx, sel.Combo())
	if err != nil {
		s.logger.Debug("elective sync skipped", zap.Error(err))
	}
	if prompt {
		s.mu.Lock()
		s.promptPending = true
		s.mu.Unlock()
	}
}

// Offline reports the connectivity state last observed by the daemon.
func (s *ViewService) Offline() bool {
	return !s.control.Online()
}

// Day derives the view for one day of the active selection from the cached
// week. When nothing is cached the no-data mode explains why.
func (s *ViewService) Day(day string) (models.DayView, error) {
	if day == "" {
		day = s.selection.Current().Day
	}
	if !models.IsDay(day) {
		return models.DayView{}, appErrors.Clone(appErrors.ErrValidation, "unknown day name")
	}

	sel := s.selection.Current()
	payload, ok := s.cache.Classes(sel.Tuple)
	if !ok {
		view := models.DayView{Day: day, Items: []models.DayItem{}, Ticks: []string{}, Breaks: []models.Break{}}
		// The controller knows why the last sync came up empty; without a
		// verdict from it, fall back on the connectivity flag.
		mode, known := s.control.NoData()
		if !known {
			mode = models.NoDataNoMatches
			if !s.control.Online() {
				mode = models.NoDataOfflineUncached
			}
		}
		view.NoDataMode = mode
		view.NoDataText = mode.Message()
		return view, nil
	}

	electiveSel := s.electives.Selection(sel.Combo())
	view := s.week.DeriveDay(payload.Classes, day, electiveSel)

	items := make([]models.ClassItem, len(view.Items))
	for i, it := range view.Items {
		items[i] = it.ClassItem
	}
	s.timeline.SetDay(items)

	return view, nil
}

// Status reports the controller state plus the active selection and elective
// choices. Reading the report consumes a pending elective prompt: the viewer
// is told to ask exactly once.
func (s *ViewService) Status() StatusReport {
	sel := s.selection.Current()

	s.mu.Lock()
	prompt := s.promptPending
	s.promptPending = false
	s.mu.Unlock()

	return StatusReport{
		Status:         s.control.Status(),
		Offline:        !s.control.Online(),
		Skeleton:       s.control.Skeleton(),
		Selection:      sel,
		ElectivePrompt: prompt,
		Electives:      s.electives.Selection(sel.Combo()),
	}
}
