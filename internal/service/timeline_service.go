package service

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/timetext"
)

const (
	// axisTail extends the axis past the last item's bottom edge.
	axisTail = 50.0
	// pointerPadding keeps the pointer off the axis ends.
	pointerPadding = 10.0
	// smoothingFactor is the fraction of the remaining distance covered per step.
	smoothingFactor = 0.1
	// snapDistance collapses sub-pixel drift straight onto the target.
	snapDistance = 0.5
)

// Extent is one rendered item's vertical span along the day axis.
type Extent struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// TimelineUpdate is published on every animation step.
type TimelineUpdate struct {
	Pointer     float64 `json:"pointer"`
	ActiveIndex int     `json:"activeIndex"`
}

// TimelineService animates the reading pointer along the day view's axis. The
// viewer reports item extents and scroll positions; the service converts them
// into a smoothed pointer offset and an active item index. Pure geometry, no
// I/O.
type TimelineService struct {
	mu       sync.Mutex
	extents  []Extent
	items    []models.ClassItem
	pointer  float64
	target   float64
	observer func(TimelineUpdate)
	logger   *zap.Logger
}

// NewTimelineService builds the engine with an empty geometry.
func NewTimelineService(logger *zap.Logger) *TimelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimelineService{pointer: pointerPadding, target: pointerPadding, logger: logger}
}

// SetObserver registers a callback invoked after every Step.
func (s *TimelineService) SetObserver(fn func(TimelineUpdate)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// SetDay swaps in the items currently rendered, resetting the geometry. The
// extents arrive separately once the viewer has laid them out.
func (s *TimelineService) SetDay(items []models.ClassItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.extents = nil
	s.pointer = pointerPadding
	s.target = pointerPadding
}

// SetExtents records the rendered vertical span of each item, positionally
// matching the current day's items.
func (s *TimelineService) SetExtents(extents []Extent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extents = extents
}

// Axis returns the total axis length: the furthest bottom edge plus tail
// room. Zero when no extents are known.
func (s *TimelineService) Axis() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.axisLocked()
}

func (s *TimelineService) axisLocked() float64 {
	maxBottom := 0.0
	for _, e := range s.extents {
		if e.Bottom > maxBottom {
			maxBottom = e.Bottom
		}
	}
	if maxBottom == 0 {
		return 0
	}
	return maxBottom + axisTail
}

// SetScroll maps a scroll position onto the axis: progress through the
// scrollable range, clamped to [0,1], lands the target between the padded
// axis ends.
func (s *TimelineService) SetScroll(top, max float64) {
	progress := 0.0
	if max > 0 {
		progress = top / max
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	axis := s.axisLocked()
	usable := axis - 2*pointerPadding
	if usable < 0 {
		usable = 0
	}
	s.target = pointerPadding + progress*usable
}

// Pointer returns the current smoothed pointer offset.
func (s *TimelineService) Pointer() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// ActiveIndex returns the first item whose extent contains the pointer
// target, or -1.
func (s *TimelineService) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeIndexLocked()
}

func (s *TimelineService) activeIndexLocked() int {
	for i, e := range s.extents {
		if s.target >= e.Top && s.target <= e.Bottom {
			return i
		}
	}
	return -1
}

// Step advances the pointer one animation frame: a tenth of the remaining
// distance, snapping once the remainder drops under half a pixel.
func (s *TimelineService) Step() TimelineUpdate {
	s.mu.Lock()
	remaining := s.target - s.pointer
	if math.Abs(remaining) < snapDistance {
		s.pointer = s.target
	} else {
		s.pointer += remaining * smoothingFactor
	}
	update := TimelineUpdate{Pointer: s.pointer, ActiveIndex: s.activeIndexLocked()}
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(update)
	}
	return update
}

// Run steps the animation at the given interval until the context is
// cancelled.
func (s *TimelineService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// TimeEmphasized reports whether a tick label falls inside the active item's
// time span.
func (s *TimelineService) TimeEmphasized(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIndexLocked()
	if idx < 0 || idx >= len(s.items) {
		return false
	}
	minute, err := timetext.Minutes(label)
	if err != nil {
		return false
	}
	item := s.items[idx]
	return minute >= timetext.MinutesOr(item.Start, 0) && minute <= timetext.MinutesOr(item.End, 0)
}

// ActiveNow reports whether a class is happening at the wall clock, used to
// highlight the live card. Only meaningful when the viewed day is today.
func ActiveNow(item models.ClassItem, nowMinutes int, today, viewedDay string) bool {
	if today != viewedDay {
		return false
	}
	start, err := timetext.Minutes(item.Start)
	if err != nil {
		return false
	}
	end, err := timetext.Minutes(item.End)
	if err != nil {
		return false
	}
	return nowMinutes >= start && nowMinutes <= end
}
