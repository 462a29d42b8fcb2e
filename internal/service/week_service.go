package service

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/timetext"
)

// breakThresholdMinutes is the minimum idle gap that counts as a break.
const breakThresholdMinutes = 60

// WeekService derives the per-day view model from raw week data: stable
// ordering, tick times, breaks and batch labels. Every derivation starts from
// scratch; nothing is patched in place.
type WeekService struct {
	collator *collate.Collator
	logger   *zap.Logger
}

// NewWeekService builds the derivation engine.
func NewWeekService(logger *zap.Logger) *WeekService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeekService{
		collator: collate.New(language.Und, collate.Loose),
		logger:   logger,
	}
}

// SortDay orders a day's classes chronologically with a stable multi-key
// tiebreak: start, end, then subject, subject code, teacher and venue under
// locale-aware collation. The input slice is not modified.
func (s *WeekService) SortDay(items []models.ClassItem) []models.ClassItem {
	sorted := make([]models.ClassItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if am, bm := timetext.MinutesOr(a.Start, 0), timetext.MinutesOr(b.Start, 0); am != bm {
			return am < bm
		}
		if am, bm := timetext.MinutesOr(a.End, 0), timetext.MinutesOr(b.End, 0); am != bm {
			return am < bm
		}
		for _, pair := range [][2]string{
			{a.Subject, b.Subject},
			{a.SubjectCode, b.SubjectCode},
			{a.Teacher, b.Teacher},
			{a.Venue, b.Venue},
		} {
			if cmp := s.collator.CompareString(pair[0], pair[1]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return sorted
}

// TickTimes collects the distinct start and end times of the given classes,
// sorted chronologically.
func (s *WeekService) TickTimes(items []models.ClassItem) []string {
	seen := map[string]struct{}{}
	ticks := make([]string, 0, len(items)*2)
	for _, item := range items {
		for _, t := range []string{item.Start, item.End} {
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			ticks = append(ticks, t)
		}
	}
	sort.Slice(ticks, func(i, j int) bool {
		return timetext.MinutesOr(ticks[i], 0) < timetext.MinutesOr(ticks[j], 0)
	})
	return ticks
}

// Breaks walks a chronologically sorted day pairwise and reports each gap of
// at least an hour between one class's end and the next class's start. Pairs
// where the next class starts before the current one ends yield no break.
func (s *WeekService) Breaks(items []models.ClassItem) []models.Break {
	breaks := []models.Break{}
	for i := 0; i+1 < len(items); i++ {
		end := timetext.MinutesOr(items[i].End, 0)
		start := timetext.MinutesOr(items[i+1].Start, 0)
		gap := start - end
		if gap < breakThresholdMinutes {
			continue
		}
		breaks = append(breaks, models.Break{
			Start:            items[i].End,
			End:              items[i+1].Start,
			DurationMinutes:  gap,
			DurationReadable: timetext.FormatDuration(gap),
		})
	}
	return breaks
}

// DeriveDay builds the complete view model for one day: elective filtering,
// stable sort, batch labels, tick times and breaks. An empty result carries
// the "no matches" mode; callers substitute the offline mode when nothing was
// cached to derive from.
func (s *WeekService) DeriveDay(week models.WeekData, day string, sel models.ElectiveSelection) models.DayView {
	visible := make([]models.ClassItem, 0, len(week[day]))
	for _, item := range week[day] {
		if Visible(item, sel) {
			visible = append(visible, item)
		}
	}
	sorted := s.SortDay(visible)

	items := make([]models.DayItem, len(sorted))
	for i, item := range sorted {
		items[i] = models.DayItem{ClassItem: item, BatchLabel: FormatBatches(item.Batches)}
	}

	view := models.DayView{
		Day:    day,
		Items:  items,
		Ticks:  s.TickTimes(sorted),
		Breaks: s.Breaks(sorted),
	}
	if len(items) == 0 {
		view.NoDataMode = models.NoDataNoMatches
		view.NoDataText = view.NoDataMode.Message()
	}
	return view
}

// CommonBreaks intersects per-schedule break lists and keeps the overlapping
// stretches that still span at least an hour. Useful for finding free slots
// shared across batches.
func (s *WeekService) CommonBreaks(schedules [][]models.Break) []models.Break {
	if len(schedules) == 0 {
		return []models.Break{}
	}

	type span struct{ start, end int }
	current := make([]span, 0, len(schedules[0]))
	for _, b := range schedules[0] {
		current = append(current, span{timetext.MinutesOr(b.Start, 0), timetext.MinutesOr(b.End, 0)})
	}

	for _, breaks := range schedules[1:] {
		next := []span{}
		for _, cur := range current {
			for _, b := range breaks {
				start := timetext.MinutesOr(b.Start, 0)
				end := timetext.MinutesOr(b.End, 0)
				if start < cur.start {
					start = cur.start
				}
				if end > cur.end {
					end = cur.end
				}
				if end > start {
					next = append(next, span{start, end})
				}
			}
		}
		current = next
		if len(current) == 0 {
			break
		}
	}

	common := []models.Break{}
	for _, sp := range current {
		gap := sp.end - sp.start
		if gap < breakThresholdMinutes {
			continue
		}
		common = append(common, models.Break{
			Start:            timetext.Clock(sp.start),
			End:              timetext.Clock(sp.end),
			DurationMinutes:  gap,
			DurationReadable: timetext.FormatDuration(gap),
		})
	}
	sort.Slice(common, func(i, j int) bool {
		return timetext.MinutesOr(common[i].Start, 0) < timetext.MinutesOr(common[j].Start, 0)
	})
	return common
}

var batchPattern = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// FormatBatches collapses runs of consecutive batch names that share a prefix
// into ranges: A6 A7 A8 B1 becomes "A6-A8, B1". Names that do not follow the
// letter-number shape pass through untouched.
func FormatBatches(batches []string) string {
	if len(batches) == 0 {
		return ""
	}

	type parsed struct {
		raw    string
		prefix string
		num    int
		ok     bool
	}
	entries := make([]parsed, 0, len(batches))
	for _, raw := range batches {
		m := batchPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			entries = append(entries, parsed{raw: raw})
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			entries = append(entries, parsed{raw: raw})
			continue
		}
		entries = append(entries, parsed{raw: raw, prefix: m[1], num: n, ok: true})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		return a.num < b.num
	})

	parts := []string{}
	for i := 0; i < len(entries); {
		e := entries[i]
		if !e.ok {
			parts = append(parts, e.raw)
			i++
			continue
		}
		j := i
		for j+1 < len(entries) && entries[j+1].ok &&
			entries[j+1].prefix == e.prefix && entries[j+1].num == entries[j].num+1 {
			j++
		}
		if j > i {
			parts = append(parts, fmt.Sprintf("%s-%s", e.raw, entries[j].raw))
		} else {
			parts = append(parts, e.raw)
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}
