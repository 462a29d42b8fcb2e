// Package store implements the persistent keyed cache: a synchronous,
// string-keyed local store with JSON round-tripping and deterministic key
// construction for each domain entity.
package store

import (
	"fmt"

	"github.com/planwise/timetable-companion/internal/models"
)

// Store is the synchronous string-keyed persistence capability the cache sits
// on. A missing key reads as (_, false); backends swallow their own transport
// errors and degrade to misses.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) []string
	Clear() error
}

// Fixed keys for singleton entries.
const (
	keyMetadata = "metadata"
	keyMarker   = "cacheVersionMarker"

	keySelectedCourse   = "selectedCourse"
	keySelectedSemester = "selectedSemester"
	keySelectedPhase    = "selectedPhase"
	keySelectedBatch    = "selectedBatch"

	keyTableMode     = "tableMode"
	keyShowTimeline  = "showTimeline"
	keyShowBreaks    = "showBreaks"
	keyNaturalScroll = "naturalScroll"
	keySeenSwipeHint = "hasSeenSwipeHint"
)

// KeyClasses builds the per-tuple class data key. The day is deliberately not
// part of the key: all seven days are cached together per tuple.
func KeyClasses(t models.Tuple) string {
	return fmt.Sprintf("allClasses_%s_%s_%s_%s", t.Course, t.Semester, t.Phase, t.Batch)
}

// KeyElectivesDef builds the elective catalog key for a combo.
func KeyElectivesDef(c models.Combo) string {
	return fmt.Sprintf("electivesDef_%s_%s_%s", c.Course, c.Semester, c.Phase)
}

// KeyElectivesSel builds the elective selection key for a combo, independent
// of batch.
func KeyElectivesSel(c models.Combo) string {
	return fmt.Sprintf("electivesSel_%s_%s_%s", c.Course, c.Semester, c.Phase)
}
