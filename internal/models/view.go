package models

// SyncStatus is the revalidation state surfaced to the UI. The empty string
// means idle.
type SyncStatus string

const (
	StatusIdle             SyncStatus = ""
	StatusCheckingMetadata SyncStatus = "checking-metadata"
	StatusUpdatingMetadata SyncStatus = "updating-metadata"
	StatusErrorMetadata    SyncStatus = "error-metadata"
	StatusCheckingClasses  SyncStatus = "checking-classes"
	StatusUpdatingClasses  SyncStatus = "updating-classes"
	StatusErrorClasses     SyncStatus = "error-classes"
)

// NoDataMode distinguishes why a day view came back empty.
type NoDataMode string

const (
	// NoDataOfflineUncached: offline and nothing cached for these filters.
	NoDataOfflineUncached NoDataMode = "offline-no-cache"
	// NoDataNoMatches: online but no classes match these filters.
	NoDataNoMatches NoDataMode = "no-matches"
)

// Message returns the user-facing text for the mode.
func (m NoDataMode) Message() string {
	if m == NoDataOfflineUncached {
		return "You are offline and no cached data is available for these filters."
	}
	return "No classes found for the selected filters."
}

// Break is a derived idle gap of at least an hour between two consecutive
// visible classes on the same day.
type Break struct {
	Start            string `json:"start"`
	End              string `json:"end"`
	DurationMinutes  int    `json:"durationMinutes"`
	DurationReadable string `json:"durationReadable"`
}

// DayItem decorates a class item with its formatted batch label for display.
type DayItem struct {
	ClassItem
	BatchLabel string `json:"batchLabel,omitempty"`
}

// DayView is the fully derived per-day view model: elective-filtered, stably
// sorted, with tick times and breaks recomputed from scratch.
type DayView struct {
	Day        string     `json:"day"`
	Items      []DayItem  `json:"items"`
	Ticks      []string   `json:"ticks"`
	Breaks     []Break    `json:"breaks"`
	NoDataMode NoDataMode `json:"noDataMode,omitempty"`
	NoDataText string     `json:"noDataText,omitempty"`
}

// Preferences are the persisted boolean display flags.
type Preferences struct {
	TableMode     bool `json:"tableMode"`
	ShowTimeline  bool `json:"showTimeline"`
	ShowBreaks    bool `json:"showBreaks"`
	NaturalScroll bool `json:"naturalScroll"`
	SeenSwipeHint bool `json:"seenSwipeHint"`
}
