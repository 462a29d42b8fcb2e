package store

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
)

// Cache wraps a Store with JSON round-tripping and the domain's key
// vocabulary. A cache entry that fails to decode reads as a miss: corrupt
// entries must never surface as errors to callers.
type Cache struct {
	store  Store
	logger *zap.Logger
}

// NewCache builds a typed cache over the given store.
func NewCache(store Store, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, logger: logger}
}

// GetJSON decodes the entry at key into dest. Returns false on a missing key
// or an undecodable entry.
func (c *Cache) GetJSON(key string, dest interface{}) bool {
	raw, ok := c.store.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logger.Debug("cache entry undecodable, treating as miss", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON serialises the value and overwrites the entry at key.
func (c *Cache) SetJSON(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.store.Set(key, string(raw))
}

// GetString reads a plain-string entry.
func (c *Cache) GetString(key string) (string, bool) {
	return c.store.Get(key)
}

// SetString writes a plain-string entry.
func (c *Cache) SetString(key, value string) error {
	return c.store.Set(key, value)
}

// Remove deletes the entry at key.
func (c *Cache) Remove(key string) error {
	return c.store.Remove(key)
}

// Flag reads a boolean-as-string entry; anything but "true" is false.
func (c *Cache) Flag(key string) bool {
	v, ok := c.store.Get(key)
	return ok && v == "true"
}

// SetFlag writes a boolean-as-string entry.
func (c *Cache) SetFlag(key string, value bool) error {
	if value {
		return c.store.Set(key, "true")
	}
	return c.store.Set(key, "false")
}

// Metadata reads the cached taxonomy blob.
func (c *Cache) Metadata() (*models.Metadata, bool) {
	var meta models.Metadata
	if !c.GetJSON(keyMetadata, &meta) {
		return nil, false
	}
	return &meta, true
}

// SetMetadata overwrites the cached taxonomy blob wholesale.
func (c *Cache) SetMetadata(meta *models.Metadata) error {
	return c.SetJSON(keyMetadata, meta)
}

// Classes reads the cached week payload for a tuple.
func (c *Cache) Classes(t models.Tuple) (*models.ClassesPayload, bool) {
	var payload models.ClassesPayload
	if !c.GetJSON(KeyClasses(t), &payload) {
		return nil, false
	}
	return &payload, true
}

// SetClasses overwrites the cached week payload for a tuple wholesale.
func (c *Cache) SetClasses(t models.Tuple, payload *models.ClassesPayload) error {
	return c.SetJSON(KeyClasses(t), payload)
}

// ElectivesDef reads the cached elective catalog for a combo.
func (c *Cache) ElectivesDef(combo models.Combo) (models.ElectiveCatalog, bool) {
	var catalog models.ElectiveCatalog
	if !c.GetJSON(KeyElectivesDef(combo), &catalog) {
		return models.ElectiveCatalog{}, false
	}
	return catalog, true
}

// SetElectivesDef overwrites the cached elective catalog for a combo.
func (c *Cache) SetElectivesDef(combo models.Combo, catalog models.ElectiveCatalog) error {
	return c.SetJSON(KeyElectivesDef(combo), catalog)
}

// ElectivesSel reads the stored elective selection for a combo.
func (c *Cache) ElectivesSel(combo models.Combo) (models.ElectiveSelection, bool) {
	var sel models.ElectiveSelection
	if !c.GetJSON(KeyElectivesSel(combo), &sel) {
		return nil, false
	}
	return sel, true
}

// SetElectivesSel persists the elective selection for a combo.
func (c *Cache) SetElectivesSel(combo models.Combo, sel models.ElectiveSelection) error {
	return c.SetJSON(KeyElectivesSel(combo), sel)
}

// SavedTuple reads the persisted selection levels. Absent levels read as
// empty strings.
func (c *Cache) SavedTuple() models.Tuple {
	var t models.Tuple
	t.Course, _ = c.store.Get(keySelectedCourse)
	t.Semester, _ = c.store.Get(keySelectedSemester)
	t.Phase, _ = c.store.Get(keySelectedPhase)
	t.Batch, _ = c.store.Get(keySelectedBatch)
	return t
}

// SaveTuple persists each non-empty selection level and removes the rest, so
// a level that resolved to "nothing" does not resurrect on the next boot.
func (c *Cache) SaveTuple(t models.Tuple) {
	c.saveLevel(keySelectedCourse, t.Course)
	c.saveLevel(keySelectedSemester, t.Semester)
	c.saveLevel(keySelectedPhase, t.Phase)
	c.saveLevel(keySelectedBatch, t.Batch)
}

func (c *Cache) saveLevel(key, value string) {
	var err error
	if value == "" {
		err = c.store.Remove(key)
	} else {
		err = c.store.Set(key, value)
	}
	if err != nil {
		c.logger.Warn("persisting selection failed", zap.String("key", key), zap.Error(err))
	}
}

// Preferences reads the five persisted display flags.
func (c *Cache) Preferences() models.Preferences {
	return models.Preferences{
		TableMode:     c.Flag(keyTableMode),
		ShowTimeline:  c.Flag(keyShowTimeline),
		ShowBreaks:    c.Flag(keyShowBreaks),
		NaturalScroll: c.Flag(keyNaturalScroll),
		SeenSwipeHint: c.Flag(keySeenSwipeHint),
	}
}

// SetPreferences persists the display flags.
func (c *Cache) SetPreferences(p models.Preferences) error {
	for key, value := range map[string]bool{
		keyTableMode:     p.TableMode,
		keyShowTimeline:  p.ShowTimeline,
		keyShowBreaks:    p.ShowBreaks,
		keyNaturalScroll: p.NaturalScroll,
		keySeenSwipeHint: p.SeenSwipeHint,
	} {
		if err := c.SetFlag(key, value); err != nil {
			return err
		}
	}
	return nil
}

// MarkSwipeHintSeen records that the one-time swipe hint was dismissed.
func (c *Cache) MarkSwipeHintSeen() error {
	return c.SetFlag(keySeenSwipeHint, true)
}

// SwipeHintSeen reports whether the hint was already dismissed.
func (c *Cache) SwipeHintSeen() bool {
	return c.Flag(keySeenSwipeHint)
}
