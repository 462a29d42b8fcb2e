package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/timetable-companion/internal/models"
)

func TestKeyConstruction(t *testing.T) {
	tuple := models.Tuple{Course: "btech", Semester: "3", Phase: "1", Batch: "a6"}
	assert.Equal(t, "allClasses_btech_3_1_a6", KeyClasses(tuple))
	assert.Equal(t, "electivesDef_btech_3_1", KeyElectivesDef(tuple.Combo()))
	assert.Equal(t, "electivesSel_btech_3_1", KeyElectivesSel(tuple.Combo()))

	// Batch is part of the class key but not the elective keys.
	other := tuple
	other.Batch = "b1"
	assert.NotEqual(t, KeyClasses(tuple), KeyClasses(other))
	assert.Equal(t, KeyElectivesDef(tuple.Combo()), KeyElectivesDef(other.Combo()))
}

func TestCacheJSONRoundTrip(t *testing.T) {
	cache := NewCache(NewMemoryStore(), nil)

	meta := &models.Metadata{
		Courses:      []models.Option{{ID: "btech", Name: "B.Tech"}},
		CacheVersion: "v1",
	}
	require.NoError(t, cache.SetMetadata(meta))

	got, ok := cache.Metadata()
	require.True(t, ok)
	assert.Equal(t, meta, got)
}

func TestCacheCorruptEntryReadsAsMiss(t *testing.T) {
	mem := NewMemoryStore()
	require.NoError(t, mem.Set("metadata", "{not json"))
	cache := NewCache(mem, nil)

	_, ok := cache.Metadata()
	assert.False(t, ok)
}

func TestCacheMissingEntryReadsAsMiss(t *testing.T) {
	cache := NewCache(NewMemoryStore(), nil)
	_, ok := cache.Classes(models.Tuple{Course: "btech", Semester: "3", Phase: "1"})
	assert.False(t, ok)
}

func TestCatalogRoundTripKeepsFlatEnvelope(t *testing.T) {
	cache := NewCache(NewMemoryStore(), nil)
	combo := models.Combo{Course: "btech", Semester: "5", Phase: "1"}
	catalog := models.ElectiveCatalog{
		Categories:   map[string][]string{"Open Elective 1": {"CS301", "HU302"}},
		CacheVersion: "v7",
	}
	require.NoError(t, cache.SetElectivesDef(combo, catalog))

	got, ok := cache.ElectivesDef(combo)
	require.True(t, ok)
	assert.Equal(t, catalog, got)
}

func TestSaveTupleRemovesEmptyLevels(t *testing.T) {
	mem := NewMemoryStore()
	cache := NewCache(mem, nil)
	cache.SaveTuple(models.Tuple{Course: "btech", Semester: "3", Phase: "1", Batch: "a6"})
	cache.SaveTuple(models.Tuple{Course: "btech", Semester: "3", Phase: "1"})

	_, ok := mem.Get("selectedBatch")
	assert.False(t, ok)
	assert.Equal(t, models.Tuple{Course: "btech", Semester: "3", Phase: "1"}, cache.SavedTuple())
}

func TestPreferencesFlags(t *testing.T) {
	cache := NewCache(NewMemoryStore(), nil)
	assert.Equal(t, models.Preferences{}, cache.Preferences())

	prefs := models.Preferences{TableMode: true, ShowBreaks: true}
	require.NoError(t, cache.SetPreferences(prefs))
	assert.Equal(t, prefs, cache.Preferences())

	require.NoError(t, cache.MarkSwipeHintSeen())
	assert.True(t, cache.SwipeHintSeen())
}

func TestMigrateWipesOnMarkerChange(t *testing.T) {
	mem := NewMemoryStore()
	require.NoError(t, mem.Set("metadata", `{"cacheVersion":"v1"}`))

	wiped, err := Migrate(mem, "2024.1", nil)
	require.NoError(t, err)
	assert.True(t, wiped)
	_, ok := mem.Get("metadata")
	assert.False(t, ok)

	// Same marker on the next boot leaves entries alone.
	require.NoError(t, mem.Set("metadata", `{"cacheVersion":"v2"}`))
	wiped, err = Migrate(mem, "2024.1", nil)
	require.NoError(t, err)
	assert.False(t, wiped)
	_, ok = mem.Get("metadata")
	assert.True(t, ok)
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, fs.Set("allClasses_btech_3_1_a6", `{"cacheVersion":"v1"}`))
	got, ok := fs.Get("allClasses_btech_3_1_a6")
	require.True(t, ok)
	assert.Equal(t, `{"cacheVersion":"v1"}`, got)

	require.NoError(t, fs.Set("electivesDef_btech_3_1", `{}`))
	assert.ElementsMatch(t, []string{"allClasses_btech_3_1_a6"}, fs.Keys("allClasses_"))

	require.NoError(t, fs.Remove("allClasses_btech_3_1_a6"))
	_, ok = fs.Get("allClasses_btech_3_1_a6")
	assert.False(t, ok)

	require.NoError(t, fs.Clear())
	assert.Empty(t, fs.Keys(""))
}

func TestFileStoreRemoveMissingIsNoop(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	assert.NoError(t, fs.Remove("never-written"))
}
