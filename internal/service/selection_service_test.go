package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
)

func testMetadata() *models.Metadata {
	return &models.Metadata{
		Courses: []models.Option{
			{ID: "btech", Name: "B.Tech"},
			{ID: "mtech", Name: "M.Tech"},
		},
		Semesters: map[string][]models.Option{
			"btech": {{ID: "3", Name: "Semester 3"}, {ID: "5", Name: "Semester 5"}},
			"mtech": {{ID: "1", Name: "Semester 1"}},
		},
		Phases: map[string]map[string][]models.Option{
			"btech": {
				"3": {{ID: "1", Name: "Phase 1"}, {ID: "2", Name: "Phase 2"}},
			},
		},
		Batches: map[string]map[string]map[string][]models.Option{
			"btech": {
				"3": {
					"1": {{ID: "B1", Name: "Batch 1"}, {ID: "B2", Name: "Batch 2"}},
				},
			},
		},
	}
}

func newSelectionFixture(t *testing.T) (*SelectionService, *store.Cache) {
	t.Helper()
	cache := store.NewCache(store.NewMemoryStore(), nil)
	return NewSelectionService(cache, nil, nil), cache
}

func TestResolveSavedValuesSurvive(t *testing.T) {
	saved := models.Tuple{Course: "btech", Semester: "3", Phase: "2", Batch: "B2"}

	got := Resolve(testMetadata(), saved)

	// Phase 2 has no batch list, so the batch empties out.
	assert.Equal(t, models.Tuple{Course: "btech", Semester: "3", Phase: "2"}, got)
}

func TestResolveFallsBackToFirstAvailable(t *testing.T) {
	saved := models.Tuple{Course: "gone", Semester: "gone", Phase: "gone", Batch: "gone"}

	got := Resolve(testMetadata(), saved)

	assert.Equal(t, models.Tuple{Course: "btech", Semester: "3", Phase: "1", Batch: "B1"}, got)
}

func TestResolvePhaseDefaultsWithoutMetadataEntry(t *testing.T) {
	// mtech has semesters but no phase map, phase still resolves to "1".
	got := Resolve(testMetadata(), models.Tuple{Course: "mtech"})

	assert.Equal(t, models.Tuple{Course: "mtech", Semester: "1", Phase: "1"}, got)
}

func TestResolveEmptyMetadata(t *testing.T) {
	got := Resolve(&models.Metadata{}, models.Tuple{Course: "btech"})

	assert.Equal(t, models.Tuple{Phase: models.DefaultPhase}, got)
}

func TestResolveIdempotent(t *testing.T) {
	meta := testMetadata()
	first := Resolve(meta, models.Tuple{Course: "mtech", Batch: "B9"})
	second := Resolve(meta, first)

	assert.Equal(t, first, second)
}

func TestApplyMetadataPersistsResolvedTuple(t *testing.T) {
	svc, cache := newSelectionFixture(t)

	sel := svc.ApplyMetadata(testMetadata())

	assert.Equal(t, "btech", sel.Course)
	assert.Equal(t, sel.Tuple, cache.SavedTuple())
}

func TestSetCourseCascadesDownward(t *testing.T) {
	svc, cache := newSelectionFixture(t)
	svc.ApplyMetadata(testMetadata())

	sel := svc.SetCourse("mtech")

	assert.Equal(t, "mtech", sel.Course)
	assert.Equal(t, "1", sel.Semester)
	assert.Equal(t, models.DefaultPhase, sel.Phase)
	assert.Empty(t, sel.Batch)
	assert.Equal(t, sel.Tuple, cache.SavedTuple())
}

func TestSetPhaseResetsBatch(t *testing.T) {
	svc, _ := newSelectionFixture(t)
	svc.ApplyMetadata(testMetadata())
	require.Equal(t, "B1", svc.Current().Batch)

	sel := svc.SetPhase("2")

	assert.Equal(t, "2", sel.Phase)
	assert.Empty(t, sel.Batch)
}

func TestApplyRejectsUnknownLevel(t *testing.T) {
	svc, _ := newSelectionFixture(t)
	svc.ApplyMetadata(testMetadata())

	_, err := svc.Apply(ChangeRequest{Level: "galaxy", Value: "x"})

	require.Error(t, err)
}

func TestSetDayValidatesDayName(t *testing.T) {
	svc, _ := newSelectionFixture(t)

	_, err := svc.SetDay("Funday")
	require.Error(t, err)

	sel, err := svc.SetDay("Wednesday")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", sel.Day)
}

func TestDayCyclingWraps(t *testing.T) {
	svc, _ := newSelectionFixture(t)
	_, err := svc.SetDay("Saturday")
	require.NoError(t, err)

	assert.Equal(t, "Sunday", svc.NextDay().Day)
	assert.Equal(t, "Saturday", svc.PrevDay().Day)
}

func TestOptionListingsFollowSelection(t *testing.T) {
	svc, _ := newSelectionFixture(t)
	svc.ApplyMetadata(testMetadata())

	assert.Len(t, svc.Courses(), 2)
	assert.Len(t, svc.Semesters(), 2)
	assert.Len(t, svc.Phases(), 2)
	assert.Len(t, svc.Batches(), 2)

	svc.SetCourse("mtech")
	assert.Len(t, svc.Phases(), 0)
	assert.Len(t, svc.Batches(), 0)
}
