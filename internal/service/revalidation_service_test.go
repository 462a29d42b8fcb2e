package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
	appErrors "github.com/planwise/timetable-companion/pkg/errors"
)

type stubUpstream struct {
	meta       *models.Metadata
	metaErr    error
	onMetadata func()

	version    string
	versionErr error

	classes    *models.ClassesPayload
	classesErr error

	metaCalls    int
	versionCalls int
	classCalls   int
}

func (s *stubUpstream) Metadata(ctx context.Context) (*models.Metadata, error) {
	s.metaCalls++
	if s.onMetadata != nil {
		s.onMetadata()
	}
	return s.meta, s.metaErr
}

func (s *stubUpstream) ClassesVersion(ctx context.Context, t models.Tuple) (string, error) {
	s.versionCalls++
	return s.version, s.versionErr
}

func (s *stubUpstream) Classes(ctx context.Context, t models.Tuple) (*models.ClassesPayload, error) {
	s.classCalls++
	return s.classes, s.classesErr
}

func testTuple() models.Tuple {
	return models.Tuple{Course: "btech", Semester: "3", Phase: "1", Batch: "B1"}
}

func testWeek(version string) *models.ClassesPayload {
	return &models.ClassesPayload{
		Classes: models.WeekData{
			"Monday": {{Start: "9:00 AM", End: "10:00 AM", Subject: "Maths"}},
		},
		CacheVersion: version,
	}
}

func newController(t *testing.T, upstream *stubUpstream) (*RevalidationController, *store.Cache) {
	t.Helper()
	cache := store.NewCache(store.NewMemoryStore(), nil)
	return NewRevalidationController(cache, upstream, nil, nil), cache
}

func TestSyncMetadataFetchesAndPersists(t *testing.T) {
	upstream := &stubUpstream{meta: &models.Metadata{
		Courses:      []models.Option{{ID: "btech", Name: "B.Tech"}},
		CacheVersion: "m1",
	}}
	ctrl, cache := newController(t, upstream)

	got := ctrl.SyncMetadata(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, "m1", got.CacheVersion)
	stored, ok := cache.Metadata()
	require.True(t, ok)
	assert.Equal(t, "m1", stored.CacheVersion)
	assert.Equal(t, models.StatusIdle, ctrl.Status())
	assert.False(t, ctrl.Skeleton())
}

func TestSyncMetadataKeepsCachedOnError(t *testing.T) {
	upstream := &stubUpstream{metaErr: appErrors.ErrUpstream}
	ctrl, cache := newController(t, upstream)
	require.NoError(t, cache.SetMetadata(&models.Metadata{CacheVersion: "m1"}))

	got := ctrl.SyncMetadata(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, "m1", got.CacheVersion)
	assert.Equal(t, models.StatusErrorMetadata, ctrl.Status())
}

func TestSyncMetadataOfflineShortCircuits(t *testing.T) {
	upstream := &stubUpstream{}
	ctrl, cache := newController(t, upstream)
	require.NoError(t, cache.SetMetadata(&models.Metadata{CacheVersion: "m1"}))
	ctrl.SetOnline(false)

	got := ctrl.SyncMetadata(context.Background())

	require.NotNil(t, got)
	assert.Zero(t, upstream.metaCalls)
	assert.False(t, ctrl.Skeleton())
}

func TestSyncClassesVersionMatchSkipsRefetch(t *testing.T) {
	upstream := &stubUpstream{version: "v1", classes: testWeek("v2")}
	ctrl, cache := newController(t, upstream)
	require.NoError(t, cache.SetClasses(testTuple(), testWeek("v1")))

	got := ctrl.SyncClasses(context.Background(), testTuple())

	require.NotNil(t, got)
	assert.Equal(t, "v1", got.CacheVersion)
	assert.Equal(t, 1, upstream.versionCalls)
	assert.Zero(t, upstream.classCalls)
	assert.Equal(t, models.StatusIdle, ctrl.Status())
}

func TestSyncClassesMismatchRefetchesWholesale(t *testing.T) {
	upstream := &stubUpstream{version: "v2", classes: testWeek("v2")}
	ctrl, cache := newController(t, upstream)
	stale := testWeek("v1")
	stale.Classes["Friday"] = []models.ClassItem{{Subject: "Old"}}
	require.NoError(t, cache.SetClasses(testTuple(), stale))

	got := ctrl.SyncClasses(context.Background(), testTuple())

	require.NotNil(t, got)
	assert.Equal(t, "v2", got.CacheVersion)
	assert.Equal(t, 1, upstream.classCalls)

	stored, ok := cache.Classes(testTuple())
	require.True(t, ok)
	// Wholesale overwrite: the stale Friday entry must be gone.
	assert.NotContains(t, stored.Classes, "Friday")
}

func TestSyncClassesNoCachedTokenAlwaysRefetches(t *testing.T) {
	upstream := &stubUpstream{version: "v1", classes: testWeek("v1")}
	ctrl, _ := newController(t, upstream)

	got := ctrl.SyncClasses(context.Background(), testTuple())

	require.NotNil(t, got)
	assert.Equal(t, 1, upstream.classCalls)
}

func TestSyncClassesErrorRetainsLastKnownGood(t *testing.T) {
	upstream := &stubUpstream{versionErr: appErrors.ErrUpstream}
	ctrl, cache := newController(t, upstream)
	require.NoError(t, cache.SetClasses(testTuple(), testWeek("v1")))

	got := ctrl.SyncClasses(context.Background(), testTuple())

	require.NotNil(t, got)
	assert.Equal(t, "v1", got.CacheVersion)
	assert.Equal(t, models.StatusErrorClasses, ctrl.Status())
	_, noData := ctrl.NoData()
	assert.False(t, noData)
}

func TestSyncClassesOfflineUncachedSetsNoData(t *testing.T) {
	upstream := &stubUpstream{}
	ctrl, _ := newController(t, upstream)
	ctrl.SetOnline(false)

	got := ctrl.SyncClasses(context.Background(), testTuple())

	assert.Nil(t, got)
	mode, ok := ctrl.NoData()
	require.True(t, ok)
	assert.Equal(t, models.NoDataOfflineUncached, mode)
	assert.Zero(t, upstream.versionCalls)
}

func TestObserverSeesStatusTransitions(t *testing.T) {
	upstream := &stubUpstream{version: "v1", classes: testWeek("v1")}
	ctrl, _ := newController(t, upstream)

	var transitions []models.SyncStatus
	ctrl.SetObserver(func(s models.SyncStatus) {
		transitions = append(transitions, s)
	})

	ctrl.SyncClasses(context.Background(), testTuple())

	assert.Equal(t, []models.SyncStatus{
		models.StatusCheckingClasses,
		models.StatusUpdatingClasses,
		models.StatusIdle,
	}, transitions)
}

func TestStaleGenerationDiscarded(t *testing.T) {
	upstream := &stubUpstream{version: "v1", classes: testWeek("v1")}
	ctrl, cache := newController(t, upstream)

	gen := ctrl.begin(&ctrl.classGen)
	// A newer class sync supersedes the first generation.
	ctrl.begin(&ctrl.classGen)

	assert.True(t, ctrl.stale(&ctrl.classGen, gen))

	// A full run after supersession still lands normally.
	got := ctrl.SyncClasses(context.Background(), testTuple())
	require.NotNil(t, got)
	_, ok := cache.Classes(testTuple())
	assert.True(t, ok)
}

func TestMetadataSurvivesInterleavedClassSync(t *testing.T) {
	upstream := &stubUpstream{
		meta:    &models.Metadata{CacheVersion: "m1"},
		version: "v1",
		classes: testWeek("v1"),
	}
	ctrl, cache := newController(t, upstream)
	// A class sync kicked off while the metadata fetch is in flight must not
	// supersede it; the two resources carry independent generations.
	upstream.onMetadata = func() {
		ctrl.SyncClasses(context.Background(), testTuple())
	}

	got := ctrl.SyncMetadata(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, "m1", got.CacheVersion)
	stored, ok := cache.Metadata()
	require.True(t, ok)
	assert.Equal(t, "m1", stored.CacheVersion)
}

func TestSyncClassesOnlineErrorUncachedMarksNoMatches(t *testing.T) {
	upstream := &stubUpstream{versionErr: appErrors.ErrUpstream}
	ctrl, _ := newController(t, upstream)

	got := ctrl.SyncClasses(context.Background(), testTuple())

	assert.Nil(t, got)
	mode, ok := ctrl.NoData()
	require.True(t, ok)
	// Online but failed: the viewer is not told it is offline.
	assert.Equal(t, models.NoDataNoMatches, mode)
}
