package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/planwise/timetable-companion/internal/models"
	"github.com/planwise/timetable-companion/internal/store"
)

type upstreamClient interface {
	Metadata(ctx context.Context) (*models.Metadata, error)
	ClassesVersion(ctx context.Context, t models.Tuple) (string, error)
	Classes(ctx context.Context, t models.Tuple) (*models.ClassesPayload, error)
}

// RevalidationController drives the cached-first refresh protocol: show the
// cached copy immediately, probe the upstream version token, and refetch the
// full payload only on a mismatch. Refreshed data always overwrites the cache
// wholesale. Errors never surface to callers; the status moves to an error
// state and the last-known-good copy stays in place.
type RevalidationController struct {
	cache   *store.Cache
	client  upstreamClient
	metrics *MetricsService
	logger  *zap.Logger

	mu       sync.Mutex
	status   models.SyncStatus
	observer func(models.SyncStatus)
	metaGen  string
	classGen string
	skeleton bool
	noData   models.NoDataMode
	online   bool
}

// NewRevalidationController builds the controller. Connectivity starts
// optimistic; the daemon's probe flips it.
func NewRevalidationController(cache *store.Cache, client upstreamClient, metrics *MetricsService, logger *zap.Logger) *RevalidationController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevalidationController{
		cache:   cache,
		client:  client,
		metrics: metrics,
		logger:  logger,
		online:  true,
	}
}

// SetObserver registers a callback fired on every status transition.
func (c *RevalidationController) SetObserver(fn func(models.SyncStatus)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// Status returns the current sync state.
func (c *RevalidationController) Status() models.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Skeleton reports whether the UI should show a loading skeleton: a sync is
// underway with nothing cached to display meanwhile.
func (c *RevalidationController) Skeleton() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skeleton
}

// NoData returns the reason the last class sync produced nothing, or false
// when data is available.
func (c *RevalidationController) NoData() (models.NoDataMode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.noData, c.noData != ""
}

// SetOnline records the connectivity state observed by the daemon.
func (c *RevalidationController) SetOnline(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
}

// Online reports the last observed connectivity state.
func (c *RevalidationController) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// SyncMetadata refreshes the course metadata. The cached copy is returned to
// the caller before any network work happens in the sense that it is always
// the fallback result; a successful refetch returns the fresh copy instead.
func (c *RevalidationController) SyncMetadata(ctx context.Context) *models.Metadata {
	gen := c.begin(&c.metaGen)

	cached, hasCached := c.cache.Metadata()
	c.countCache("metadata", hasCached)

	c.mu.Lock()
	c.skeleton = !hasCached
	online := c.online
	c.mu.Unlock()

	if !online {
		// Offline: stop looking, drop the skeleton so the empty state shows.
		c.mu.Lock()
		c.skeleton = false
		c.mu.Unlock()
		c.setStatus(&c.metaGen, gen, models.StatusIdle)
		c.metrics.SyncOutcome("metadata", "offline")
		return cached
	}

	c.setStatus(&c.metaGen, gen, models.StatusCheckingMetadata)

	started := time.Now()
	fresh, err := c.client.Metadata(ctx)
	c.metrics.UpstreamLatency("metadata", time.Since(started).Seconds())

	if c.stale(&c.metaGen, gen) {
		c.logger.Debug("discarding stale metadata response")
		c.metrics.SyncOutcome("metadata", "stale")
		return cached
	}
	if err != nil {
		c.logger.Warn("metadata refresh failed", zap.Error(err))
		c.setStatus(&c.metaGen, gen, models.StatusErrorMetadata)
		c.metrics.SyncOutcome("metadata", "error")
		c.mu.Lock()
		c.skeleton = false
		c.mu.Unlock()
		return cached
	}

	result := cached
	if !hasCached || fresh.CacheVersion != cached.CacheVersion {
		c.setStatus(&c.metaGen, gen, models.StatusUpdatingMetadata)
		if err := c.cache.SetMetadata(fresh); err != nil {
			c.logger.Warn("persist metadata", zap.Error(err))
		}
		result = fresh
		c.metrics.SyncOutcome("metadata", "refetch")
	} else {
		c.metrics.SyncOutcome("metadata", "match")
	}

	c.mu.Lock()
	c.skeleton = false
	c.mu.Unlock()
	c.setStatus(&c.metaGen, gen, models.StatusIdle)
	return result
}

// SyncClasses refreshes the week data for one tuple: cached copy first, cheap
// version probe, full refetch only on token mismatch. Returns the freshest
// usable payload, or nil when nothing is available.
func (c *RevalidationController) SyncClasses(ctx context.Context, t models.Tuple) *models.ClassesPayload {
	gen := c.begin(&c.classGen)

	cached, hasCached := c.cache.Classes(t)
	c.countCache("classes", hasCached)

	c.mu.Lock()
	c.skeleton = !hasCached
	online := c.online
	c.noData = ""
	c.mu.Unlock()

	if !online {
		c.mu.Lock()
		c.skeleton = false
		if !hasCached {
			c.noData = models.NoDataOfflineUncached
		}
		c.mu.Unlock()
		c.setStatus(&c.classGen, gen, models.StatusIdle)
		c.metrics.SyncOutcome("classes", "offline")
		return cached
	}

	c.setStatus(&c.classGen, gen, models.StatusCheckingClasses)

	started := time.Now()
	version, err := c.client.ClassesVersion(ctx, t)
	c.metrics.UpstreamLatency("classes-version", time.Since(started).Seconds())

	if c.stale(&c.classGen, gen) {
		c.metrics.SyncOutcome("classes", "stale")
		return cached
	}
	if err != nil {
		c.logger.Warn("class version probe failed", zap.Error(err))
		c.setStatus(&c.classGen, gen, models.StatusErrorClasses)
		c.metrics.SyncOutcome("classes", "error")
		c.finishClasses(cached)
		return cached
	}

	if hasCached && version != "" && cached.CacheVersion == version {
		c.setStatus(&c.classGen, gen, models.StatusIdle)
		c.metrics.SyncOutcome("classes", "match")
		c.finishClasses(cached)
		return cached
	}

	c.setStatus(&c.classGen, gen, models.StatusUpdatingClasses)

	started = time.Now()
	payload, err := c.client.Classes(ctx, t)
	c.metrics.UpstreamLatency("classes", time.Since(started).Seconds())

	if c.stale(&c.classGen, gen) {
		c.metrics.SyncOutcome("classes", "stale")
		return cached
	}
	if err != nil {
		c.logger.Warn("class refetch failed", zap.Error(err))
		c.setStatus(&c.classGen, gen, models.StatusErrorClasses)
		c.metrics.SyncOutcome("classes", "error")
		c.finishClasses(cached)
		return cached
	}

	if err := c.cache.SetClasses(t, payload); err != nil {
		c.logger.Warn("persist classes", zap.Error(err))
	}
	c.metrics.SyncOutcome("classes", "refetch")
	c.setStatus(&c.classGen, gen, models.StatusIdle)
	c.finishClasses(payload)
	return payload
}

// begin opens a new sync generation in the given slot; any in-flight
// completion tagged with an older generation gets discarded. Metadata and
// class syncs carry independent generations, so one never supersedes the
// other.
func (c *RevalidationController) begin(slot *string) string {
	gen := uuid.NewString()
	c.mu.Lock()
	*slot = gen
	c.mu.Unlock()
	return gen
}

func (c *RevalidationController) stale(slot *string, gen string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *slot != gen
}

// setStatus transitions the status and notifies the observer, but only while
// the generation is still current in its slot.
func (c *RevalidationController) setStatus(slot *string, gen string, status models.SyncStatus) {
	c.mu.Lock()
	if *slot != gen {
		c.mu.Unlock()
		return
	}
	c.status = status
	observer := c.observer
	c.mu.Unlock()
	if observer != nil {
		observer(status)
	}
}

func (c *RevalidationController) finishClasses(payload *models.ClassesPayload) {
	c.mu.Lock()
	c.skeleton = false
	if payload == nil {
		c.noData = models.NoDataNoMatches
		if !c.online {
			c.noData = models.NoDataOfflineUncached
		}
	}
	c.mu.Unlock()
}

func (c *RevalidationController) countCache(kind string, hit bool) {
	if hit {
		c.metrics.CacheHit(kind)
		return
	}
	c.metrics.CacheMiss(kind)
}
