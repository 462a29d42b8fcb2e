package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every endpoint group the router mounts.
type Handlers struct {
	View       *ViewHandler
	Selection  *SelectionHandler
	Elective   *ElectiveHandler
	Preference *PreferenceHandler
	Export     *ExportHandler
	Compare    *CompareHandler
	Timeline   *TimelineHandler
}

// RouterOptions toggles the optional endpoint groups.
type RouterOptions struct {
	ExportEnabled  bool
	MetricsEnabled bool
	Registry       *prometheus.Registry
}

// Register mounts all companion routes on the engine.
func Register(r *gin.Engine, h Handlers, opts RouterOptions) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.MetricsEnabled && opts.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	api.GET("/view/day", h.View.Day)
	api.GET("/view/status", h.View.Status)
	api.POST("/sync", h.View.Sync)

	api.PUT("/selection", h.Selection.Update)
	api.GET("/selection/options", h.Selection.Options)
	api.POST("/selection/day/:direction", h.Selection.CycleDay)

	api.GET("/electives", h.Elective.Catalog)
	api.PUT("/electives/selection", h.Elective.Choose)
	api.POST("/electives/hide-all", h.Elective.HideAll)

	api.GET("/preferences", h.Preference.Get)
	api.PUT("/preferences", h.Preference.Update)
	api.POST("/preferences/swipe-hint", h.Preference.SwipeHintSeen)

	api.GET("/compare/breaks", h.Compare.Breaks)

	api.GET("/timeline", h.Timeline.State)
	api.PUT("/timeline/geometry", h.Timeline.Geometry)
	api.PUT("/timeline/scroll", h.Timeline.Scroll)

	if opts.ExportEnabled {
		api.GET("/export/csv", h.Export.CSV)
		api.GET("/export/pdf", h.Export.PDF)
	}
}
