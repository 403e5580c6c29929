package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"energy-insights/dataset"
	"energy-insights/logger"
	"energy-insights/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store        *dataset.Store
	Log          *logger.Logger
	GalleryLimit int
}

func New(store *dataset.Store, log *logger.Logger, galleryLimit int) *Handler {
	return &Handler{Store: store, Log: log.Component("handlers"), GalleryLimit: galleryLimit}
}

// Register mounts the dashboard and the JSON API on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/healthz", h.Health)
	r.GET("/dashboard", h.Dashboard)

	api := r.Group("/api")
	{
		api.GET("/insights", h.GetInsights)
		api.GET("/aggregate", h.GetAggregate)
		api.GET("/filters", h.GetFilters)
		api.GET("/stats", h.GetStats)
		api.GET("/gallery", h.GetGallery)
		api.GET("/export.xlsx", h.ExportWorkbook)
	}
}

func (h *Handler) Health(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"dataset":   "loaded",
		"version":   snap.Version,
		"records":   len(snap.Records),
		"loaded_at": snap.LoadedAt,
	})
}

// bindFilters reads the region, sector and end_year query parameters through
// the selection setters so only values present in the dataset are accepted.
func bindFilters(c *gin.Context, opts models.FilterOptions) (models.FilterSelection, error) {
	sel := models.AllFilters()
	if err := sel.SetRegion(c.DefaultQuery("region", models.All), opts); err != nil {
		return sel, err
	}
	if err := sel.SetSector(c.DefaultQuery("sector", models.All), opts); err != nil {
		return sel, err
	}
	if err := sel.SetEndYear(c.DefaultQuery("end_year", models.All), opts); err != nil {
		return sel, err
	}
	return sel, nil
}

func queryLimit(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// abort answers JSON errors: 503 while the dataset is loading, 400 for bad
// filters, 500 otherwise.
func (h *Handler) abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dataset.ErrNotLoaded):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
	case errors.Is(err, models.ErrUnknownFilterValue):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.Log.WithRequest(c.Request).WithField("error", err.Error()).Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
