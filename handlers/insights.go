package handlers

import (
	"net/http"

	"energy-insights/insights"

	"github.com/gin-gonic/gin"
)

const defaultInsightsLimit = 50

// GetInsights lists the filtered records, capped by ?limit (default 50).
func (h *Handler) GetInsights(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		h.abort(c, err)
		return
	}
	sel, err := bindFilters(c, snap.Options)
	if err != nil {
		h.abort(c, err)
		return
	}
	limit := queryLimit(c, "limit", defaultInsightsLimit)

	filtered := insights.Filter(snap.Records, sel)
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"filters": sel,
		"total":   total,
		"records": filtered,
	})
}

func (h *Handler) GetAggregate(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		h.abort(c, err)
		return
	}
	sel, err := bindFilters(c, snap.Options)
	if err != nil {
		h.abort(c, err)
		return
	}
	res := h.Store.AggregateAt(snap, sel)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetFilters(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Options)
}

func (h *Handler) GetStats(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Summary)
}

func (h *Handler) GetGallery(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		h.abort(c, err)
		return
	}
	limit := queryLimit(c, "limit", h.galleryLimit())
	c.JSON(http.StatusOK, insights.Gallery(snap.Records, limit))
}

func (h *Handler) galleryLimit() int {
	if h.GalleryLimit > 0 {
		return h.GalleryLimit
	}
	return insights.DefaultGalleryLimit
}
