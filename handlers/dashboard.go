package handlers

import (
	"errors"
	"net/http"

	"energy-insights/insights"
	"energy-insights/models"

	"github.com/gin-gonic/gin"
)

type DashboardData struct {
	Loading bool
	Filters models.FilterSelection
	Options models.FilterOptions
	Summary insights.Summary
	Result  insights.Result
	Gallery []models.InsightRecord
}

// Dashboard renders the server-side dashboard for the selected filters.
func (h *Handler) Dashboard(c *gin.Context) {
	snap, err := h.Store.Snapshot()
	if err != nil {
		c.HTML(http.StatusOK, "dashboard.html", DashboardData{Loading: true})
		return
	}

	sel, err := bindFilters(c, snap.Options)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrUnknownFilterValue) {
			status = http.StatusBadRequest
		}
		c.HTML(status, "error.html", gin.H{"error": err.Error()})
		return
	}

	res := h.Store.AggregateAt(snap, sel)

	c.HTML(http.StatusOK, "dashboard.html", DashboardData{
		Filters: sel,
		Options: snap.Options,
		Summary: snap.Summary,
		Result:  res,
		Gallery: insights.Gallery(snap.Records, h.galleryLimit()),
	})
}
