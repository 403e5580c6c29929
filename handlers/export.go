package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"energy-insights/export"

	"github.com/gin-gonic/gin"
)

// ExportWorkbook downloads the filtered views as an XLSX workbook.
func (h *Handler) ExportWorkbook(c *gin.Context) {
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

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, res, snap.Summary); err != nil {
		h.abort(c, fmt.Errorf("export workbook: %w", err))
		return
	}
	name := fmt.Sprintf("energy-insights-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
