package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tamper_monitor"
	"tamper_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLimitInvalid = "invalid 'limit'; use a non-negative integer"
	errExport       = "failed to export history"
	noticeNoRecords = "No records to export"

	csvContentType = "text/csv; charset=utf-8"
)

// parseTableFilter reads q, status and limit from the query string.
func parseTableFilter(c *gin.Context) (service.TableFilter, error) {
	f := service.TableFilter{
		Q:      c.Query("q"),
		Status: strings.TrimSpace(c.Query("status")),
	}
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return service.TableFilter{}, fmt.Errorf("invalid limit %q", s)
		}
		f.Limit = n
	}
	return f, nil
}

// @Summary      List history
// @Description  Text filter (case-insensitive over status, value, note and timestamp), then exact status, then limit. Newest first.
// @Tags         history
// @Produce      json
// @Param        q       query     string  false  "Free-text filter"  example(warn)
// @Param        status  query     string  false  "Exact status"  Enums(OK,WARNING,TAMPER DETECTED)
// @Param        limit   query     int     false  "Max rows (0 = all)"
// @Success      200     {object}  map[string]interface{}  "count, events"
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	f, err := parseTableFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
		return
	}
	events := h.services.EventLog.List(c.Request.Context(), f)
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Export history as CSV
// @Description  Entire history, unfiltered. Header: timestamp,status,value,note,resolved.
// @Tags         history
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/export [get]
func (h *Handler) exportCSV(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.services.Exporter.ExportCSV(c.Request.Context(), &buf)
	if err != nil {
		if errors.Is(err, service.ErrEmptyHistory) {
			c.JSON(http.StatusNotFound, gin.H{"error": noticeNoRecords})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errExport, "history_export_failed", err)
		return
	}
	if h.log != nil {
		h.log.Debugw("history_exported", "rows", n)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, tamper_monitor.ExportFileName))
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}
