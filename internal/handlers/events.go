package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tamper_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK             = "ok"
	statusStarted        = "started"
	statusStopped        = "stopped"
	statusAlreadyRunning = "already_running"
	statusNotRunning     = "not_running"
	statusResolved       = "resolved"
	statusDeleted        = "deleted"

	errAddEvent        = "failed to add event"
	errResolveEvent    = "failed to resolve event"
	errDeleteEvent     = "failed to delete event"
	errGenerateEvent   = "failed to generate event"
	errEventNotFound   = "event not found"
	errInvalidBodyPref = "invalid body: "
	errInvalidInterval = "interval_ms must be between 100 and 3600000"
)

const (
	minIntervalMs = 100
	maxIntervalMs = 3_600_000
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// addEventRequest is the manual-add payload.
type addEventRequest struct {
	Status string `json:"status" form:"status" binding:"required" example:"WARNING"`
	Value  string `json:"value,omitempty" form:"value" example:"12.5"`
	Note   string `json:"note,omitempty" form:"note" example:"door ajar"`
}

// startRequest optionally overrides the simulation interval.
type startRequest struct {
	IntervalMs int `json:"interval_ms,omitempty" form:"interval_ms" example:"4000"`
}

// intervalFrom validates an interval in milliseconds. 0 is passed through so
// the simulator falls back to its configured interval.
func intervalFrom(ms int) (time.Duration, error) {
	if ms == 0 {
		return 0, nil
	}
	if ms < minIntervalMs || ms > maxIntervalMs {
		return 0, errors.New(errInvalidInterval)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Add event
// @Description  Manual entry. Blank value draws a random reading in [0,100).
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      addEventRequest  true  "Event payload"
// @Success      201   {object}  models.Event
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/events [post]
func (h *Handler) addEvent(c *gin.Context) {
	var req addEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ev, err := h.services.EventLog.AddManual(c.Request.Context(), service.ManualEntry{
		Status: req.Status,
		Value:  req.Value,
		Note:   req.Note,
	}, nil)
	if err != nil {
		if errors.Is(err, service.ErrStatusRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errAddEvent, "event_add_failed", err, "status", req.Status)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// @Summary      Resolve event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/events/{id}/resolve [post]
func (h *Handler) resolveEvent(c *gin.Context) {
	id := c.Param("id")
	found, err := h.services.EventLog.Resolve(c.Request.Context(), id)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResolveEvent, "event_resolve_failed", err, "id", id)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": errEventNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusResolved, "id": id})
}

// @Summary      Delete event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event ID"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/events/{id} [delete]
func (h *Handler) deleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.EventLog.Delete(c.Request.Context(), id); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteEvent, "event_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted, "id": id})
}

// @Summary      Simulation state
// @Tags         simulation
// @Produce      json
// @Success      200  {object}  service.SimulationState
// @Router       /api/v1/simulation [get]
func (h *Handler) getSimulation(c *gin.Context) {
	c.JSON(http.StatusOK, service.SimulationState{Running: h.services.Simulator.Running()})
}

// @Summary      Start simulation
// @Description  Generates one event immediately, then one per interval. Starting twice is a no-op.
// @Tags         simulation
// @Accept       json
// @Produce      json
// @Param        body  body      startRequest  false  "Interval override"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/simulation/start [post]
func (h *Handler) startSimulation(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
			return
		}
	}
	if ms := c.Query("interval_ms"); ms != "" && req.IntervalMs == 0 {
		v, err := strconv.Atoi(ms)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidInterval})
			return
		}
		req.IntervalMs = v
	}
	interval, err := intervalFrom(req.IntervalMs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := statusAlreadyRunning
	if h.services.Simulator.Start(interval) {
		status = statusStarted
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "running": true})
}

// @Summary      Stop simulation
// @Tags         simulation
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/simulation/stop [post]
func (h *Handler) stopSimulation(c *gin.Context) {
	status := statusNotRunning
	if h.services.Simulator.Stop() {
		status = statusStopped
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "running": false})
}

// @Summary      Generate one event
// @Tags         simulation
// @Produce      json
// @Success      201  {object}  models.Event
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/simulation/once [post]
func (h *Handler) simulateOnce(c *gin.Context) {
	ev, err := h.services.Simulator.GenerateOne(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGenerateEvent, "simulate_once_failed", err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// @Summary      Severity chart data
// @Description  Newest 30 events, oldest first. OK=0, WARNING=1, TAMPER DETECTED=2, other=0.
// @Tags         history
// @Produce      json
// @Success      200  {object}  service.ChartData
// @Router       /api/v1/chart [get]
func (h *Handler) getChart(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Charts.Chart(c.Request.Context()))
}
