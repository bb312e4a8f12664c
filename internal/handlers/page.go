package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tamper_monitor"
	"tamper_monitor/internal/models"
	"tamper_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	totalCountHdr   = "X-Total-Count"
)

var knownStatuses = []string{tamper_monitor.StatusOK, tamper_monitor.StatusWarn, tamper_monitor.StatusTamper}

type dashboardData struct {
	Rows     []service.TableRow
	Filter   service.TableFilter
	Total    int
	Running  bool
	Statuses []string
}

// renderHTML executes a named template into a buffer first so that a
// failing template never produces a half-written page.
func (h *Handler) renderHTML(c *gin.Context, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		if h.log != nil {
			h.log.Errorw("template_render_failed", "err", err, "template", name)
		}
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// redirectBack sends the browser to the page it came from, or the dashboard.
// Referers pointing at another host are ignored.
func redirectBack(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, sameHostReferer(c.Request))
}

func sameHostReferer(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host == "" || ref.Host != r.Host {
		return "/"
	}
	if ref.Scheme != "" && ref.Scheme != "http" && ref.Scheme != "https" {
		return "/"
	}
	target := ref.EscapedPath()
	if target == "" || strings.HasPrefix(target, "//") {
		target = "/"
	}
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

func (h *Handler) dashboard(c *gin.Context) {
	f, err := parseTableFilter(c)
	if err != nil {
		c.String(http.StatusBadRequest, errLimitInvalid)
		return
	}
	ctx := c.Request.Context()
	h.renderHTML(c, "dashboard", dashboardData{
		Rows:     h.services.EventLog.Rows(ctx, f),
		Filter:   f,
		Total:    len(h.services.EventLog.List(ctx, service.TableFilter{})),
		Running:  h.services.Simulator.Running(),
		Statuses: knownStatuses,
	})
}

// tableFragment renders only the table body, for live refresh.
func (h *Handler) tableFragment(c *gin.Context) {
	f, err := parseTableFilter(c)
	if err != nil {
		c.String(http.StatusBadRequest, errLimitInvalid)
		return
	}
	ctx := c.Request.Context()
	c.Header(totalCountHdr, strconv.Itoa(len(h.services.EventLog.List(ctx, service.TableFilter{}))))
	h.renderHTML(c, "rows", h.services.EventLog.Rows(ctx, f))
}

func (h *Handler) submitManualForm(c *gin.Context) {
	var req addEventRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, errInvalidBodyPref+err.Error())
		return
	}
	_, err := h.services.EventLog.AddManual(c.Request.Context(), service.ManualEntry{
		Status: req.Status,
		Value:  req.Value,
		Note:   req.Note,
	}, func(ev models.Event) {
		if h.log != nil {
			h.log.Infow("manual_event_added", "id", ev.ID, "status", ev.Status)
		}
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("manual_form_failed", "err", err)
		}
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	redirectBack(c)
}

func (h *Handler) resolveFromPage(c *gin.Context) {
	if _, err := h.services.EventLog.Resolve(c.Request.Context(), c.Param("id")); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errResolveEvent, "event_resolve_failed", err, "id", c.Param("id"))
		return
	}
	redirectBack(c)
}

func (h *Handler) deleteFromPage(c *gin.Context) {
	if err := h.services.EventLog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteEvent, "event_delete_failed", err, "id", c.Param("id"))
		return
	}
	redirectBack(c)
}

func (h *Handler) startFromPage(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, errInvalidInterval)
		return
	}
	interval, err := intervalFrom(req.IntervalMs)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	h.services.Simulator.Start(interval)
	redirectBack(c)
}

func (h *Handler) stopFromPage(c *gin.Context) {
	h.services.Simulator.Stop()
	redirectBack(c)
}
