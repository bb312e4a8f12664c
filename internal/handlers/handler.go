package handlers

import (
	"net/http"

	_ "tamper_monitor/docs"
	"tamper_monitor/internal/logger"
	"tamper_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// WithMetrics exposes the collectors of g under /metrics.
func (h *Handler) WithMetrics(g prometheus.Gatherer) *Handler {
	h.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerPageRoutes(router)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.dashboard)
	r.GET("/fragments/table", h.tableFragment)

	events := r.Group("/events")
	{
		events.POST("", h.submitManualForm)
		events.POST("/:id/resolve", h.resolveFromPage)
		events.POST("/:id/delete", h.deleteFromPage)
	}

	sim := r.Group("/simulation")
	{
		sim.POST("/start", h.startFromPage)
		sim.POST("/stop", h.stopFromPage)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerHistoryRoutes(api)
		h.registerEventRoutes(api)
		h.registerSimulationRoutes(api)
		api.GET("/chart", h.getChart)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.GET("", h.getHistory)
		history.GET("/export", h.exportCSV)
	}
}

func (h *Handler) registerEventRoutes(api *gin.RouterGroup) {
	events := api.Group("/events")
	{
		// Body example: {"status":"WARNING","value":"12.5","note":"door ajar"}
		events.POST("", h.addEvent)
		events.POST("/:id/resolve", h.resolveEvent)
		events.DELETE("/:id", h.deleteEvent)
	}
}

func (h *Handler) registerSimulationRoutes(api *gin.RouterGroup) {
	sim := api.Group("/simulation")
	{
		sim.GET("", h.getSimulation)
		// Body example: {"interval_ms":4000}
		sim.POST("/start", h.startSimulation)
		sim.POST("/stop", h.stopSimulation)
		sim.POST("/once", h.simulateOnce)
	}
}
