package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"medicine-service/internal/connectivity"
	"medicine-service/internal/models"
	"medicine-service/internal/service"
	"medicine-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	search        *service.SearchService
	advisor       *service.AdvisorService
	reservations  *service.ReservationService
	reports       *service.ReportService
	notifications *service.NotificationService
	preferences   *service.PreferenceService
	gate          connectivity.Watcher
	logger        *zap.Logger
}

// Services groups the services exposed over HTTP
type Services struct {
	Search        *service.SearchService
	Advisor       *service.AdvisorService
	Reservations  *service.ReservationService
	Reports       *service.ReportService
	Notifications *service.NotificationService
	Preferences   *service.PreferenceService
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, gate connectivity.Watcher) *Handler {
	return &Handler{
		search:        services.Search,
		advisor:       services.Advisor,
		reservations:  services.Reservations,
		reports:       services.Reports,
		notifications: services.Notifications,
		preferences:   services.Preferences,
		gate:          gate,
		logger:        util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/medicines", h.searchMedicines)
		v1.GET("/medicines/:id", h.getMedicine)

		v1.POST("/advisor", h.advise)

		v1.POST("/reservations", h.createReservation)
		v1.GET("/reservations", h.listReservations)

		v1.POST("/reports", h.submitReport)
		v1.GET("/reports", h.listReports)
		v1.GET("/reports/stats", h.reportStats)

		v1.POST("/notifications", h.requestNotification)

		v1.GET("/connectivity", h.connectivityStatus)
		v1.GET("/connectivity/stream", h.connectivityStream)

		v1.GET("/preferences", h.getPreferences)
		v1.PUT("/preferences", h.updatePreferences)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"online": h.gate.IsOnline(),
		"time":   time.Now().Unix(),
	})
}

// AdviseRequest is the body of POST /advisor
type AdviseRequest struct {
	Query string `json:"query"`
}

// ReserveRequest is the body of POST /reservations
type ReserveRequest struct {
	MedicineID string `json:"medicineId" binding:"required"`
	PharmacyID string `json:"pharmacyId" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// NotificationRequest is the body of POST /notifications
type NotificationRequest struct {
	MedicineName string `json:"medicineName"`
	PhoneNumber  string `json:"phoneNumber"`
}

// PreferencesRequest is the body of PUT /preferences
type PreferencesRequest struct {
	Language         *string `json:"language"`
	LocationDetected bool    `json:"locationDetected"`
}

func (h *Handler) searchMedicines(c *gin.Context) {
	medicines, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, "Search failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"medicines": medicines,
		"count":     len(medicines),
	})
}

func (h *Handler) getMedicine(c *gin.Context) {
	medicine, err := h.search.GetMedicineByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "Failed to get medicine", err)
		return
	}

	c.JSON(http.StatusOK, medicine)
}

func (h *Handler) advise(c *gin.Context) {
	var req AdviseRequest
	if !bindJSON(c, &req) {
		return
	}

	advice, err := h.advisor.Advise(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, "Advisor failed", err)
		return
	}

	c.JSON(http.StatusOK, advice)
}

func (h *Handler) createReservation(c *gin.Context) {
	var req ReserveRequest
	if !bindJSON(c, &req) {
		return
	}

	reservation, err := h.reservations.Reserve(c.Request.Context(), req.MedicineID, req.PharmacyID, req.Quantity)
	if err != nil {
		h.respondError(c, "Failed to create reservation", err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (h *Handler) listReservations(c *gin.Context) {
	reservations, err := h.reservations.ListUserReservations(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to list reservations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

func (h *Handler) submitReport(c *gin.Context) {
	var req models.QualityReportInput
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reports.SubmitReport(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, "Failed to submit report", err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	reports, err := h.reports.ListUserReports(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to list reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) reportStats(c *gin.Context) {
	stats, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to compute report stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) requestNotification(c *gin.Context) {
	var req NotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	notification, err := h.notifications.RequestNotification(c.Request.Context(), req.MedicineName, req.PhoneNumber)
	if err != nil {
		h.respondError(c, "Failed to register notification", err)
		return
	}

	c.JSON(http.StatusCreated, notification)
}

func (h *Handler) connectivityStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.gate.IsOnline()})
}

// connectivityStream sends the current state, then every online/offline
// transition in order, until the client disconnects
func (h *Handler) connectivityStream(c *gin.Context) {
	queue := newTransitionQueue()
	online, unsubscribe := h.gate.SubscribeWithState(queue.push)
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("connectivity", gin.H{"online": online})

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-queue.ready:
			for _, online := range queue.drain() {
				c.SSEvent("connectivity", gin.H{"online": online})
			}
			return true
		}
	})
}

// transitionQueue buffers transitions for one slow reader. push never blocks
// so the gate is not held up by a client.
type transitionQueue struct {
	mu      sync.Mutex
	pending []bool
	ready   chan struct{}
}

func newTransitionQueue() *transitionQueue {
	return &transitionQueue{ready: make(chan struct{}, 1)}
}

func (q *transitionQueue) push(online bool) {
	q.mu.Lock()
	q.pending = append(q.pending, online)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *transitionQueue) drain() []bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (h *Handler) getPreferences(c *gin.Context) {
	prefs, err := h.preferences.GetPreferences(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to load preferences", err)
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) updatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if req.Language != nil {
		if err := h.preferences.SetLanguage(ctx, *req.Language); err != nil {
			h.respondError(c, "Failed to update preferences", err)
			return
		}
	}
	if req.LocationDetected {
		if err := h.preferences.MarkLocationDetected(ctx); err != nil {
			h.respondError(c, "Failed to update preferences", err)
			return
		}
	}

	h.getPreferences(c)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// respondError maps domain errors onto HTTP status codes
func (h *Handler) respondError(c *gin.Context, message string, err error) {
	body := gin.H{
		"error":   message,
		"details": err.Error(),
	}

	var vErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrOffline):
		c.JSON(http.StatusServiceUnavailable, body)
	case errors.As(err, &vErr):
		body["fields"] = vErr.Fields
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, body)
	default:
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
