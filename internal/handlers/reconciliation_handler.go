package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"timecard-reconciliation-backend/internal/models"
	"timecard-reconciliation-backend/internal/services/reconciliation"
)

// Runner is the slice of the reconciliation service the handlers call.
type Runner interface {
	Run(ctx context.Context, q reconciliation.Query) (*models.RunResult, error)
}

// ReportArchive is the read side of the report sink.
type ReportArchive interface {
	List() ([]string, error)
	Read(name string) ([]byte, error)
}

type runRequest struct {
	FromDate            string `json:"from_date"`
	ToDate              string `json:"to_date"`
	VenueID             string `json:"venue_id"`
	ClockEventID        string `json:"clock_event_id"`
	RunType             string `json:"run_type"`
	IncludeAllEmployees bool   `json:"include_all_employees"`
	AllowPartialSources bool   `json:"allow_partial_sources"`
}

// Run starts an ad-hoc reconciliation. Callers supply a date window, or a
// single clock event id, and optionally a venue to narrow both feeds.
func (h *ReconciliationHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if (req.FromDate == "" || req.ToDate == "") && req.ClockEventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from_date and to_date, or clock_event_id, required"})
		return
	}

	q := reconciliation.Query{
		FromDate:            req.FromDate,
		ToDate:              req.ToDate,
		VenueID:             req.VenueID,
		ClockEventID:        req.ClockEventID,
		RunType:             req.RunType,
		BusinessDayClosed:   h.dayClosed(req.ToDate),
		IncludeAllEmployees: req.IncludeAllEmployees,
		AllowPartialSources: req.AllowPartialSources,
	}
	if q.RunType == "" {
		switch {
		case q.ClockEventID != "":
			q.RunType = "single_event"
		case q.VenueID != "":
			q.RunType = "venue_specific"
		default:
			q.RunType = "date_range"
		}
	}

	result, err := h.service.Run(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunDaily reconciles yesterday's business day. The scheduler hits this
// endpoint once the day has closed everywhere.
func (h *ReconciliationHandler) RunDaily(c *gin.Context) {
	yesterday := h.now().AddDate(0, 0, -1).Format("2006-01-02")

	result, err := h.service.Run(c.Request.Context(), reconciliation.Query{
		FromDate:          yesterday,
		ToDate:            yesterday,
		RunType:           "daily_scheduled",
		BusinessDayClosed: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListReports returns the archived report file names, newest first.
func (h *ReconciliationHandler) ListReports(c *gin.Context) {
	names, err := h.reports.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": names})
}

// GetReport serves one archived report as plain text.
func (h *ReconciliationHandler) GetReport(c *gin.Context) {
	contents, err := h.reports.Read(c.Param("name"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", contents)
}

// dayClosed reports whether the reconciled window ended before today. Odd
// punch counts on a still-open day are expected, not findings.
func (h *ReconciliationHandler) dayClosed(toDate string) bool {
	if toDate == "" {
		return false
	}
	return toDate < h.now().Format("2006-01-02")
}

type ReconciliationHandler struct {
	service Runner
	reports ReportArchive
	now     func() time.Time
}

func NewReconciliationHandler(s Runner, reports ReportArchive) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, reports: reports, now: time.Now}
}
