package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/services"
)

// ReportHandler handles report generation requests.
type ReportHandler struct {
	ledgerService services.LedgerServicer
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ledgerService services.LedgerServicer, reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{ledgerService: ledgerService, reportService: reportService}
}

// IncomeStatement generates the profit-and-loss report for the entity over
// an optional date range. Both bounds are inclusive; omitted bounds are
// unbounded.
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var startDate, endDate *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
		startDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
		inclusive := endOfDay(parsed)
		endDate = &inclusive
	}

	report, err := h.reportService.IncomeStatement(entity.ID, startDate, endDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
