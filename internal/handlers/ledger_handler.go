package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/services"
)

// LedgerHandler handles ledger bootstrap requests.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CreateLedgerRequest represents the request payload for creating a ledger
type CreateLedgerRequest struct {
	EntityName string `json:"entity_name" binding:"required,max=200"`
}

// CreateLedger sets up a reporting entity with its default currency, chart
// of accounts, and taxes.
func (h *LedgerHandler) CreateLedger(c *gin.Context) {
	var req CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entity, err := h.ledgerService.CreateLedger(req.EntityName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entity": entity})
}

// GetLedger returns the entity addressed by the path.
func (h *LedgerHandler) GetLedger(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entity": entity})
}
