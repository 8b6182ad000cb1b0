package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
)

// ChartHandler handles chart-of-accounts and tax requests.
type ChartHandler struct {
	ledgerService services.LedgerServicer
	chartService  services.ChartServicer
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(ledgerService services.LedgerServicer, chartService services.ChartServicer) *ChartHandler {
	return &ChartHandler{ledgerService: ledgerService, chartService: chartService}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name       string `json:"name" binding:"required,max=200"`
	Type       string `json:"type" binding:"required,account_type"`
	CurrencyID string `json:"currency_id"`
}

// CreateAccount adds an account to the entity's chart of accounts.
func (h *ChartHandler) CreateAccount(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.chartService.CreateAccount(entity.ID, req.Name, models.AccountType(req.Type), req.CurrencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// ListAccounts returns the entity's chart of accounts, paginated.
func (h *ChartHandler) ListAccounts(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	accounts, err := h.chartService.ListAccounts(entity.ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// DeactivateAccount marks an account inactive.
func (h *ChartHandler) DeactivateAccount(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.chartService.DeactivateAccount(entity.ID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// CreateTaxRequest represents the request payload for creating a tax
type CreateTaxRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Code      string `json:"code" binding:"required,max=20"`
	Rate      string `json:"rate" binding:"required,decimal_amount"`
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// CreateTax creates a tax rate linked to a control account.
func (h *ChartHandler) CreateTax(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	rate, err := parseAmount(req.Rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tax, err := h.chartService.CreateTax(entity.ID, req.Name, req.Code, rate, req.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tax": tax})
}
