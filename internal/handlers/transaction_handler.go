package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
)

// TransactionHandler handles transaction recording and the draft/post flow.
type TransactionHandler struct {
	ledgerService  services.LedgerServicer
	postingService services.PostingServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer, postingService services.PostingServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService, postingService: postingService}
}

// RecordRequest represents the request payload for the one-shot recording
// operations (cash sale, cash purchase, client invoice, supplier bill).
type RecordRequest struct {
	Narration string `json:"narration" binding:"required,max=500"`
	Amount    string `json:"amount" binding:"required,decimal_amount"`
	Quantity  string `json:"quantity" binding:"omitempty,decimal_amount"`
	TaxCode   string `json:"tax_code" binding:"omitempty,max=20"`
	Date      string `json:"date" binding:"omitempty"`
}

// RecordCashSale records a cash sale: bank account debited for the
// tax-inclusive total, revenue credited, tax control credited.
func (h *TransactionHandler) RecordCashSale(c *gin.Context) {
	h.record(c, models.TransactionTypeCashSale)
}

// RecordCashPurchase records a cash purchase: bank credited, expense and tax
// control debited.
func (h *TransactionHandler) RecordCashPurchase(c *gin.Context) {
	h.record(c, models.TransactionTypeCashPurchase)
}

// RecordClientInvoice records a credit sale against the receivable account.
func (h *TransactionHandler) RecordClientInvoice(c *gin.Context) {
	h.record(c, models.TransactionTypeClientInvoice)
}

// RecordSupplierBill records a credit purchase against the payable account.
func (h *TransactionHandler) RecordSupplierBill(c *gin.Context) {
	h.record(c, models.TransactionTypeSupplierBill)
}

func (h *TransactionHandler) record(c *gin.Context, txType models.TransactionType) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != "" {
		quantity, err = parseAmount(req.Quantity)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	date := time.Now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	summary, err := h.postingService.Record(entity.ID, txType, req.Narration, amount, quantity, req.TaxCode, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": summary})
}

// CreateDraftRequest represents the request payload for creating a draft
// transaction.
type CreateDraftRequest struct {
	Type            string `json:"type" binding:"required"`
	AnchorAccountID string `json:"anchor_account_id" binding:"required,uuid"`
	Narration       string `json:"narration" binding:"required,max=500"`
	Date            string `json:"date" binding:"omitempty"`
}

// CreateDraft creates an unposted transaction that line items can be added to.
func (h *TransactionHandler) CreateDraft(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = parseDate(req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	draft, err := h.postingService.CreateDraft(entity.ID, models.TransactionType(req.Type), req.AnchorAccountID, req.Narration, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": draft})
}

// AddLineItemRequest represents the request payload for adding a line item
// to a draft transaction.
type AddLineItemRequest struct {
	AccountID string  `json:"account_id" binding:"required,uuid"`
	Narration string  `json:"narration" binding:"omitempty,max=500"`
	Amount    string  `json:"amount" binding:"required,decimal_amount"`
	Quantity  string  `json:"quantity" binding:"omitempty,decimal_amount"`
	TaxID     *string `json:"tax_id" binding:"omitempty,uuid"`
}

// AddLineItem appends a line item to an unposted transaction.
func (h *TransactionHandler) AddLineItem(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != "" {
		quantity, err = parseAmount(req.Quantity)
		if err != nil {
			respondWithError(c, err)
			return
		}
	}

	item, err := h.postingService.AddLineItem(entity.ID, c.Param("id"), req.AccountID, req.Narration, amount, quantity, req.TaxID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"line_item": item})
}

// PostTransaction posts a draft transaction, committing its monetary effect.
func (h *TransactionHandler) PostTransaction(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.postingService.Post(entity.ID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": summary})
}

// GetTransaction returns a transaction with its line items.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	entity, err := h.ledgerService.GetEntityByName(c.Param("entity"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.postingService.GetTransactionByID(entity.ID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ListTransactions returns the entity's transactions, newest first.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
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

	filter := services.TransactionFilter{}
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.FromDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
		inclusive := endOfDay(parsed)
		filter.ToDate = &inclusive
	}
	if raw := c.Query("type"); raw != "" {
		txType := models.TransactionType(raw)
		filter.Type = &txType
	}

	transactions, err := h.postingService.GetTransactions(entity.ID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}
