package services

import (
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/models"
	"tally/internal/pagination"
)

// LedgerServicer defines the contract for ledger bootstrap and entity lookup.
type LedgerServicer interface {
	CreateLedger(entityName string) (*models.Entity, error)
	GetEntityByName(name string) (*models.Entity, error)
	GetEntityByID(id string) (*models.Entity, error)
}

// ChartServicer defines the contract for chart-of-accounts and tax management.
type ChartServicer interface {
	CreateAccount(entityID, name string, accountType models.AccountType, currencyID string) (*models.Account, error)
	CreateTax(entityID, name, code string, rate decimal.Decimal, accountID string) (*models.Tax, error)
	GetAccountByName(entityID, name string) (*models.Account, error)
	GetTaxByCode(entityID, code string) (*models.Tax, error)
	DeactivateAccount(entityID, accountID string) error
	ListAccounts(entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
}

// PostedSummary is returned to the caller after a successful posting.
type PostedSummary struct {
	TransactionID string                 `json:"transaction_id"`
	Type          models.TransactionType `json:"type"`
	Narration     string                 `json:"narration"`
	Date          time.Time              `json:"date"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	TaxAmount     decimal.Decimal        `json:"tax_amount"`
	Total         decimal.Decimal        `json:"total"`
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Posted   *bool
}

// PostingServicer defines the contract for transaction construction and the
// posting engine. Drafts are mutable; Post is the single one-way transition
// into the posted state.
type PostingServicer interface {
	CreateDraft(entityID string, txType models.TransactionType, anchorAccountID, narration string, date time.Time) (*models.Transaction, error)
	AddLineItem(entityID, transactionID, accountID, narration string, amount, quantity decimal.Decimal, taxID *string) (*models.LineItem, error)
	Post(entityID, transactionID string) (*PostedSummary, error)
	Record(entityID string, txType models.TransactionType, narration string, amount, quantity decimal.Decimal, taxCode string, date time.Time) (*PostedSummary, error)
	GetTransactionByID(entityID, transactionID string) (*models.Transaction, error)
	GetTransactions(entityID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// ReportServicer defines the contract for report generation.
type ReportServicer interface {
	IncomeStatement(entityID string, startDate, endDate *time.Time) (*IncomeStatement, error)
}
