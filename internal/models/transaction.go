package models

import "time"

// TransactionType selects the balancing polarity of a ledger transaction.
// The four variants form a closed set; polarity is resolved by AnchorDebit,
// not by subtyping.
type TransactionType string

const (
	TransactionTypeCashSale      TransactionType = "CASH_SALE"
	TransactionTypeCashPurchase  TransactionType = "CASH_PURCHASE"
	TransactionTypeClientInvoice TransactionType = "CLIENT_INVOICE"
	TransactionTypeSupplierBill  TransactionType = "SUPPLIER_BILL"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeCashSale, TransactionTypeCashPurchase,
		TransactionTypeClientInvoice, TransactionTypeSupplierBill:
		return true
	}
	return false
}

// AnchorDebit reports whether the anchor account entry is a debit. Sales and
// client invoices debit the anchor (bank/receivable) for the tax-inclusive
// total and credit the line-item and tax control accounts; purchases and
// supplier bills do the opposite.
func (t TransactionType) AnchorDebit() bool {
	switch t {
	case TransactionTypeCashSale, TransactionTypeClientInvoice:
		return true
	}
	return false
}

// AnchorAccountType returns the account type expected on the anchor side.
func (t TransactionType) AnchorAccountType() AccountType {
	switch t {
	case TransactionTypeCashSale, TransactionTypeCashPurchase:
		return AccountTypeBank
	case TransactionTypeClientInvoice:
		return AccountTypeReceivable
	case TransactionTypeSupplierBill:
		return AccountTypePayable
	}
	return ""
}

// DefaultTaxCode returns the tax code applied when the caller does not name
// one: output GST on the sale side, input GST on the purchase side.
func (t TransactionType) DefaultTaxCode() string {
	if t.AnchorDebit() {
		return "GSTOUT"
	}
	return "GSTIN"
}

// Transaction is a typed container of line items anchored on one account.
// It is created unposted and mutable; posting is a one-way transition after
// which the transaction and its line items are frozen.
type Transaction struct {
	Base
	EntityID        string          `gorm:"type:uuid;not null;index:idx_txn_entity_date,priority:1" json:"entity_id"`
	AccountID       string          `gorm:"type:uuid;not null" json:"account_id"`
	Type            TransactionType `gorm:"not null" json:"type"`
	Narration       string          `gorm:"not null" json:"narration"`
	TransactionDate time.Time       `gorm:"not null;index:idx_txn_entity_date,priority:2" json:"transaction_date"`
	Posted          bool            `gorm:"not null;default:false" json:"posted"`

	// Relationships
	Account   Account    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	LineItems []LineItem `gorm:"foreignKey:TransactionID" json:"line_items,omitempty"`
}
