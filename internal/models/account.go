package models

import (
	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeControl          AccountType = "CONTROL"
	AccountTypeBank             AccountType = "BANK"
	AccountTypeReceivable       AccountType = "RECEIVABLE"
	AccountTypePayable          AccountType = "PAYABLE"
	AccountTypeOperatingRevenue AccountType = "OPERATING_REVENUE"
	AccountTypeOperatingExpense AccountType = "OPERATING_EXPENSE"
	AccountTypeDirectExpense    AccountType = "DIRECT_EXPENSE"
	AccountTypeNonCurrentAsset  AccountType = "NON_CURRENT_ASSET"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeControl, AccountTypeBank, AccountTypeReceivable,
		AccountTypePayable, AccountTypeOperatingRevenue,
		AccountTypeOperatingExpense, AccountTypeDirectExpense,
		AccountTypeNonCurrentAsset:
		return true
	}
	return false
}

// DebitNormal reports whether accounts of this type increase on the debit
// side. Bank, receivable, asset, and expense accounts are debit-normal;
// payable, revenue, and tax control accounts are credit-normal.
func (t AccountType) DebitNormal() bool {
	switch t {
	case AccountTypeBank, AccountTypeReceivable, AccountTypeNonCurrentAsset,
		AccountTypeOperatingExpense, AccountTypeDirectExpense:
		return true
	}
	return false
}

// ReportBucket returns the income-statement section this account type belongs
// to, or "" when the type does not appear on the income statement.
func (t AccountType) ReportBucket() string {
	switch t {
	case AccountTypeOperatingRevenue:
		return "operating_revenue"
	case AccountTypeDirectExpense:
		return "direct_expense"
	case AccountTypeOperatingExpense:
		return "operating_expense"
	}
	return ""
}

// Account is a row in an entity's chart of accounts. Balance is derived:
// only the posting engine writes it, and only inside the same store
// transaction that marks the owning ledger transaction posted. Accounts
// referenced by posted transactions are never deleted, only deactivated.
type Account struct {
	Base
	EntityID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_account_entity_name,priority:1;index" json:"entity_id"`
	CurrencyID string          `gorm:"type:uuid;not null" json:"currency_id"`
	Name       string          `gorm:"not null;uniqueIndex:idx_account_entity_name,priority:2" json:"name"`
	Type       AccountType     `gorm:"not null" json:"type"`
	Balance    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"balance"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
}
