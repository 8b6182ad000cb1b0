package models

import (
	"github.com/shopspring/decimal"
)

// LineItem is a single monetary amount attributed to one account within a
// transaction. Amount is non-negative at the model level; the owning
// transaction's type determines the entry direction. Tax, when present, is
// computed on the effective value and routed to the tax's control account.
type LineItem struct {
	Base
	EntityID      string          `gorm:"type:uuid;not null;index" json:"entity_id"`
	TransactionID string          `gorm:"type:uuid;not null;index" json:"transaction_id"`
	AccountID     string          `gorm:"type:uuid;not null;index" json:"account_id"`
	Narration     string          `json:"narration"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"amount"`
	Quantity      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:1" json:"quantity"`
	TaxID         *string         `gorm:"type:uuid" json:"tax_id,omitempty"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Tax     *Tax    `gorm:"foreignKey:TaxID" json:"tax,omitempty"`
}

// EffectiveValue returns amount × quantity, excluding tax.
func (l *LineItem) EffectiveValue() decimal.Decimal {
	return l.Amount.Mul(l.Quantity)
}
