package models

import (
	"github.com/shopspring/decimal"
)

// Tax is a named, coded tax rate. Rate is a percentage stored as an exact
// decimal. Collected/paid tax accumulates on the linked control account,
// never on the taxed line item's own account. A tax referenced by a posted
// transaction is immutable.
type Tax struct {
	Base
	EntityID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_tax_entity_code,priority:1;index" json:"entity_id"`
	Name      string          `gorm:"not null" json:"name"`
	Code      string          `gorm:"not null;uniqueIndex:idx_tax_entity_code,priority:2" json:"code"`
	Rate      decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"rate"`
	AccountID string          `gorm:"type:uuid;not null" json:"account_id"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
