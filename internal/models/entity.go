package models

// Entity represents a reporting organization. Every other ledger row is
// scoped to exactly one entity; cross-entity references are rejected at the
// service layer.
type Entity struct {
	Base
	Name string `gorm:"not null;uniqueIndex" json:"name"`

	// Relationships
	Currencies []Currency `gorm:"foreignKey:EntityID" json:"currencies,omitempty"`
	Accounts   []Account  `gorm:"foreignKey:EntityID" json:"accounts,omitempty"`
}

// Currency belongs to one entity. One currency per entity is designated the
// default and is used for bootstrapped accounts.
type Currency struct {
	Base
	EntityID  string `gorm:"type:uuid;not null;uniqueIndex:idx_currency_entity_code,priority:1" json:"entity_id"`
	Name      string `gorm:"not null" json:"name"`
	Code      string `gorm:"not null;uniqueIndex:idx_currency_entity_code,priority:2" json:"code"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
}
