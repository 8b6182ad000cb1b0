package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"tally/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestEntity creates an entity with a default AUD currency and no
// accounts.
func CreateTestEntity(t *testing.T, db *gorm.DB) *models.Entity {
	t.Helper()

	entity := &models.Entity{Name: fmt.Sprintf("Entity %d", nextID())}
	if err := db.Create(entity).Error; err != nil {
		t.Fatalf("failed to create test entity: %v", err)
	}

	currency := &models.Currency{
		EntityID:  entity.ID,
		Name:      "Australian Dollars",
		Code:      "AUD",
		IsDefault: true,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}

	return entity
}

// DefaultCurrency returns the entity's default currency.
func DefaultCurrency(t *testing.T, db *gorm.DB, entityID string) *models.Currency {
	t.Helper()

	var currency models.Currency
	if err := db.Where("entity_id = ? AND is_default = ?", entityID, true).First(&currency).Error; err != nil {
		t.Fatalf("failed to load default currency: %v", err)
	}
	return &currency
}

// CreateTestAccount creates an account of the given type for the entity.
func CreateTestAccount(t *testing.T, db *gorm.DB, entityID string, accountType models.AccountType) *models.Account {
	t.Helper()
	return CreateTestAccountNamed(t, db, entityID, fmt.Sprintf("%s %d", accountType, nextID()), accountType)
}

// CreateTestAccountNamed creates an account with an explicit name.
func CreateTestAccountNamed(t *testing.T, db *gorm.DB, entityID, name string, accountType models.AccountType) *models.Account {
	t.Helper()

	currency := DefaultCurrency(t, db, entityID)
	account := &models.Account{
		EntityID:   entityID,
		CurrencyID: currency.ID,
		Name:       name,
		Type:       accountType,
		Balance:    decimal.Zero,
		IsActive:   true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTax creates a tax at the given percentage rate on a fresh
// control account.
func CreateTestTax(t *testing.T, db *gorm.DB, entityID string, rate int64) *models.Tax {
	t.Helper()

	control := CreateTestAccount(t, db, entityID, models.AccountTypeControl)
	tax := &models.Tax{
		EntityID:  entityID,
		Name:      fmt.Sprintf("Tax %d", nextID()),
		Code:      fmt.Sprintf("TAX%d", nextID()),
		Rate:      decimal.NewFromInt(rate),
		AccountID: control.ID,
	}
	if err := db.Create(tax).Error; err != nil {
		t.Fatalf("failed to create test tax: %v", err)
	}
	return tax
}

// AccountBalance reloads an account and returns its balance.
func AccountBalance(t *testing.T, db *gorm.DB, accountID string) decimal.Decimal {
	t.Helper()

	var account models.Account
	if err := db.Where("id = ?", accountID).First(&account).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	return account.Balance
}
