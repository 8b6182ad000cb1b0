package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
)

// Default chart-of-accounts names created by CreateLedger. The one-shot
// recording operations resolve their accounts by these names.
const (
	TaxAccountName      = "Tax Account"
	BankAccountName     = "Bank Account"
	RevenueAccountName  = "Revenue Account"
	ClientAccountName   = "Client Account"
	SupplierAccountName = "Supplier Account"
	OpexAccountName     = "Opex Account"
	ExpenseAccountName  = "Expense Account"
	AssetAccountName    = "Asset Account"
)

// Default tax codes seeded by CreateLedger. The rates are seed data, not
// business rules; further taxes can be created with any non-negative rate.
const (
	OutputTaxCode = "GSTOUT"
	InputTaxCode  = "GSTIN"
)

// ledgerService handles entity bootstrap and lookup.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// CreateLedger creates a reporting entity with a default currency, chart of
// accounts, and taxes. The whole bootstrap commits atomically; an existing
// entity of the same name is rejected untouched.
func (s *ledgerService) CreateLedger(entityName string) (*models.Entity, error) {
	if entityName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entity name is required")
	}

	entity := &models.Entity{Name: entityName}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The unique index on entities.name decides name collisions, so
		// concurrent bootstraps of the same name both resolve correctly.
		if err := tx.Create(entity).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEntityExists
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		currency := &models.Currency{
			EntityID:  entity.ID,
			Name:      "Australian Dollars",
			Code:      "AUD",
			IsDefault: true,
		}
		if err := tx.Create(currency).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		accounts := []*models.Account{
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: TaxAccountName, Type: models.AccountTypeControl, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: BankAccountName, Type: models.AccountTypeBank, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: RevenueAccountName, Type: models.AccountTypeOperatingRevenue, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: ClientAccountName, Type: models.AccountTypeReceivable, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: SupplierAccountName, Type: models.AccountTypePayable, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: OpexAccountName, Type: models.AccountTypeOperatingExpense, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: ExpenseAccountName, Type: models.AccountTypeDirectExpense, IsActive: true},
			{EntityID: entity.ID, CurrencyID: currency.ID, Name: AssetAccountName, Type: models.AccountTypeNonCurrentAsset, IsActive: true},
		}
		for _, account := range accounts {
			account.Balance = decimal.Zero
			if err := tx.Create(account).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		taxAccount := accounts[0]
		taxes := []*models.Tax{
			{EntityID: entity.ID, Name: "Output GST", Code: OutputTaxCode, Rate: decimal.NewFromInt(20), AccountID: taxAccount.ID},
			{EntityID: entity.ID, Name: "Input GST", Code: InputTaxCode, Rate: decimal.NewFromInt(10), AccountID: taxAccount.ID},
		}
		for _, t := range taxes {
			if err := tx.Create(t).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// GetEntityByName retrieves an entity by its unique name.
func (s *ledgerService) GetEntityByName(name string) (*models.Entity, error) {
	var entity models.Entity
	if err := s.db.Where("name = ?", name).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entity, nil
}

// GetEntityByID retrieves an entity by primary key.
func (s *ledgerService) GetEntityByID(id string) (*models.Entity, error) {
	var entity models.Entity
	if err := s.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entity, nil
}
