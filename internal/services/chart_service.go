package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
)

// chartService handles chart-of-accounts and tax management.
type chartService struct {
	db *gorm.DB
}

// NewChartService creates a new ChartServicer.
func NewChartService(db *gorm.DB) ChartServicer {
	return &chartService{db: db}
}

// CreateAccount creates an account in the entity's chart of accounts.
// Account names are unique per entity.
func (s *chartService) CreateAccount(entityID, name string, accountType models.AccountType, currencyID string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if !accountType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown account type "+string(accountType))
	}

	if currencyID == "" {
		var currency models.Currency
		err := s.db.Where("entity_id = ? AND is_default = ?", entityID, true).First(&currency).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entity has no default currency")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		currencyID = currency.ID
	} else {
		var currency models.Currency
		err := s.db.Where("id = ?", currencyID).First(&currency).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency not found")
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if currency.EntityID != entityID {
			return nil, apperrors.ErrCrossEntity
		}
	}

	account := &models.Account{
		EntityID:   entityID,
		CurrencyID: currencyID,
		Name:       name,
		Type:       accountType,
		Balance:    decimal.Zero,
		IsActive:   true,
	}
	// Per-entity name uniqueness rides on the composite index, so a
	// concurrent create of the same name gets the duplicate error too.
	if err := s.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateAccountName
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// CreateTax creates a tax rate linked to a control account. Rates are
// percentages and must not be negative; tax codes are unique per entity.
func (s *chartService) CreateTax(entityID, name, code string, rate decimal.Decimal, accountID string) (*models.Tax, error) {
	if name == "" || code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tax name and code are required")
	}
	if rate.IsNegative() {
		return nil, apperrors.ErrInvalidRate
	}

	account, err := s.getAccount(entityID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Type != models.AccountTypeControl {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "tax must be linked to a CONTROL account")
	}

	tax := &models.Tax{
		EntityID:  entityID,
		Name:      name,
		Code:      code,
		Rate:      rate,
		AccountID: accountID,
	}
	if err := s.db.Create(tax).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateTaxCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tax, nil
}

// GetAccountByName retrieves an account by its per-entity unique name.
func (s *chartService) GetAccountByName(entityID, name string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("entity_id = ? AND name = ?", entityID, name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// GetTaxByCode retrieves a tax by its per-entity unique code.
func (s *chartService) GetTaxByCode(entityID, code string) (*models.Tax, error) {
	var tax models.Tax
	if err := s.db.Where("entity_id = ? AND code = ?", entityID, code).First(&tax).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaxNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tax, nil
}

// DeactivateAccount marks an account inactive. Accounts referenced by posted
// transactions are never deleted; deactivation is the only retirement path.
func (s *chartService) DeactivateAccount(entityID, accountID string) error {
	account, err := s.getAccount(entityID, accountID)
	if err != nil {
		return err
	}
	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListAccounts retrieves a paginated list of the entity's accounts.
func (s *chartService) ListAccounts(entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("entity_id = ?", entityID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// getAccount loads an account by ID, distinguishing a missing account from a
// cross-entity reference.
func (s *chartService) getAccount(entityID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if account.EntityID != entityID {
		return nil, apperrors.ErrCrossEntity
	}
	return &account, nil
}
