package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/money"
	"tally/internal/pagination"
)

// postingService implements transaction construction and the posting engine.
type postingService struct {
	db *gorm.DB
}

// NewPostingService creates a new PostingServicer.
func NewPostingService(db *gorm.DB) PostingServicer {
	return &postingService{db: db}
}

// entry is one side of the balanced entry set constructed during posting.
type entry struct {
	accountID string
	debit     bool
	amount    decimal.Decimal
}

// CreateDraft creates an unposted transaction anchored on the given account.
// The anchor account must belong to the entity, be active, and have the
// account type the transaction type expects.
func (s *postingService) CreateDraft(entityID string, txType models.TransactionType, anchorAccountID, narration string, date time.Time) (*models.Transaction, error) {
	return s.createDraftTx(s.db, entityID, txType, anchorAccountID, narration, date)
}

func (s *postingService) createDraftTx(tx *gorm.DB, entityID string, txType models.TransactionType, anchorAccountID, narration string, date time.Time) (*models.Transaction, error) {
	if !txType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown transaction type "+string(txType))
	}
	if narration == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "narration is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	anchor, err := loadAccount(tx, entityID, anchorAccountID)
	if err != nil {
		return nil, err
	}
	if !anchor.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "anchor account is deactivated")
	}
	if anchor.Type != txType.AnchorAccountType() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"anchor account must be of type "+string(txType.AnchorAccountType()))
	}

	transaction := &models.Transaction{
		EntityID:        entityID,
		AccountID:       anchor.ID,
		Type:            txType,
		Narration:       narration,
		TransactionDate: date,
		Posted:          false,
	}
	if err := tx.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// AddLineItem appends a line item to an unposted transaction. Amounts are
// non-negative at the model level; the transaction's type decides the entry
// direction at posting time. Balances are untouched until Post. The insert
// runs in its own store transaction so it serializes against a concurrent
// Post on the same transaction row.
func (s *postingService) AddLineItem(entityID, transactionID, accountID, narration string, amount, quantity decimal.Decimal, taxID *string) (*models.LineItem, error) {
	var lineItem *models.LineItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		lineItem, txErr = s.addLineItemTx(tx, entityID, transactionID, accountID, narration, amount, quantity, taxID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return lineItem, nil
}

func (s *postingService) addLineItemTx(tx *gorm.DB, entityID, transactionID, accountID, narration string, amount, quantity decimal.Decimal, taxID *string) (*models.LineItem, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "amount must not be negative")
	}
	if !quantity.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "quantity must be positive")
	}

	transaction, err := loadTransaction(tx, entityID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.Posted {
		return nil, apperrors.ErrAlreadyPosted
	}

	account, err := loadAccount(tx, entityID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "line item account is deactivated")
	}

	if taxID != nil {
		var taxRecord models.Tax
		if err := tx.Where("id = ?", *taxID).First(&taxRecord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTaxNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if taxRecord.EntityID != entityID {
			return nil, apperrors.ErrCrossEntity
		}
	}

	// The earlier posted check read a snapshot; a concurrent Post may have
	// flipped the flag since. Take the transaction row's write lock and
	// re-verify before inserting, so the insert and the flag flip serialize.
	if err := lockUnposted(tx, transaction.ID); err != nil {
		return nil, err
	}

	lineItem := &models.LineItem{
		EntityID:      entityID,
		TransactionID: transaction.ID,
		AccountID:     account.ID,
		Narration:     narration,
		Amount:        amount,
		Quantity:      quantity,
		TaxID:         taxID,
	}
	if err := tx.Create(lineItem).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lineItem, nil
}

// lockUnposted acquires the transaction row's write lock while verifying the
// posted flag is still down. Line-item inserts and the posting CAS both write
// this row, so whichever commits first wins and the loser observes the
// winner's committed state instead of a stale snapshot.
func lockUnposted(tx *gorm.DB, transactionID string) error {
	result := tx.Model(&models.Transaction{}).
		Where("id = ? AND posted = ?", transactionID, false).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAlreadyPosted
	}
	return nil
}

// Post validates the transaction balances and commits its monetary effect.
// The posted-flag compare-and-set, the balance deltas, and the integrity
// check all run inside one store transaction: either everything commits or
// nothing does. Re-posting fails with ALREADY_POSTED and changes nothing.
func (s *postingService) Post(entityID, transactionID string) (*PostedSummary, error) {
	var summary *PostedSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		summary, txErr = s.postTx(tx, entityID, transactionID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *postingService) postTx(tx *gorm.DB, entityID, transactionID string) (*PostedSummary, error) {
	transaction, err := loadTransaction(tx, entityID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.Posted {
		return nil, apperrors.ErrAlreadyPosted
	}

	// Compare-and-set on the posted flag. A concurrent Post on the same
	// transaction loses this race and rolls back with ALREADY_POSTED. The
	// write also takes the row lock that AddLineItem contends on, so line
	// items read below are exactly the committed set.
	result := tx.Model(&models.Transaction{}).
		Where("id = ? AND posted = ?", transaction.ID, false).
		Update("posted", true)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrAlreadyPosted
	}

	var lineItems []models.LineItem
	if err := tx.Preload("Tax").Where("transaction_id = ?", transaction.ID).
		Find(&lineItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	// Rejecting here rolls the CAS back, so the draft stays postable once a
	// line item lands.
	if len(lineItems) == 0 {
		return nil, apperrors.ErrEmptyTransaction
	}
	transaction.LineItems = lineItems

	entries, subtotal, taxTotal := buildEntries(transaction)

	// Total debits must equal total credits to the exact decimal unit.
	// Unreachable given how the entry set is constructed; guards the
	// construction itself.
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.debit {
			debits = debits.Add(e.amount)
		} else {
			credits = credits.Add(e.amount)
		}
	}
	if !debits.Equal(credits) {
		return nil, apperrors.WithMessage(apperrors.ErrUnbalancedTransaction,
			"debits "+money.String(debits)+" != credits "+money.String(credits))
	}

	if err := applyEntries(tx, entries); err != nil {
		return nil, err
	}

	return &PostedSummary{
		TransactionID: transaction.ID,
		Type:          transaction.Type,
		Narration:     transaction.Narration,
		Date:          transaction.TransactionDate,
		Subtotal:      subtotal,
		TaxAmount:     taxTotal,
		Total:         subtotal.Add(taxTotal),
	}, nil
}

// buildEntries constructs the balanced entry set for a transaction: one
// anchor entry for the tax-inclusive total, one entry per line item for its
// effective value, and one entry per distinct tax for the summed tax amount
// on that tax's control account. Line-item and tax entries run opposite to
// the anchor.
func buildEntries(transaction *models.Transaction) (entries []entry, subtotal, taxTotal decimal.Decimal) {
	anchorDebit := transaction.Type.AnchorDebit()
	subtotal, taxTotal = decimal.Zero, decimal.Zero

	type taxBucket struct {
		accountID string
		amount    decimal.Decimal
	}
	taxOrder := []string{}
	taxSums := map[string]*taxBucket{}

	lineEntries := []entry{}
	for i := range transaction.LineItems {
		item := &transaction.LineItems[i]
		effective := item.EffectiveValue()
		subtotal = subtotal.Add(effective)
		lineEntries = append(lineEntries, entry{
			accountID: item.AccountID,
			debit:     !anchorDebit,
			amount:    effective,
		})

		if item.Tax != nil {
			// Tax is rounded half-even exactly once, here.
			taxAmount := money.Tax(effective, item.Tax.Rate)
			taxTotal = taxTotal.Add(taxAmount)
			bucket, seen := taxSums[item.Tax.ID]
			if !seen {
				bucket = &taxBucket{accountID: item.Tax.AccountID}
				taxSums[item.Tax.ID] = bucket
				taxOrder = append(taxOrder, item.Tax.ID)
			}
			bucket.amount = bucket.amount.Add(taxAmount)
		}
	}

	entries = append(entries, entry{
		accountID: transaction.AccountID,
		debit:     anchorDebit,
		amount:    subtotal.Add(taxTotal),
	})
	entries = append(entries, lineEntries...)
	for _, taxID := range taxOrder {
		bucket := taxSums[taxID]
		entries = append(entries, entry{
			accountID: bucket.accountID,
			debit:     !anchorDebit,
			amount:    bucket.amount,
		})
	}
	return entries, subtotal, taxTotal
}

// applyEntries applies each entry's signed delta to its account's running
// balance. Balances follow the normal-balance convention: an entry on the
// account's normal side increases the balance. The delta is computed SQL-side
// so concurrent postings to the same account serialize at the store.
func applyEntries(tx *gorm.DB, entries []entry) error {
	accountIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		accountIDs = append(accountIDs, e.accountID)
	}

	var accounts []models.Account
	if err := tx.Where("id IN ?", accountIDs).Find(&accounts).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	typeByID := make(map[string]models.AccountType, len(accounts))
	for _, a := range accounts {
		typeByID[a.ID] = a.Type
	}

	for _, e := range entries {
		accountType, ok := typeByID[e.accountID]
		if !ok {
			return apperrors.ErrAccountNotFound
		}
		delta := e.amount
		if e.debit != accountType.DebitNormal() {
			delta = delta.Neg()
		}
		result := tx.Model(&models.Account{}).
			Where("id = ?", e.accountID).
			Update("balance", gorm.Expr("balance + ?", delta))
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
	}
	return nil
}

// Record is the one-shot recording operation behind cash sales, cash
// purchases, client invoices, and supplier bills: it resolves the default
// accounts for the transaction type, applies the type's default tax code
// when none is given, and drafts, fills, and posts the transaction in a
// single unit of work.
func (s *postingService) Record(entityID string, txType models.TransactionType, narration string, amount, quantity decimal.Decimal, taxCode string, date time.Time) (*PostedSummary, error) {
	if !txType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown transaction type "+string(txType))
	}
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}
	if taxCode == "" {
		taxCode = txType.DefaultTaxCode()
	}

	anchorName, lineName, lineSuffix := defaultAccounts(txType)

	var summary *PostedSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		anchor, err := findAccountByName(tx, entityID, anchorName)
		if err != nil {
			return err
		}
		lineAccount, err := findAccountByName(tx, entityID, lineName)
		if err != nil {
			return err
		}

		var taxRecord models.Tax
		if err := tx.Where("entity_id = ? AND code = ?", entityID, taxCode).First(&taxRecord).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaxNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		draft, err := s.createDraftTx(tx, entityID, txType, anchor.ID, narration, date)
		if err != nil {
			return err
		}
		if _, err := s.addLineItemTx(tx, entityID, draft.ID, lineAccount.ID,
			narration+" - "+lineSuffix, amount, quantity, &taxRecord.ID); err != nil {
			return err
		}

		summary, err = s.postTx(tx, entityID, draft.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// defaultAccounts maps a transaction type to the bootstrap account names
// used by the one-shot recording operations.
func defaultAccounts(txType models.TransactionType) (anchorName, lineName, lineSuffix string) {
	switch txType {
	case models.TransactionTypeCashSale:
		return BankAccountName, RevenueAccountName, "Revenue"
	case models.TransactionTypeCashPurchase:
		return BankAccountName, OpexAccountName, "Expense"
	case models.TransactionTypeClientInvoice:
		return ClientAccountName, RevenueAccountName, "Revenue"
	case models.TransactionTypeSupplierBill:
		return SupplierAccountName, OpexAccountName, "Expense"
	}
	return "", "", ""
}

// GetTransactionByID retrieves a transaction with its line items, scoped to
// the entity.
func (s *postingService) GetTransactionByID(entityID, transactionID string) (*models.Transaction, error) {
	return loadTransactionFull(s.db, entityID, transactionID)
}

// GetTransactions retrieves a paginated, filtered list of the entity's
// transactions, newest first.
func (s *postingService) GetTransactions(entityID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("entity_id = ?", entityID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("LineItems").Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("transaction_date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("transaction_date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Posted != nil {
		q = q.Where("posted = ?", *f.Posted)
	}
	return q
}

// loadAccount loads an account by ID, distinguishing a missing account from
// a cross-entity reference.
func loadAccount(tx *gorm.DB, entityID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ?", accountID).First(&account).Error; err != nil {
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

// findAccountByName loads an entity-scoped account by name.
func findAccountByName(tx *gorm.DB, entityID, name string) (*models.Account, error) {
	var account models.Account
	if err := tx.Where("entity_id = ? AND name = ?", entityID, name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound,
				"Account '"+name+"' not found; set up the ledger first")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

func loadTransaction(tx *gorm.DB, entityID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transaction.EntityID != entityID {
		return nil, apperrors.ErrCrossEntity
	}
	return &transaction, nil
}

func loadTransactionFull(tx *gorm.DB, entityID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Preload("LineItems").Preload("LineItems.Tax").
		Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transaction.EntityID != entityID {
		return nil, apperrors.ErrCrossEntity
	}
	return &transaction, nil
}
