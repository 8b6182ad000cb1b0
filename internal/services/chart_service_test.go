package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("creates_with_default_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)

		account, err := svc.CreateAccount(entity.ID, "Petty Cash", models.AccountTypeBank, "")
		testutil.AssertNoError(t, err)
		if account.CurrencyID == "" {
			t.Error("expected account to pick up the entity's default currency")
		}
		if !account.IsActive {
			t.Error("new accounts start active")
		}
		if !account.Balance.IsZero() {
			t.Errorf("expected zero opening balance, got %s", account.Balance)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)

		_, err := svc.CreateAccount(entity.ID, "Petty Cash", models.AccountTypeBank, "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateAccount(entity.ID, "Petty Cash", models.AccountTypeOperatingExpense, "")
		testutil.AssertAppError(t, err, "DUPLICATE_ACCOUNT_NAME")
	})

	t.Run("same_name_different_entity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entityA := testutil.CreateTestEntity(t, db)
		entityB := testutil.CreateTestEntity(t, db)

		_, err := svc.CreateAccount(entityA.ID, "Petty Cash", models.AccountTypeBank, "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateAccount(entityB.ID, "Petty Cash", models.AccountTypeBank, "")
		testutil.AssertNoError(t, err)
	})

	t.Run("unknown_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)

		_, err := svc.CreateAccount(entity.ID, "Mystery", models.AccountType("GOODWILL"), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("cross_entity_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entityA := testutil.CreateTestEntity(t, db)
		entityB := testutil.CreateTestEntity(t, db)
		foreign := testutil.DefaultCurrency(t, db, entityB.ID)

		_, err := svc.CreateAccount(entityA.ID, "Petty Cash", models.AccountTypeBank, foreign.ID)
		testutil.AssertAppError(t, err, "CROSS_ENTITY")
	})
}

func TestCreateTax(t *testing.T) {
	t.Run("creates_on_control_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)
		control := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeControl)

		tax, err := svc.CreateTax(entity.ID, "Sales Tax", "ST10", decimal.RequireFromString("10"), control.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, "10", tax.Rate)
	})

	t.Run("negative_rate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)
		control := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeControl)

		_, err := svc.CreateTax(entity.ID, "Sales Tax", "ST10", decimal.RequireFromString("-1"), control.ID)
		testutil.AssertAppError(t, err, "INVALID_RATE")
	})

	t.Run("zero_rate_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)
		control := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeControl)

		_, err := svc.CreateTax(entity.ID, "Exempt", "EX0", decimal.Zero, control.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("duplicate_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)
		control := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeControl)

		_, err := svc.CreateTax(entity.ID, "Sales Tax", "ST10", decimal.RequireFromString("10"), control.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateTax(entity.ID, "Other Tax", "ST10", decimal.RequireFromString("5"), control.ID)
		testutil.AssertAppError(t, err, "DUPLICATE_TAX_CODE")
	})

	t.Run("non_control_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entity := testutil.CreateTestEntity(t, db)
		bank := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeBank)

		_, err := svc.CreateTax(entity.ID, "Sales Tax", "ST10", decimal.RequireFromString("10"), bank.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("cross_entity_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewChartService(db)
		entityA := testutil.CreateTestEntity(t, db)
		entityB := testutil.CreateTestEntity(t, db)
		foreignControl := testutil.CreateTestAccount(t, db, entityB.ID, models.AccountTypeControl)

		_, err := svc.CreateTax(entityA.ID, "Sales Tax", "ST10", decimal.RequireFromString("10"), foreignControl.ID)
		testutil.AssertAppError(t, err, "CROSS_ENTITY")
	})
}

func TestChartLookups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewChartService(db)
	entity := testutil.CreateTestEntity(t, db)
	bank := testutil.CreateTestAccountNamed(t, db, entity.ID, "Main Bank", models.AccountTypeBank)
	tax := testutil.CreateTestTax(t, db, entity.ID, 10)

	byName, err := svc.GetAccountByName(entity.ID, "Main Bank")
	testutil.AssertNoError(t, err)
	if byName.ID != bank.ID {
		t.Errorf("expected account %s, got %s", bank.ID, byName.ID)
	}

	byCode, err := svc.GetTaxByCode(entity.ID, tax.Code)
	testutil.AssertNoError(t, err)
	if byCode.ID != tax.ID {
		t.Errorf("expected tax %s, got %s", tax.ID, byCode.ID)
	}

	_, err = svc.GetAccountByName(entity.ID, "No Such Account")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

	_, err = svc.GetTaxByCode(entity.ID, "NOPE")
	testutil.AssertAppError(t, err, "TAX_NOT_FOUND")

	// Lookups are entity-scoped.
	other := testutil.CreateTestEntity(t, db)
	_, err = svc.GetAccountByName(other.ID, "Main Bank")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestDeactivateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewChartService(db)
	entity := testutil.CreateTestEntity(t, db)
	bank := testutil.CreateTestAccount(t, db, entity.ID, models.AccountTypeBank)

	testutil.AssertNoError(t, svc.DeactivateAccount(entity.ID, bank.ID))

	var reloaded models.Account
	testutil.AssertNoError(t, db.Where("id = ?", bank.ID).First(&reloaded).Error)
	if reloaded.IsActive {
		t.Error("expected account to be inactive")
	}

	other := testutil.CreateTestEntity(t, db)
	err := svc.DeactivateAccount(other.ID, bank.ID)
	testutil.AssertAppError(t, err, "CROSS_ENTITY")
}

func TestListAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewChartService(db)
	entity := testutil.CreateTestEntity(t, db)
	testutil.CreateTestAccountNamed(t, db, entity.ID, "Alpha", models.AccountTypeBank)
	testutil.CreateTestAccountNamed(t, db, entity.ID, "Beta", models.AccountTypeOperatingExpense)
	testutil.CreateTestAccountNamed(t, db, entity.ID, "Gamma", models.AccountTypeOperatingRevenue)

	page, err := svc.ListAccounts(entity.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 {
		t.Errorf("expected 3 accounts, got %d", page.TotalItems)
	}
	if len(page.Data) != 2 {
		t.Errorf("expected page of 2, got %d", len(page.Data))
	}
	if page.Data[0].Name != "Alpha" {
		t.Errorf("expected name ordering, got %q first", page.Data[0].Name)
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
}
