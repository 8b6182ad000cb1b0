package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/services"
	"tally/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Entity{},
		&models.Currency{},
		&models.Account{},
		&models.Tax{},
		&models.Transaction{},
		&models.LineItem{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	ledgerService := services.NewLedgerService(db)
	chartService := services.NewChartService(db)
	postingService := services.NewPostingService(db)
	reportService := services.NewReportService(db)

	// Handlers
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	chartHandler := handlers.NewChartHandler(ledgerService, chartService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, postingService)
	reportHandler := handlers.NewReportHandler(ledgerService, reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	v1.POST("/ledgers", ledgerHandler.CreateLedger)

	ledger := v1.Group("/ledgers/:entity")
	ledger.GET("", ledgerHandler.GetLedger)

	ledger.POST("/accounts", chartHandler.CreateAccount)
	ledger.GET("/accounts", chartHandler.ListAccounts)
	ledger.POST("/accounts/:id/deactivate", chartHandler.DeactivateAccount)
	ledger.POST("/taxes", chartHandler.CreateTax)

	ledger.POST("/cash-sales", transactionHandler.RecordCashSale)
	ledger.POST("/cash-purchases", transactionHandler.RecordCashPurchase)
	ledger.POST("/client-invoices", transactionHandler.RecordClientInvoice)
	ledger.POST("/supplier-bills", transactionHandler.RecordSupplierBill)

	ledger.POST("/transactions", transactionHandler.CreateDraft)
	ledger.GET("/transactions", transactionHandler.ListTransactions)
	ledger.GET("/transactions/:id", transactionHandler.GetTransaction)
	ledger.POST("/transactions/:id/line-items", transactionHandler.AddLineItem)
	ledger.POST("/transactions/:id/post", transactionHandler.PostTransaction)

	ledger.GET("/reports/income-statement", reportHandler.IncomeStatement)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createLedger bootstraps an entity with its default chart and taxes and
// returns the entity name for path addressing.
func (app *testApp) createLedger(t *testing.T, entityName string) string {
	t.Helper()
	body := fmt.Sprintf(`{"entity_name":%q}`, entityName)
	rec := app.request("POST", "/api/v1/ledgers", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("ledger bootstrap failed: %d %s", rec.Code, rec.Body.String())
	}
	return entityName
}

// accountBalance reads an account's balance by name from the chart listing.
func (app *testApp) accountBalance(t *testing.T, entityName, accountName string) string {
	t.Helper()
	rec := app.request("GET", fmt.Sprintf("/api/v1/ledgers/%s/accounts?page_size=100", entityName), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("account listing failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, raw := range result["data"].([]interface{}) {
		account := raw.(map[string]interface{})
		if account["name"] == accountName {
			return account["balance"].(string)
		}
	}
	t.Fatalf("account %q not found in chart", accountName)
	return ""
}
