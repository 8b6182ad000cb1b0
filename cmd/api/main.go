package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"tally/internal/config"
	"tally/internal/database"
	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/middleware"
	"tally/internal/money"
	"tally/internal/services"
	"tally/internal/validator"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	money.SetScale(appConfig.DecimalScale)

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Services
	db := dbManager.DB()
	ledgerService := services.NewLedgerService(db)
	chartService := services.NewChartService(db)
	postingService := services.NewPostingService(db)
	reportService := services.NewReportService(db)

	// Handlers
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	chartHandler := handlers.NewChartHandler(ledgerService, chartService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, postingService)
	reportHandler := handlers.NewReportHandler(ledgerService, reportService)

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
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

	log.Infof("Starting tally API server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
