package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
)

// AccountTotal is one account's aggregated effective value within a report
// section.
type AccountTotal struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Total       decimal.Decimal `json:"total"`
}

// IncomeStatement is the profit-and-loss report over a date range. Decimal
// fields serialize as quoted strings, so no numeric precision is lost in
// transit.
type IncomeStatement struct {
	EntityName string     `json:"entity_name"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`

	Revenue          []AccountTotal `json:"operating_revenue"`
	DirectExpense    []AccountTotal `json:"direct_expense"`
	OperatingExpense []AccountTotal `json:"operating_expense"`

	TotalRevenue          decimal.Decimal `json:"total_revenue"`
	TotalDirectExpense    decimal.Decimal `json:"total_direct_expense"`
	TotalOperatingExpense decimal.Decimal `json:"total_operating_expense"`
	GrossProfit           decimal.Decimal `json:"gross_profit"`
	NetProfit             decimal.Decimal `json:"net_profit"`
}

// reportService derives reports from posted transactions.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// IncomeStatement aggregates posted revenue and expense line items for the
// entity over the date range (inclusive on both bounds, unbounded where a
// bound is nil). Tax amounts route to control accounts and never appear
// here. An entity with no posted activity in range gets a zero-totals
// report, not an error.
func (s *reportService) IncomeStatement(entityID string, startDate, endDate *time.Time) (*IncomeStatement, error) {
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var entity models.Entity
	if err := s.db.Where("id = ?", entityID).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEntityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Only posted rows; reads are plain read-committed queries and a
	// half-posted transaction is never visible because posting commits
	// atomically.
	query := s.db.Model(&models.LineItem{}).
		Select("line_items.*").
		Joins("JOIN transactions ON transactions.id = line_items.transaction_id").
		Where("transactions.entity_id = ? AND transactions.posted = ?", entityID, true)
	if startDate != nil {
		query = query.Where("transactions.transaction_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("transactions.transaction_date <= ?", *endDate)
	}

	var items []models.LineItem
	if err := query.Preload("Account").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Aggregation stays in exact decimals; summing in SQL would run on the
	// store's numeric affinity instead.
	type accumulator struct {
		name  string
		total decimal.Decimal
	}
	buckets := map[models.AccountType]map[string]*accumulator{
		models.AccountTypeOperatingRevenue: {},
		models.AccountTypeDirectExpense:    {},
		models.AccountTypeOperatingExpense: {},
	}
	for i := range items {
		item := &items[i]
		bucket, ok := buckets[item.Account.Type]
		if !ok {
			continue
		}
		acc, seen := bucket[item.AccountID]
		if !seen {
			acc = &accumulator{name: item.Account.Name}
			bucket[item.AccountID] = acc
		}
		acc.total = acc.total.Add(item.EffectiveValue())
	}

	section := func(accountType models.AccountType) ([]AccountTotal, decimal.Decimal) {
		rows := []AccountTotal{}
		total := decimal.Zero
		for id, acc := range buckets[accountType] {
			rows = append(rows, AccountTotal{AccountID: id, AccountName: acc.name, Total: acc.total})
			total = total.Add(acc.total)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].AccountName < rows[j].AccountName })
		return rows, total
	}

	report := &IncomeStatement{
		EntityName: entity.Name,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	report.Revenue, report.TotalRevenue = section(models.AccountTypeOperatingRevenue)
	report.DirectExpense, report.TotalDirectExpense = section(models.AccountTypeDirectExpense)
	report.OperatingExpense, report.TotalOperatingExpense = section(models.AccountTypeOperatingExpense)
	report.GrossProfit = report.TotalRevenue.Sub(report.TotalDirectExpense)
	report.NetProfit = report.GrossProfit.Sub(report.TotalOperatingExpense)
	return report, nil
}
