package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionTypePolarity(t *testing.T) {
	cases := []struct {
		txType      TransactionType
		anchorDebit bool
		anchorType  AccountType
		taxCode     string
	}{
		{TransactionTypeCashSale, true, AccountTypeBank, "GSTOUT"},
		{TransactionTypeCashPurchase, false, AccountTypeBank, "GSTIN"},
		{TransactionTypeClientInvoice, true, AccountTypeReceivable, "GSTOUT"},
		{TransactionTypeSupplierBill, false, AccountTypePayable, "GSTIN"},
	}

	for _, tc := range cases {
		t.Run(string(tc.txType), func(t *testing.T) {
			if got := tc.txType.AnchorDebit(); got != tc.anchorDebit {
				t.Errorf("AnchorDebit() = %v, want %v", got, tc.anchorDebit)
			}
			if got := tc.txType.AnchorAccountType(); got != tc.anchorType {
				t.Errorf("AnchorAccountType() = %s, want %s", got, tc.anchorType)
			}
			if got := tc.txType.DefaultTaxCode(); got != tc.taxCode {
				t.Errorf("DefaultTaxCode() = %s, want %s", got, tc.taxCode)
			}
			if !tc.txType.Valid() {
				t.Error("expected type to be valid")
			}
		})
	}

	if TransactionType("REFUND").Valid() {
		t.Error("unknown transaction type should not be valid")
	}
}

func TestAccountTypeDebitNormal(t *testing.T) {
	debitNormal := []AccountType{
		AccountTypeBank, AccountTypeReceivable, AccountTypeNonCurrentAsset,
		AccountTypeOperatingExpense, AccountTypeDirectExpense,
	}
	creditNormal := []AccountType{
		AccountTypeControl, AccountTypePayable, AccountTypeOperatingRevenue,
	}

	for _, at := range debitNormal {
		if !at.DebitNormal() {
			t.Errorf("%s should be debit-normal", at)
		}
	}
	for _, at := range creditNormal {
		if at.DebitNormal() {
			t.Errorf("%s should be credit-normal", at)
		}
	}
}

func TestAccountTypeReportBucket(t *testing.T) {
	if AccountTypeOperatingRevenue.ReportBucket() != "operating_revenue" {
		t.Error("operating revenue should bucket as operating_revenue")
	}
	if AccountTypeDirectExpense.ReportBucket() != "direct_expense" {
		t.Error("direct expense should bucket as direct_expense")
	}
	if AccountTypeOperatingExpense.ReportBucket() != "operating_expense" {
		t.Error("operating expense should bucket as operating_expense")
	}
	if AccountTypeBank.ReportBucket() != "" {
		t.Error("bank accounts never appear on the income statement")
	}
	if AccountTypeControl.ReportBucket() != "" {
		t.Error("control accounts never appear on the income statement")
	}
}

func TestAccountTypeValid(t *testing.T) {
	if !AccountTypeBank.Valid() {
		t.Error("BANK should be valid")
	}
	if AccountType("GOODWILL").Valid() {
		t.Error("unknown account type should not be valid")
	}
}

func TestLineItemEffectiveValue(t *testing.T) {
	item := LineItem{
		Amount:   decimal.RequireFromString("50.00"),
		Quantity: decimal.RequireFromString("2"),
	}
	if !item.EffectiveValue().Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected 100.00, got %s", item.EffectiveValue())
	}

	fractional := LineItem{
		Amount:   decimal.RequireFromString("0.10"),
		Quantity: decimal.RequireFromString("3"),
	}
	if !fractional.EffectiveValue().Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("expected exact 0.30, got %s", fractional.EffectiveValue())
	}
}
