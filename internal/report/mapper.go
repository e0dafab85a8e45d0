package report

import (
	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// AmountFromCents converts signed cents into a decimal with two places. A nil amount is zero.
func AmountFromCents(cents *int64) decimal.Decimal {
	if cents == nil {
		return decimal.Zero
	}

	return decimal.New(*cents, -amountPlaces).Round(amountPlaces)
}

// MapTransaction resolves the names referenced by txn. It reports false when the category does
// not resolve to a canonical category.
func MapTransaction(lookups *Lookups, txn *domain.Transaction) (*domain.MappedTransaction, bool) {
	category := lookups.CategoryName(txn.CategoryID)
	if category == "" {
		return nil, false
	}

	return &domain.MappedTransaction{
		Description:       txn.Description,
		Date:              txn.Date,
		Amount:            AmountFromCents(txn.AmountCents),
		TotalInstallments: txn.TotalInstallments,
		Installment:       txn.Installment,
		Recurring:         txn.Recurring,
		Account:           lookups.AccountName(txn.AccountID),
		Category:          category,
		CreditCard:        lookups.CreditCardName(txn.CreditCardID),
	}, true
}

// MapTransactions maps every transaction with a canonical category, keeping input order.
func MapTransactions(lookups *Lookups, txns []*domain.Transaction) []*domain.MappedTransaction {
	mapped := make([]*domain.MappedTransaction, 0, len(txns))

	for _, txn := range txns {
		if row, ok := MapTransaction(lookups, txn); ok {
			mapped = append(mapped, row)
		}
	}

	return mapped
}
