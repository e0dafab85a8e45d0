package report_test

import (
	"testing"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()

	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func date(year int, month time.Month, day int) domain.Date {
	return domain.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func categoryID(id int64) *domain.CategoryID {
	v := domain.CategoryID(id)
	return &v
}

func cents(amount int64) *int64 {
	return &amount
}

func mapped(category string, on domain.Date, amount string) *domain.MappedTransaction {
	return &domain.MappedTransaction{
		Description:       "test",
		Date:              on,
		Amount:            decimal.RequireFromString(amount),
		TotalInstallments: 1,
		Installment:       1,
		Category:          category,
	}
}
