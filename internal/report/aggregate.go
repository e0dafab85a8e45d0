package report

import (
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	TotalRowName           = "----TOTAL----"
	ContainmentPlanRowName = "----Plano de Contenção----"
)

var (
	DefaultContainmentCap = decimal.NewFromInt(2500)
	trailingWindows       = []int{3, 6, 12}
)

type SummaryRow struct {
	CategoryName                  string
	TotalCurrentMonth             decimal.Decimal
	TotalLastMonth                decimal.Decimal
	MonthlyProportionLast3Months  decimal.Decimal
	MonthlyProportionLast6Months  decimal.Decimal
	MonthlyProportionLast12Months decimal.Decimal
	TotalLast3Months              decimal.Decimal
	TotalLast6Months              decimal.Decimal
	TotalLast12Months             decimal.Decimal
}

// Values returns the numeric columns in display order.
func (r *SummaryRow) Values() []decimal.Decimal {
	return []decimal.Decimal{
		r.TotalCurrentMonth,
		r.TotalLastMonth,
		r.MonthlyProportionLast3Months,
		r.MonthlyProportionLast6Months,
		r.MonthlyProportionLast12Months,
		r.TotalLast3Months,
		r.TotalLast6Months,
		r.TotalLast12Months,
	}
}

type FutureEstimationRow struct {
	CategoryName string
	Months       []decimal.Decimal
}

// ContainmentPlan caps discretionary spending over the forward estimate.
type ContainmentPlan struct {
	Cap decimal.Decimal
}

// Months returns the plan amounts, stored negative as expenses. The first month is reduced by
// the new single-installment expenses already scheduled in it and never drops below zero.
func (p ContainmentPlan) Months(firstMonth []*domain.MappedTransaction, n int) []decimal.Decimal {
	if n <= 0 {
		return nil
	}

	months := lo.Times(n, func(_ int) decimal.Decimal {
		return p.Cap.Neg()
	})

	committed := sumAmounts(lo.Filter(firstMonth, func(row *domain.MappedTransaction, _ int) bool {
		return !row.Recurring && row.Installment == 1 && row.Amount.IsNegative()
	}))

	months[0] = decimal.Max(decimal.Zero, p.Cap.Add(committed)).Neg()

	return months
}

// Summarize totals each canonical category over the current month and the trailing 1, 3, 6 and 12
// month windows. past holds mapped rows from the months before the current one.
func Summarize(categories []*domain.Category, current []*domain.MappedTransaction, past []*domain.MappedTransaction, today time.Time) []*SummaryRow {
	lastMonth := LastMonths(past, today, 1)
	windows := lo.Map(trailingWindows, func(n int, _ int) []*domain.MappedTransaction {
		return LastMonths(past, today, n)
	})

	rows := make([]*SummaryRow, 0, len(categories)+1)
	for _, category := range categories {
		totals := lo.Map(windows, func(window []*domain.MappedTransaction, _ int) decimal.Decimal {
			return sumCategory(window, category.Name)
		})

		rows = append(rows, &SummaryRow{
			CategoryName:                  category.Name,
			TotalCurrentMonth:             sumCategory(current, category.Name),
			TotalLastMonth:                sumCategory(lastMonth, category.Name),
			MonthlyProportionLast3Months:  proportion(totals[0], trailingWindows[0]),
			MonthlyProportionLast6Months:  proportion(totals[1], trailingWindows[1]),
			MonthlyProportionLast12Months: proportion(totals[2], trailingWindows[2]),
			TotalLast3Months:              totals[0],
			TotalLast6Months:              totals[1],
			TotalLast12Months:             totals[2],
		})
	}

	return append(rows, summaryTotal(rows))
}

func summaryTotal(rows []*SummaryRow) *SummaryRow {
	total := &SummaryRow{CategoryName: TotalRowName}

	for _, row := range rows {
		total.TotalCurrentMonth = total.TotalCurrentMonth.Add(row.TotalCurrentMonth)
		total.TotalLastMonth = total.TotalLastMonth.Add(row.TotalLastMonth)
		total.MonthlyProportionLast3Months = total.MonthlyProportionLast3Months.Add(row.MonthlyProportionLast3Months)
		total.MonthlyProportionLast6Months = total.MonthlyProportionLast6Months.Add(row.MonthlyProportionLast6Months)
		total.MonthlyProportionLast12Months = total.MonthlyProportionLast12Months.Add(row.MonthlyProportionLast12Months)
		total.TotalLast3Months = total.TotalLast3Months.Add(row.TotalLast3Months)
		total.TotalLast6Months = total.TotalLast6Months.Add(row.TotalLast6Months)
		total.TotalLast12Months = total.TotalLast12Months.Add(row.TotalLast12Months)
	}

	return total
}

// EstimateFuture sums each canonical category per future period, then appends the containment plan
// and a grand total of every row including the plan.
func EstimateFuture(categories []*domain.Category, rows []*domain.MappedTransaction, periods []Period, plan ContainmentPlan) []*FutureEstimationRow {
	buckets := Partition(rows, periods)

	estimation := make([]*FutureEstimationRow, 0, len(categories)+2)
	for _, category := range categories {
		estimation = append(estimation, &FutureEstimationRow{
			CategoryName: category.Name,
			Months: lo.Map(buckets, func(bucket []*domain.MappedTransaction, _ int) decimal.Decimal {
				return sumCategory(bucket, category.Name)
			}),
		})
	}

	var firstMonth []*domain.MappedTransaction
	if len(buckets) > 0 {
		firstMonth = buckets[0]
	}

	estimation = append(estimation, &FutureEstimationRow{
		CategoryName: ContainmentPlanRowName,
		Months:       plan.Months(firstMonth, len(periods)),
	})

	total := &FutureEstimationRow{
		CategoryName: TotalRowName,
		Months: lo.Times(len(periods), func(i int) decimal.Decimal {
			return lo.Reduce(estimation, func(sum decimal.Decimal, row *FutureEstimationRow, _ int) decimal.Decimal {
				return sum.Add(row.Months[i])
			}, decimal.Zero)
		}),
	}

	return append(estimation, total)
}

func sumCategory(rows []*domain.MappedTransaction, category string) decimal.Decimal {
	return sumAmounts(lo.Filter(rows, func(row *domain.MappedTransaction, _ int) bool {
		return row.Category == category
	}))
}

func sumAmounts(rows []*domain.MappedTransaction) decimal.Decimal {
	return lo.Reduce(rows, func(sum decimal.Decimal, row *domain.MappedTransaction, _ int) decimal.Decimal {
		return sum.Add(row.Amount)
	}, decimal.Zero)
}

func proportion(total decimal.Decimal, months int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(months)))
}
