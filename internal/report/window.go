package report

import (
	"fmt"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/samber/lo"
)

// Period is an inclusive range of calendar dates.
type Period struct {
	Start domain.Date
	End   domain.Date
}

func (p Period) Contains(date domain.Date) bool {
	return !date.Before(p.Start.Time) && !date.After(p.End.Time)
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start, p.End)
}

// FirstOfMonth returns the first day of the month containing today.
func FirstOfMonth(today time.Time) domain.Date {
	return domain.NewDate(time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the calendar month that starts offset months after the month containing today.
func MonthOf(today time.Time, offset int) Period {
	start := FirstOfMonth(today).AddDate(0, offset, 0)

	return Period{
		Start: domain.NewDate(start),
		End:   domain.NewDate(start.AddDate(0, 1, -1)),
	}
}

// PastMonth returns the k-th full month before the current one. PastMonth(today, 1) is last month.
func PastMonth(today time.Time, k int) Period {
	return MonthOf(today, -k)
}

// FutureMonth returns the k-th month of the forward estimate. FutureMonth(today, 1) is the current month.
func FutureMonth(today time.Time, k int) Period {
	return MonthOf(today, k-1)
}

func PastMonths(today time.Time, n int) []Period {
	return lo.Times(n, func(i int) Period {
		return PastMonth(today, i+1)
	})
}

func FutureMonths(today time.Time, n int) []Period {
	return lo.Times(n, func(i int) Period {
		return FutureMonth(today, i+1)
	})
}

// Partition buckets rows by period. A row matching several periods lands in each of them.
func Partition(rows []*domain.MappedTransaction, periods []Period) [][]*domain.MappedTransaction {
	return lo.Map(periods, func(p Period, _ int) []*domain.MappedTransaction {
		return lo.Filter(rows, func(row *domain.MappedTransaction, _ int) bool {
			return p.Contains(row.Date)
		})
	})
}

// LastMonths keeps rows dated within the n full months before the current month.
func LastMonths(rows []*domain.MappedTransaction, today time.Time, n int) []*domain.MappedTransaction {
	first := FirstOfMonth(today)
	from := first.AddDate(0, -n, 0)

	return lo.Filter(rows, func(row *domain.MappedTransaction, _ int) bool {
		return !row.Date.Before(from) && row.Date.Before(first.Time)
	})
}
