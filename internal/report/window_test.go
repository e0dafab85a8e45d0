package report_test

import (
	"testing"
	"time"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/caiohscruz/organizze-reports/internal/report"
	"github.com/stretchr/testify/require"
)

func TestPeriods(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.May, 15, 13, 45, 0, 0, time.UTC)

	tests := map[string]struct {
		period   report.Period
		expected report.Period
	}{
		"last month": {
			period:   report.PastMonth(today, 1),
			expected: report.Period{Start: date(2024, 4, 1), End: date(2024, 4, 30)},
		},
		"twelve months ago": {
			period:   report.PastMonth(today, 12),
			expected: report.Period{Start: date(2023, 5, 1), End: date(2023, 5, 31)},
		},
		"leap february": {
			period:   report.PastMonth(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), 1),
			expected: report.Period{Start: date(2024, 2, 1), End: date(2024, 2, 29)},
		},
		"first future month is the current month": {
			period:   report.FutureMonth(today, 1),
			expected: report.Period{Start: date(2024, 5, 1), End: date(2024, 5, 31)},
		},
		"twelfth future month": {
			period:   report.FutureMonth(today, 12),
			expected: report.Period{Start: date(2025, 4, 1), End: date(2025, 4, 30)},
		},
		"crosses year end": {
			period:   report.FutureMonth(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 2),
			expected: report.Period{Start: date(2025, 1, 1), End: date(2025, 1, 31)},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.expected, test.period)
		})
	}

	t.Run("lists consecutive months", func(t *testing.T) {
		t.Parallel()

		past := report.PastMonths(today, 12)
		future := report.FutureMonths(today, 12)
		require.Len(t, past, 12)
		require.Len(t, future, 12)

		for i := 1; i < 12; i++ {
			require.Equal(t, past[i].End.AddDate(0, 0, 1), past[i-1].Start.Time)
			require.Equal(t, future[i-1].End.AddDate(0, 0, 1), future[i].Start.Time)
		}
	})

	t.Run("first of month uses the civil date", func(t *testing.T) {
		t.Parallel()

		location := time.FixedZone("BRT", -3*60*60)
		require.Equal(t, date(2024, 5, 1), report.FirstOfMonth(time.Date(2024, time.May, 31, 23, 0, 0, 0, location)))
	})
}

func TestPeriodContains(t *testing.T) {
	t.Parallel()

	period := report.Period{Start: date(2024, 4, 1), End: date(2024, 4, 30)}

	tests := map[string]struct {
		date     domain.Date
		expected bool
	}{
		"start":     {date: date(2024, 4, 1), expected: true},
		"end":       {date: date(2024, 4, 30), expected: true},
		"middle":    {date: date(2024, 4, 15), expected: true},
		"day after": {date: date(2024, 5, 1), expected: false},
		"day prior": {date: date(2024, 3, 31), expected: false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.expected, period.Contains(test.date))
		})
	}

	require.Equal(t, "2024-04-01..2024-04-30", period.String())
}

func TestPartition(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	rows := []*domain.MappedTransaction{
		mapped("A", date(2024, 5, 31), "-1"),
		mapped("A", date(2024, 6, 1), "-2"),
		mapped("A", date(2024, 5, 1), "-3"),
		mapped("A", date(2026, 1, 1), "-4"),
	}

	buckets := report.Partition(rows, report.FutureMonths(today, 2))
	require.Len(t, buckets, 2)
	require.Equal(t, []*domain.MappedTransaction{rows[0], rows[2]}, buckets[0])
	require.Equal(t, []*domain.MappedTransaction{rows[1]}, buckets[1])
}

func TestLastMonths(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	rows := []*domain.MappedTransaction{
		mapped("A", date(2024, 5, 1), "-1"),
		mapped("A", date(2024, 4, 30), "-2"),
		mapped("A", date(2024, 2, 1), "-3"),
		mapped("A", date(2024, 1, 31), "-4"),
		mapped("A", date(2023, 5, 1), "-5"),
		mapped("A", date(2023, 4, 30), "-6"),
	}

	tests := map[string]struct {
		months   int
		expected []*domain.MappedTransaction
	}{
		"one month": {
			months:   1,
			expected: []*domain.MappedTransaction{rows[1]},
		},
		"three months": {
			months:   3,
			expected: []*domain.MappedTransaction{rows[1], rows[2]},
		},
		"twelve months": {
			months:   12,
			expected: []*domain.MappedTransaction{rows[1], rows[2], rows[3], rows[4]},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, test.expected, report.LastMonths(rows, today, test.months))
		})
	}
}
