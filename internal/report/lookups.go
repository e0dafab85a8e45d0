package report

import (
	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/samber/lo"
)

// Lookups resolves ids to display names for a single report run. It is never modified after construction.
type Lookups struct {
	categories  []*domain.Category
	categoryIDs map[domain.CategoryID]string
	accounts    map[domain.AccountID]string
	creditCards map[domain.CreditCardID]string
}

// NewLookups builds the canonical category axis from the fetched categories and indexes
// accounts and credit cards by id. Every reportable category id resolves, so ids sharing a
// display name are summed in that name's row.
func NewLookups(categories []*domain.Category, accounts []*domain.Account, creditCards []*domain.CreditCard, ignored []string) *Lookups {
	filtered := reportable(categories, EnrichCategories(categories), ignored)

	return &Lookups{
		categories: uniqueNames(filtered),
		categoryIDs: lo.SliceToMap(filtered, func(c *domain.Category) (domain.CategoryID, string) {
			return c.ID, c.Name
		}),
		accounts: lo.SliceToMap(accounts, func(a *domain.Account) (domain.AccountID, string) {
			return a.ID, a.Name
		}),
		creditCards: lo.SliceToMap(creditCards, func(c *domain.CreditCard) (domain.CreditCardID, string) {
			return c.ID, c.Name
		}),
	}
}

// Categories returns the canonical category axis, sorted by name.
func (l *Lookups) Categories() []*domain.Category {
	return l.categories
}

func (l *Lookups) CategoryName(id *domain.CategoryID) string {
	return lookup(l.categoryIDs, id)
}

func (l *Lookups) AccountName(id *domain.AccountID) string {
	return lookup(l.accounts, id)
}

func (l *Lookups) CreditCardName(id *domain.CreditCardID) string {
	return lookup(l.creditCards, id)
}

func lookup[K comparable](names map[K]string, id *K) string {
	if id == nil {
		return ""
	}

	return names[*id]
}
