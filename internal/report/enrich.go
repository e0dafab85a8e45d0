package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/caiohscruz/organizze-reports/internal/domain"
	"github.com/samber/lo"
)

const categorySeparator = " > "

// EnrichCategories returns copies of categories named "{parent} > {name}" when the parent is
// part of the same set. Only the direct parent is used.
func EnrichCategories(categories []*domain.Category) []*domain.Category {
	byID := lo.KeyBy(categories, func(c *domain.Category) domain.CategoryID {
		return c.ID
	})

	return lo.Map(categories, func(c *domain.Category, _ int) *domain.Category {
		enriched := *c
		if c.ParentID == nil {
			return &enriched
		}

		if parent, ok := byID[*c.ParentID]; ok {
			enriched.Name = fmt.Sprintf("%s%s%s", parent.Name, categorySeparator, c.Name)
		}

		return &enriched
	})
}

// FilterCategories removes archived categories, categories that are the parent of any category in all,
// and categories whose raw or enriched name is ignored. The result is sorted by name and has unique names.
func FilterCategories(all []*domain.Category, enriched []*domain.Category, ignored []string) []*domain.Category {
	return uniqueNames(reportable(all, enriched, ignored))
}

// reportable applies the FilterCategories rules and sorts by name, keeping categories that share a name.
func reportable(all []*domain.Category, enriched []*domain.Category, ignored []string) []*domain.Category {
	parents := make(map[domain.CategoryID]struct{})
	for _, c := range all {
		if c.ParentID != nil {
			parents[*c.ParentID] = struct{}{}
		}
	}

	rawNames := lo.SliceToMap(all, func(c *domain.Category) (domain.CategoryID, string) {
		return c.ID, c.Name
	})

	ignoredNames := lo.SliceToMap(ignored, func(name string) (string, struct{}) {
		return strings.TrimSpace(name), struct{}{}
	})

	isIgnored := func(name string) bool {
		_, ok := ignoredNames[name]
		return ok
	}

	filtered := lo.Filter(enriched, func(c *domain.Category, _ int) bool {
		if c.Archived {
			return false
		}

		if _, ok := parents[c.ID]; ok {
			return false
		}

		if raw, ok := rawNames[c.ID]; ok && isIgnored(raw) {
			return false
		}

		return !isIgnored(c.Name)
	})

	slices.SortStableFunc(filtered, func(a, b *domain.Category) int {
		return strings.Compare(a.Name, b.Name)
	})

	return filtered
}

func uniqueNames(categories []*domain.Category) []*domain.Category {
	return lo.UniqBy(categories, func(c *domain.Category) string {
		return c.Name
	})
}

// CanonicalCategories enriches and filters categories in one step.
func CanonicalCategories(categories []*domain.Category, ignored []string) []*domain.Category {
	return FilterCategories(categories, EnrichCategories(categories), ignored)
}
