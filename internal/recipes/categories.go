package recipes

import (
	"sort"

	"github.com/samber/lo"
)

// Categories returns the distinct categories of list sorted lexicographically.
func Categories(list []Recipe) []string {
	categories := lo.Uniq(lo.Map(list, func(r Recipe, _ int) string {
		return r.Category
	}))
	sort.Strings(categories)
	return categories
}

// FilterByCategory keeps the recipes whose category is exactly category, in input order.
func FilterByCategory(list []Recipe, category string) []Recipe {
	return lo.Filter(list, func(r Recipe, _ int) bool {
		return r.Category == category
	})
}
