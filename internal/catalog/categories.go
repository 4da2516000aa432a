package catalog

import (
	"strings"

	"github.com/Gunvolt24/techshop/internal/domain"
)

// DistinctCategories — уникальные main_category в порядке первого появления.
func DistinctCategories(goods []domain.Product) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, g := range goods {
		c := strings.TrimSpace(g.MainCategory)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
