package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/inventory-service/internal/item/dto"
)

func int64Ptr(v int64) *int64 { return &v }

func Test_BuildListQuery_Filters(t *testing.T) {
	tests := []struct {
		name         string
		filters      *dto.ItemFilters
		wantParts    []string
		wantAbsent   []string
		wantArgCount int
	}{
		{
			name:         "no_filters",
			filters:      &dto.ItemFilters{},
			wantParts:    []string{`FROM "items"`, `ORDER BY "name" ASC`},
			wantAbsent:   []string{"ILIKE", "category_id", "current_stock <= min_stock"},
			wantArgCount: 0,
		},
		{
			name:         "search_matches_name_or_sku",
			filters:      &dto.ItemFilters{Search: "oak"},
			wantParts:    []string{`"name" ILIKE`, `"sku" ILIKE`, ` OR `},
			wantArgCount: 2,
		},
		{
			name:         "category_filter",
			filters:      &dto.ItemFilters{CategoryID: int64Ptr(2)},
			wantParts:    []string{`"category_id"`},
			wantArgCount: 1,
		},
		{
			name:       "low_stock_pushed_into_predicate",
			filters:    &dto.ItemFilters{LowStockOnly: true},
			wantParts:  []string{"current_stock <= min_stock"},
			wantAbsent: []string{"ILIKE"},
		},
		{
			name: "combined_filters_intersect",
			filters: &dto.ItemFilters{
				Search:       "oak",
				CategoryID:   int64Ptr(2),
				LowStockOnly: true,
			},
			wantParts: []string{
				`"name" ILIKE`,
				`"category_id"`,
				"current_stock <= min_stock",
				" AND ",
			},
			wantArgCount: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := buildListQuery(tc.filters)
			require.NoError(t, err)

			for _, part := range tc.wantParts {
				assert.Contains(t, query, part)
			}
			for _, part := range tc.wantAbsent {
				assert.NotContains(t, query, part)
			}
			if tc.wantArgCount > 0 {
				assert.Len(t, args, tc.wantArgCount)
			}

			// Ordering is part of the list contract, always present.
			assert.Contains(t, query, `ORDER BY "name" ASC`)
		})
	}
}

func Test_BuildListQuery_SearchPattern(t *testing.T) {
	_, args, err := buildListQuery(&dto.ItemFilters{Search: "oak"})
	require.NoError(t, err)
	require.Len(t, args, 2)
	assert.Equal(t, "%oak%", args[0])
	assert.Equal(t, "%oak%", args[1])
}
