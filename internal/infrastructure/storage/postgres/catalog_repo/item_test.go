package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"millstock/internal/domain"
	"millstock/internal/domain/catalogs/item"
)

func TestListQuery_Filters(t *testing.T) {
	repo := &ItemRepo{selectCols: []string{"id", "code"}}

	sql, args, err := repo.listQuery(item.ListFilter{
		ListFilter:  domain.ListFilter{Search: "bolt"},
		Category:    "Hardware",
		Subcategory: "Bolts",
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, code FROM items WHERE category = $1 AND subcategory = $2 AND (code ILIKE $3 OR name ILIKE $4)",
		sql)
	assert.Equal(t, []any{"Hardware", "Bolts", "%bolt%", "%bolt%"}, args)
}

func TestReferencedSQL_CoversEveryLineTable(t *testing.T) {
	sql := referencedSQL()

	for _, table := range itemReferences {
		assert.Contains(t, sql, "FROM "+table+" WHERE item_id = $1")
	}
	assert.Contains(t, sql, "production_floor_stocks")
}
