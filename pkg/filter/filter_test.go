package filter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

func TestContainsFoldSkipsBlankTerm(t *testing.T) {
	assert.True(t, ContainsFold("   ", "name").IsZero())
	assert.True(t, ContainsFold("pixel").IsZero())
}

func TestContainsFoldOrsColumns(t *testing.T) {
	clause, args := ContainsFold(" Pix_el ", "p.name", "p.model").SQL()
	assert.Equal(t, `(LOWER(p.name) LIKE ? ESCAPE '\' OR LOWER(p.model) LIKE ? ESCAPE '\')`, clause)
	require.Len(t, args, 2)
	assert.Equal(t, `%pix\_el%`, args[0])
}

func TestBetweenBounds(t *testing.T) {
	min := decimal.NewFromInt(500)
	max := decimal.NewFromInt(1000)

	clause, args := Between("launch_price", &min, &max).SQL()
	assert.Equal(t, "launch_price >= ? AND launch_price <= ?", clause)
	assert.Equal(t, []any{min, max}, args)

	clause, _ = Between[decimal.Decimal]("launch_price", nil, &max).SQL()
	assert.Equal(t, "launch_price <= ?", clause)

	assert.True(t, Between[decimal.Decimal]("launch_price", nil, nil).IsZero())
}

func TestAllSkipsZeroPredicates(t *testing.T) {
	status := "active"
	pred := All(
		ContainsFold("", "name"),
		EqOpt("status", &status),
		EqOpt[string]("brand_id", nil),
		IsNull("deleted_at"),
	)
	clause, args := pred.SQL()
	assert.Equal(t, "(status = ?) AND (deleted_at IS NULL)", clause)
	assert.Equal(t, []any{"active"}, args)

	single, _ := All(Eq("a", 1)).SQL()
	assert.Equal(t, "a = ?", single)
	assert.True(t, All().IsZero())
}

func TestInEmptyMatchesNothing(t *testing.T) {
	clause, args := In[string]("id", nil).SQL()
	assert.Equal(t, "1 = 0", clause)
	assert.Empty(t, args)
}

func TestPrefixPattern(t *testing.T) {
	assert.Equal(t, `10\%%`, PrefixPattern("10%"))
}

func TestSortKeysResolve(t *testing.T) {
	keys := SortKeys{Default: "createdAt", Columns: map[string]string{
		"createdAt": "p.created_at",
		"name":      "p.name",
	}}

	s := keys.Resolve("name", "ASC")
	assert.Equal(t, Sort{Column: "p.name", Order: enums.SortOrderAsc}, s)

	s = keys.Resolve("bogus", "sideways")
	assert.Equal(t, Sort{Column: "p.created_at", Order: enums.SortOrderDesc}, s)
}
