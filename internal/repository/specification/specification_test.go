package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRun builds SQL without a live database.
func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost", PreferSimpleProtocol: true}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	return db
}

type row struct{}

func (row) TableName() string { return "products" }

func TestProductSearchQuery(t *testing.T) {
	db := dryRun(t)
	stmt := ProductSearchQuery{Query: "towel"}.Apply(db.Model(&row{})).Find(&[]row{}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "name ILIKE")
	assert.Contains(t, sql, "CASE WHEN name ILIKE")
	assert.Contains(t, stmt.Vars, "%towel%")
	assert.Contains(t, stmt.Vars, "towel")
}

func TestProductSearchQueryEscapesWildcards(t *testing.T) {
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\`, EscapeLike(`c:\`))

	db := dryRun(t)
	stmt := ProductSearchQuery{Query: "%"}.Apply(db.Model(&row{})).Find(&[]row{}).Statement

	assert.Contains(t, stmt.SQL.String(), `ESCAPE '\'`)
	assert.Contains(t, stmt.Vars, `%\%%`)
	assert.NotContains(t, stmt.Vars, "%%%")
}

func TestByCategoryEmptyIsNoop(t *testing.T) {
	db := dryRun(t)
	stmt := ByCategory{}.Apply(db.Model(&row{})).Find(&[]row{}).Statement
	assert.NotContains(t, stmt.SQL.String(), "category =")
}

func TestPriceBounds(t *testing.T) {
	db := dryRun(t)
	q := db.Model(&row{})
	q = PriceAtLeast{Min: 20}.Apply(q)
	q = PriceAtMost{Max: 80}.Apply(q)
	stmt := q.Find(&[]row{}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "price >=")
	assert.Contains(t, sql, "price <=")
}
