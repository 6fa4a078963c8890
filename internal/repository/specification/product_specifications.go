package specification

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveProducts hides delisted items
type ActiveProducts struct{}

func (s ActiveProducts) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// ByCategory filters by exact category name
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	if s.Category == "" {
		return db
	}
	return db.Where("category = ?", s.Category)
}

// ProductSearchQuery matches name, description or category (case-insensitive)
// and ranks exact name matches first, then name, then description hits.
type ProductSearchQuery struct {
	Query string
}

func (s ProductSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	exact := EscapeLike(s.Query)
	pattern := "%" + exact + "%"
	return db.
		Where(`name ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\' OR category ILIKE ? ESCAPE '\'`, pattern, pattern, pattern).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                `CASE WHEN name ILIKE ? ESCAPE '\' THEN 1 WHEN name ILIKE ? ESCAPE '\' THEN 2 WHEN description ILIKE ? ESCAPE '\' THEN 3 ELSE 4 END, created_at DESC`,
				Vars:               []interface{}{exact, pattern, pattern},
				WithoutParentheses: true,
			},
		})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards and the escape character itself.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// PriceAtLeast filters price >= Min
type PriceAtLeast struct {
	Min float64
}

func (s PriceAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ?", s.Min)
}

// PriceAtMost filters price <= Max
type PriceAtMost struct {
	Max float64
}

func (s PriceAtMost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price <= ?", s.Max)
}
