// Package expansion maps colloquial product words to the canonical keywords
// the catalog is indexed under.
package expansion

import "strings"

// Rule expands any term containing one of Triggers into Canonical.
type Rule struct {
	Triggers  []string
	Canonical []string
}

// Table is consulted in order; the first matching rule wins.
type Table []Rule

// DefaultTable is the CLOESS catalog vocabulary.
var DefaultTable = Table{
	{Triggers: []string{"robe"}, Canonical: []string{"carthagean", "kaftan", "traditional"}},
	{Triggers: []string{"towel", "fouta"}, Canonical: []string{"fouta", "towel", "traditional"}},
	{Triggers: []string{"carpet", "rug"}, Canonical: []string{"carpet", "berber", "traditional"}},
	{Triggers: []string{"bag"}, Canonical: []string{"bag", "handmade", "leather"}},
	{Triggers: []string{"jewelry", "jewellery"}, Canonical: []string{"jewelry", "silver", "artisan"}},
	{Triggers: []string{"bowl"}, Canonical: []string{"bowl", "olive", "wood"}},
	{Triggers: []string{"shawl"}, Canonical: []string{"shawl", "artisan", "traditional"}},
	{Triggers: []string{"formal", "wedding"}, Canonical: []string{"carthagean", "kaftan", "robe", "traditional"}},
}

// Expand returns the canonical keywords for term, or nil when no rule applies.
// Plural forms match because triggers are substrings.
func (t Table) Expand(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	for _, rule := range t {
		for _, trigger := range rule.Triggers {
			if strings.Contains(term, trigger) {
				out := make([]string, len(rule.Canonical))
				copy(out, rule.Canonical)
				return out
			}
		}
	}
	return nil
}

// Expand consults DefaultTable.
func Expand(term string) []string {
	return DefaultTable.Expand(term)
}
