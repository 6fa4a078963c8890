package resolver

import (
	"strings"

	"cloess-chatbot-be/internal/entity"
)

// Variants returns the lowercased term followed by its naive singular or
// plural form: a trailing "s" is stripped (terms longer than three letters)
// or appended.
func Variants(term string) []string {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return nil
	}
	variants := []string{t}
	if strings.HasSuffix(t, "s") {
		if len(t) > 3 {
			variants = append(variants, t[:len(t)-1])
		}
	} else {
		variants = append(variants, t+"s")
	}
	return variants
}

// Matches reports whether a product name relates to any variant by substring
// or shared word.
func Matches(name string, variants []string) bool {
	name = strings.ToLower(name)
	nameWords := strings.Fields(name)

	for _, v := range variants {
		if strings.Contains(name, v) || strings.Contains(v, name) {
			return true
		}
		for _, w := range strings.Fields(v) {
			if strings.Contains(name, w) {
				return true
			}
		}
		for _, w := range nameWords {
			if strings.Contains(v, w) {
				return true
			}
		}
	}
	return false
}

// BestMatch splits items into the closest match for term and the other
// related items. Short names (three words or fewer) are preferred, and among
// them the shortest wins.
func BestMatch(items []*entity.Product, term string) (*entity.Product, []*entity.Product) {
	variants := Variants(term)
	var best *entity.Product
	var partial []*entity.Product

	for _, item := range items {
		if !Matches(item.Name, variants) {
			continue
		}
		if len(strings.Fields(item.Name)) <= 3 {
			if best == nil || len(item.Name) < len(best.Name) {
				best = item
			}
			continue
		}
		partial = append(partial, item)
	}
	return best, partial
}
