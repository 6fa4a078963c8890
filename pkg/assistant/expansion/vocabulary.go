package expansion

import "strings"

// Keyword names a product the assistant talks about and the words that
// signal it in free text.
type Keyword struct {
	Product  string
	Triggers []string
}

type Vocabulary []Keyword

// DefaultVocabulary recognises products mentioned in conversation.
var DefaultVocabulary = Vocabulary{
	{Product: "carthagean robe", Triggers: []string{"carthagean", "robe"}},
	{Product: "kaftan", Triggers: []string{"kaftan"}},
	{Product: "fouta towel", Triggers: []string{"fouta", "towel"}},
	{Product: "carpet", Triggers: []string{"carpet", "rug", "berber"}},
	{Product: "bag", Triggers: []string{"bag"}},
	{Product: "jewelry", Triggers: []string{"jewelry", "jewellery", "silver"}},
	{Product: "bowl", Triggers: []string{"bowl", "olive wood"}},
	{Product: "shawl", Triggers: []string{"shawl", "artisan"}},
}

// SearchVocabulary turns an utterance into the short search term a visitor
// most likely means. Terms stay colloquial so the expansion table can still
// apply when the catalog uses other names.
var SearchVocabulary = Vocabulary{
	{Product: "robe", Triggers: []string{"robe", "carthagean"}},
	{Product: "kaftan", Triggers: []string{"kaftan"}},
	{Product: "fouta towel", Triggers: []string{"towel", "fouta"}},
	{Product: "carpet", Triggers: []string{"carpet", "rug", "berber"}},
	{Product: "bag", Triggers: []string{"bag"}},
	{Product: "jewelry", Triggers: []string{"jewelry", "jewellery", "silver"}},
	{Product: "bowl", Triggers: []string{"bowl", "olive", "wood"}},
	{Product: "shawl", Triggers: []string{"shawl"}},
}

// Find returns every product mentioned in text, in vocabulary order.
func (v Vocabulary) Find(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for _, kw := range v {
		for _, trigger := range kw.Triggers {
			if strings.Contains(text, trigger) {
				found = append(found, kw.Product)
				break
			}
		}
	}
	return found
}

// First returns the first product mentioned in text.
func (v Vocabulary) First(text string) (string, bool) {
	found := v.Find(text)
	if len(found) == 0 {
		return "", false
	}
	return found[0], true
}
