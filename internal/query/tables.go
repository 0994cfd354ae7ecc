package query

import "sort"

// Substitution rewrites one phrase into another.
type Substitution struct {
	From string
	To   string
}

// Tables is the static lookup data driving query interpretation. It is pure
// configuration: the interpreter never mutates it, and substitution order
// (longest phrase first) is fixed at construction.
type Tables struct {
	Version int

	// Colloquial maps Hinglish / colloquial phrases to canonical English.
	// Applied as plain substring replacement.
	Colloquial []Substitution

	// Misspellings maps common brand/product typos to the correct term.
	// Applied anchored to word boundaries.
	Misspellings []Substitution

	// Stopwords are dropped during tokenization.
	Stopwords map[string]struct{}

	// Brands and Colors are scanned in declared order; the first hit wins.
	Brands []string
	Colors []string
}

// DefaultTables returns the built-in lookup data.
func DefaultTables() Tables {
	t := Tables{
		Version: 3,
		Colloquial: []Substitution{
			{"sabse sasta", "cheapest"},
			{"sasta wala", "cheap"},
			{"sasta", "cheap"},
			{"saste", "cheap"},
			{"kam daam", "cheap"},
			{"mehenga", "premium"},
			{"mehnga", "premium"},
			{"sabse accha", "best"},
			{"accha wala", "good"},
			{"accha", "good"},
			{"badhiya", "best"},
			{"naya wala", "latest"},
			{"naya", "latest"},
			{"nayi", "latest"},
			{"tagda", "strong"},
			{"mazboot", "strong"},
			{"majboot", "strong"},
			{"zyada storage", "more storage"},
			{"lal", "red"},
			{"kala", "black"},
			{"kaala", "black"},
			{"safed", "white"},
			{"neela", "blue"},
			{"hara", "green"},
			{"peela", "yellow"},
		},
		Misspellings: []Substitution{
			{"aifone", "iphone"},
			{"ifone", "iphone"},
			{"iphon", "iphone"},
			{"i phone", "iphone"},
			{"samsang", "samsung"},
			{"samsng", "samsung"},
			{"sumsung", "samsung"},
			{"xiomi", "xiaomi"},
			{"shaomi", "xiaomi"},
			{"redmii", "redmi"},
			{"one plus", "oneplus"},
			{"1plus", "oneplus"},
			{"moblie", "mobile"},
			{"mobil", "mobile"},
			{"laptap", "laptop"},
			{"leptop", "laptop"},
			{"earfone", "earphone"},
			{"erphone", "earphone"},
			{"hedphone", "headphone"},
			{"smart watch", "smartwatch"},
			{"smartwach", "smartwatch"},
		},
		Stopwords: wordSet(
			"the", "a", "an", "and", "or", "for", "of", "in", "on", "at",
			"to", "with", "is", "are", "was", "i", "me", "my", "this",
			"that", "it", "want", "need", "buy", "show", "find", "get",
			"please", "wala", "hai", "ka", "ki", "ke",
		),
		Brands: []string{
			"iphone", "apple", "samsung", "oneplus", "xiaomi", "redmi",
			"realme", "vivo", "oppo", "motorola", "nokia", "google",
			"boat", "noise", "sony", "jbl", "dell", "hp", "lenovo",
			"asus", "acer",
		},
		Colors: []string{
			"black", "white", "red", "blue", "green", "grey", "gray",
			"silver", "gold", "purple", "pink", "yellow", "orange",
		},
	}
	sortLongestFirst(t.Colloquial)
	sortLongestFirst(t.Misspellings)
	return t
}

// sortLongestFirst orders substitutions so multi-word phrases are applied
// before the single words they contain.
func sortLongestFirst(subs []Substitution) {
	sort.SliceStable(subs, func(i, j int) bool {
		return len(subs[i].From) > len(subs[j].From)
	})
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
