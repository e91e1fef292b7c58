package drafting

import "github.com/jonathan/training-report/internal/catalog"

// Thesaurus swaps canonical phrases for a randomly chosen variant
type Thesaurus struct {
	table map[string][]string
	rng   RandomSource
}

// NewThesaurus returns a thesaurus over the built-in synonym table
func NewThesaurus(rng RandomSource) *Thesaurus {
	return NewThesaurusWithTable(catalog.Synonyms(), rng)
}

// NewThesaurusWithTable returns a thesaurus over a custom table
func NewThesaurusWithTable(table map[string][]string, rng RandomSource) *Thesaurus {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Thesaurus{table: table, rng: rng}
}

// Pick returns one of the variants of phrase chosen uniformly at random.
// Phrases without an entry are returned unchanged.
func (t *Thesaurus) Pick(phrase string) string {
	variants := t.table[phrase]
	if len(variants) == 0 {
		return phrase
	}
	return variants[t.rng.IntN(len(variants))]
}
