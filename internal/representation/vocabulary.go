package representation

import (
	"encoding/json"
	"sort"
)

// Vocabulary maps tokens to vector positions. Positions follow the order in
// which tokens were first added.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary creates a vocabulary holding terms in the given order.
// Duplicates keep their first position.
func NewVocabulary(terms ...string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(terms))}
	for _, t := range terms {
		v.Add(t)
	}
	return v
}

// Add inserts term if it is new and returns its position.
func (v *Vocabulary) Add(term string) int {
	if i, ok := v.index[term]; ok {
		return i
	}
	v.index[term] = len(v.terms)
	v.terms = append(v.terms, term)
	return len(v.terms) - 1
}

// Index returns the position of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the tokens in position order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// MarshalJSON encodes the vocabulary as its ordered term list.
func (v *Vocabulary) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Terms())
}

// termStats collects corpus-wide counts in first-occurrence order.
type termStats struct {
	terms []string
	total map[string]int
	df    map[string]int
}

func collectStats(docs [][]string) *termStats {
	st := &termStats{
		total: make(map[string]int),
		df:    make(map[string]int),
	}
	for _, doc := range docs {
		seen := make(map[string]bool, len(doc))
		for _, tok := range doc {
			if _, ok := st.total[tok]; !ok {
				st.terms = append(st.terms, tok)
			}
			st.total[tok]++
			if !seen[tok] {
				st.df[tok]++
				seen[tok] = true
			}
		}
	}
	return st
}

// buildVocabulary applies the document-frequency bounds and the feature cap
// to the corpus terms.
func buildVocabulary(docs [][]string, o *options) (*Vocabulary, error) {
	// An empty corpus is checked as a single document so conflicting bounds
	// fail the same way for every input.
	minDocs, maxDocs, err := o.docBounds(max(len(docs), 1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return NewVocabulary(), nil
	}

	st := collectStats(docs)

	kept := make([]string, 0, len(st.terms))
	for _, term := range st.terms {
		df := float64(st.df[term])
		if df >= minDocs && df <= maxDocs {
			kept = append(kept, term)
		}
	}

	if o.maxFeatures > 0 && len(kept) > o.maxFeatures {
		ranked := make([]int, len(kept))
		for i := range ranked {
			ranked[i] = i
		}
		sort.SliceStable(ranked, func(a, b int) bool {
			return st.total[kept[ranked[a]]] > st.total[kept[ranked[b]]]
		})
		ranked = ranked[:o.maxFeatures]
		sort.Ints(ranked)

		capped := make([]string, len(ranked))
		for i, pos := range ranked {
			capped[i] = kept[pos]
		}
		kept = capped
	}

	return NewVocabulary(kept...), nil
}
