// Package vector provides the in-memory vector index the matching engine
// ranks catalog items with.
package vector

import "sort"

// Result is a single similarity hit.
type Result struct {
	ID    string
	Score float64
}

// Index is a brute-force in-memory cosine index. Insertion order is
// preserved and used as the tie-break in Search, so rankings are
// reproducible across identical queries. An Index is built once per catalog
// load and swapped in whole; it is not mutated after the build, so reads
// need no locking.
type Index struct {
	ids     []string
	vectors [][]float32
	present map[string]bool
}

// New creates an empty index.
func New() *Index {
	return &Index{present: make(map[string]bool)}
}

// Add appends one vector. Duplicate ids are ignored; the first vector for an
// id wins, matching the one-vector-per-item invariant.
func (ix *Index) Add(id string, vec []float32) {
	if ix.present[id] {
		return
	}
	cp := make([]float32, len(vec))
	copy(cp, vec)
	ix.ids = append(ix.ids, id)
	ix.vectors = append(ix.vectors, cp)
	ix.present[id] = true
}

// Has reports whether id already has a vector.
func (ix *Index) Has(id string) bool {
	return ix.present[id]
}

// Size returns the number of vectors in the index.
func (ix *Index) Size() int {
	return len(ix.ids)
}

// Search returns every entry whose cosine similarity to query is at least
// minScore, sorted descending with ties broken by insertion order.
func (ix *Index) Search(query []float32, minScore float64) []Result {
	results := make([]Result, 0, len(ix.ids))
	for i, vec := range ix.vectors {
		score := CosineSimilarity(query, vec)
		if score >= minScore {
			results = append(results, Result{ID: ix.ids[i], Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}
