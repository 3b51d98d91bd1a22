package platerank

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// A SimilarityModel bundles the grouped-restaurant corpus with its pairwise
// cosine-similarity matrix. Row i of the grouped corpus is row and column i
// of the matrix; the two are one value and are built, persisted, and loaded
// together so the coordinate spaces can never drift apart.
//
// Rows are ordered by sorted restaurant name. That order is part of the
// model: every component indexing into the matrix relies on it.
type SimilarityModel struct {
	Restaurants []string  // Distinct restaurant names, sorted.
	Documents   []string  // Concatenated review text per restaurant.
	Size        int       // Number of rows (and columns).
	Sim         []float64 // Row-major Size x Size cosine similarities.
}

// SimilarityVectorizerConfig returns the featurizer configuration used for
// the restaurant similarity space: stop words removed, unigrams only.
func SimilarityVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		NGramMax:    1,
		StopWords:   true,
	}
}

// BuildSimilarityModel groups all review text by restaurant, fits a TF-IDF
// space over the grouped documents, and computes the full pairwise cosine
// similarity matrix. Reviews with an empty restaurant key are skipped.
func BuildSimilarityModel(reviews []Review, config VectorizerConfig) (*SimilarityModel, error) {
	grouped := make(map[string][]string)
	for _, review := range reviews {
		if review.Restaurant == "" {
			continue
		}
		grouped[review.Restaurant] = append(grouped[review.Restaurant], review.Text)
	}
	if len(grouped) == 0 {
		return nil, ErrEmptyCorpus
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]string, len(names))
	for i, name := range names {
		docs[i] = strings.Join(grouped[name], " ")
	}

	vectorizer := NewTFIDFVectorizer(config)
	vectors, err := vectorizer.FitTransform(docs)
	if err != nil {
		return nil, err
	}

	r := len(names)
	norms := make([]float64, r)
	for i := 0; i < r; i++ {
		norms[i] = floats.Norm(vectors.RawRowView(i), 2)
	}

	sim := make([]float64, r*r)
	for i := 0; i < r; i++ {
		sim[i*r+i] = 1
		for j := i + 1; j < r; j++ {
			var value float64
			if norms[i] > 0 && norms[j] > 0 {
				value = floats.Dot(vectors.RawRowView(i), vectors.RawRowView(j)) / (norms[i] * norms[j])
			}
			// TF-IDF vectors are non-negative, so clamp rounding noise only.
			value = math.Max(0, math.Min(1, value))
			sim[i*r+j] = value
			sim[j*r+i] = value
		}
	}

	return &SimilarityModel{
		Restaurants: names,
		Documents:   docs,
		Size:        r,
		Sim:         sim,
	}, nil
}

// At returns the similarity between rows i and j.
func (m *SimilarityModel) At(i, j int) float64 {
	return m.Sim[i*m.Size+j]
}

// RowMean returns the mean similarity of row i against all restaurants,
// the global similarity signal used by hybrid ranking.
func (m *SimilarityModel) RowMean(i int) float64 {
	if m.Size == 0 {
		return 0
	}
	row := m.Sim[i*m.Size : (i+1)*m.Size]
	return floats.Sum(row) / float64(m.Size)
}

// Index returns the row for a restaurant name, matched case-insensitively
// against the stored spellings, or -1 when absent.
func (m *SimilarityModel) Index(name string) int {
	for i, stored := range m.Restaurants {
		if strings.EqualFold(stored, name) {
			return i
		}
	}
	return -1
}

// LookupSimilar ranks all other restaurants by similarity to the named one
// and returns the top n names. The query restaurant itself is excluded.
// Ties keep row order (stable sort). An unknown name yields nil, which
// callers treat as the signal to fall back.
func (m *SimilarityModel) LookupSimilar(name string, topN int) []string {
	idx := m.Index(name)
	if idx < 0 || topN <= 0 {
		return nil
	}

	order := make([]int, 0, m.Size-1)
	for i := 0; i < m.Size; i++ {
		if i != idx {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.At(idx, order[a]) > m.At(idx, order[b])
	})

	if len(order) > topN {
		order = order[:topN]
	}
	names := make([]string, len(order))
	for i, row := range order {
		names[i] = m.Restaurants[row]
	}
	return names
}
