package platerank

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// VectorizerConfig configures a TFIDFVectorizer.
type VectorizerConfig struct {
	MaxFeatures int  // Vocabulary cap by corpus frequency; 0 means unlimited.
	NGramMax    int  // 1 for unigrams only, 2 to include adjacent bigrams.
	StopWords   bool // Strip English stop words before counting terms.
}

// DefaultVectorizerConfig returns the configuration used for sentiment
// training: capped vocabulary with unigrams and bigrams.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		NGramMax:    2,
	}
}

// A TFIDFVectorizer converts cleaned text into fixed-dimension TF-IDF
// vectors. The vocabulary and document-frequency weights are fit once over
// a training corpus and frozen thereafter; the same fitted instance must be
// used for training and all subsequent inference. Fields are exported so a
// fitted vectorizer can be persisted as-is.
type TFIDFVectorizer struct {
	Config     VectorizerConfig
	Vocabulary map[string]int // Term to column index.
	IDF        []float64      // Inverse document frequency per column.
}

// NewTFIDFVectorizer creates an unfitted vectorizer.
func NewTFIDFVectorizer(config VectorizerConfig) *TFIDFVectorizer {
	return &TFIDFVectorizer{Config: config}
}

// Fitted reports whether Fit has completed.
func (v *TFIDFVectorizer) Fitted() bool {
	return v.Vocabulary != nil && len(v.IDF) == len(v.Vocabulary)
}

// NumFeatures returns the fixed dimensionality of transformed vectors.
func (v *TFIDFVectorizer) NumFeatures() int {
	return len(v.Vocabulary)
}

// terms runs one document through the tokenization pipeline.
func (v *TFIDFVectorizer) terms(doc string) []string {
	if v.Config.StopWords {
		doc = RemoveStopWords(doc)
	}
	return ngramTerms(tokenize(doc), v.Config.NGramMax)
}

// Fit learns the vocabulary and IDF weights from the corpus. The
// vocabulary is capped at MaxFeatures terms by total corpus frequency and
// column order is deterministic (descending frequency, ties alphabetical).
func (v *TFIDFVectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	corpusCounts := make(map[string]int)
	docCounts := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range v.terms(doc) {
			corpusCounts[term]++
			if !seen[term] {
				docCounts[term]++
				seen[term] = true
			}
		}
	}
	if len(corpusCounts) == 0 {
		return ErrEmptyCorpus
	}

	vocab := make([]string, 0, len(corpusCounts))
	for term := range corpusCounts {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if corpusCounts[vocab[i]] != corpusCounts[vocab[j]] {
			return corpusCounts[vocab[i]] > corpusCounts[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if v.Config.MaxFeatures > 0 && len(vocab) > v.Config.MaxFeatures {
		vocab = vocab[:v.Config.MaxFeatures]
	}

	v.Vocabulary = make(map[string]int, len(vocab))
	v.IDF = make([]float64, len(vocab))
	n := float64(len(docs))
	for i, term := range vocab {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log(n/float64(docCounts[term]+1)) + 1
	}
	return nil
}

// Transform converts documents into a dense TF-IDF matrix of shape
// (len(docs), NumFeatures). Terms outside the fitted vocabulary are
// ignored. Calling Transform before Fit is an error.
func (v *TFIDFVectorizer) Transform(docs []string) (*mat.Dense, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	out := mat.NewDense(len(docs), len(v.Vocabulary), nil)
	for i, doc := range docs {
		terms := v.terms(doc)
		if len(terms) == 0 {
			continue
		}
		counts := make(map[int]float64)
		for _, term := range terms {
			if col, ok := v.Vocabulary[term]; ok {
				counts[col]++
			}
		}
		total := float64(len(terms))
		for col, count := range counts {
			out.Set(i, col, count/total*v.IDF[col])
		}
	}
	return out, nil
}

// FitTransform fits the vectorizer and transforms the same corpus.
func (v *TFIDFVectorizer) FitTransform(docs []string) (*mat.Dense, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}
