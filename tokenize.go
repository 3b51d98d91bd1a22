package platerank

import (
	"regexp"
	"strings"

	"github.com/bbalet/stopwords"
)

var nonLetterRE = regexp.MustCompile(`[^a-z\s]+`)

// CleanText normalizes raw review text for the featurizer: lowercase,
// non-letter characters stripped, whitespace collapsed. Stored corpus text
// is expected to already be in this form; CleanText exists for callers
// holding raw user input.
func CleanText(text string) string {
	text = strings.ToLower(text)
	text = nonLetterRE.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// RemoveStopWords strips English stop words from already-cleaned text.
func RemoveStopWords(text string) string {
	return strings.TrimSpace(stopwords.CleanString(text, "en", false))
}

// tokenize splits cleaned text into unigram terms. The heavy lifting
// (case-folding, punctuation removal) happens upstream, so splitting on
// whitespace is sufficient here.
func tokenize(text string) []string {
	return strings.Fields(text)
}

// ngramTerms expands tokens into the terms counted by the vectorizer. With
// nGramMax of 1 the tokens are returned as-is; with 2, adjacent-word
// bigrams (joined by a single space) are appended after the unigrams.
func ngramTerms(tokens []string, nGramMax int) []string {
	if nGramMax < 2 || len(tokens) < 2 {
		return tokens
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
