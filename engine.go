package platerank

import (
	"fmt"
	"sort"
	"strings"
)

// An Engine is the serving-time facade over the corpus, the restaurant
// directory, and the trained model artifacts. The model is read-only; the
// only mutable state is the review store, written through RecordFeedback.
type Engine struct {
	store       *ReviewStore
	details     []Detail
	model       *Model
	recommender *Recommender
}

// NewEngine creates an engine. The model's sentiment pair must be loaded;
// similarity may be absent, in which case recommendations run in fallback
// mode.
func NewEngine(store *ReviewStore, details []Detail, model *Model) (*Engine, error) {
	if model == nil || model.Vectorizer == nil || model.Classifier == nil {
		return nil, fmt.Errorf("engine: sentiment model: %w", ErrNotFitted)
	}
	return &Engine{
		store:       store,
		details:     details,
		model:       model,
		recommender: NewRecommender(store, details, model.Similarity),
	}, nil
}

// SimilarityAvailable reports whether content-based recommendations are
// active.
func (e *Engine) SimilarityAvailable() bool {
	return e.model.SimilarityAvailable()
}

// Sentiment classifies a single review text.
func (e *Engine) Sentiment(text string) (Sentiment, error) {
	features, err := e.model.Vectorizer.Transform([]string{CleanText(text)})
	if err != nil {
		return "", err
	}
	labels, err := e.model.Classifier.Predict(features)
	if err != nil {
		return "", err
	}
	if labels[0] == 1 {
		return Positive, nil
	}
	return Negative, nil
}

// Summary aggregates statistics for a restaurant name query.
func (e *Engine) Summary(name string) (*Summary, error) {
	return Summarize(e.store.Snapshot(), e.details, name)
}

// Similar returns restaurants similar to the named one.
func (e *Engine) Similar(name string, topN int) ([]Recommendation, error) {
	return e.recommender.Similar(name, topN)
}

// ByLocation returns restaurants near a location query ranked by hybrid
// score.
func (e *Engine) ByLocation(location string) ([]Recommendation, error) {
	return e.recommender.ByLocation(location)
}

// GlobalTop returns the overall top picks.
func (e *Engine) GlobalTop(n int) ([]Recommendation, error) {
	return e.recommender.GlobalTop(n)
}

// RecordFeedback stores one submitted review or rating. A rating of 0
// means "not provided". When review text is given, sentiment comes from the
// classifier and a rating is synthesized (4 positive, 2 negative) unless a
// valid one was provided. When only a rating is given it must be 1-5 and
// sentiment derives from it.
func (e *Engine) RecordFeedback(restaurant, review string, rating int) (Feedback, error) {
	restaurant = strings.TrimSpace(restaurant)
	if restaurant == "" {
		return Feedback{}, ErrMissingRestaurant
	}
	review = strings.TrimSpace(review)

	var sentiment Sentiment
	switch {
	case review != "":
		var err error
		sentiment, err = e.Sentiment(review)
		if err != nil {
			return Feedback{}, err
		}
		if rating < 1 || rating > 5 {
			if sentiment == Positive {
				rating = 4
			} else {
				rating = 2
			}
		}
	case rating != 0:
		if rating < 1 || rating > 5 {
			return Feedback{}, ErrInvalidRating
		}
		sentiment = SentimentForRating(rating)
		review = fmt.Sprintf("User submitted rating %d", rating)
	default:
		return Feedback{}, ErrMissingInput
	}

	record := Review{
		Restaurant: restaurant,
		Rating:     rating,
		Text:       review,
		Sentiment:  sentiment,
	}
	if err := e.store.Append(record); err != nil {
		return Feedback{}, err
	}
	return Feedback{Restaurant: restaurant, Sentiment: sentiment, Rating: rating}, nil
}

// Restaurants returns the sorted distinct restaurant names in the corpus.
func (e *Engine) Restaurants() []string {
	seen := make(map[string]bool)
	var names []string
	for _, review := range e.store.Snapshot() {
		if !seen[review.Restaurant] {
			seen[review.Restaurant] = true
			names = append(names, review.Restaurant)
		}
	}
	sort.Strings(names)
	return names
}

// RestaurantsWithDetails returns directory entries that have both a
// location and a contact.
func (e *Engine) RestaurantsWithDetails() []Detail {
	var out []Detail
	for _, detail := range e.details {
		if detail.Location != "" && detail.Contact != "" {
			out = append(out, detail)
		}
	}
	return out
}
