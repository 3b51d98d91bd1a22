package platerank

import (
	"errors"
	"fmt"
)

// Sentiment is the polarity assigned to a review.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
)

// SentimentForRating derives a review's sentiment from its star rating.
// Ratings of three stars and above count as positive.
func SentimentForRating(rating int) Sentiment {
	if rating >= 3 {
		return Positive
	}
	return Negative
}

// A Review represents a single review record from the corpus.
type Review struct {
	Restaurant string    // The restaurant the review is about.
	Rating     int       // Star rating 1-5, or 0 when inferred from text only.
	Text       string    // Cleaned review text (lowercase, punctuation stripped).
	Sentiment  Sentiment // Derived from Rating.
}

// A Detail holds directory information for a restaurant. Details are keyed
// by restaurant name and matched case-insensitively; not every restaurant
// in the review corpus has one.
type Detail struct {
	Restaurant string
	Location   string
	Contact    string
}

// A Recommendation is one entry of a ranked restaurant list.
type Recommendation struct {
	Restaurant    string  `json:"restaurant"`
	Location      string  `json:"location"`
	Contact       string  `json:"contact"`
	AverageRating float64 `json:"average_rating"`
}

// A Summary aggregates descriptive statistics for a restaurant.
type Summary struct {
	Restaurant       string         `json:"restaurant"` // Canonical display spelling.
	TotalReviews     int            `json:"total_reviews"`
	AverageRating    float64        `json:"average_rating"` // Rounded to two decimals.
	RatingCounts     map[string]int `json:"rating_counts"`  // Histogram for ratings "1".."5".
	PositiveCount    int            `json:"positive"`
	NegativeCount    int            `json:"negative"`
	PositiveExamples []string       `json:"positive_examples"` // Up to three per class.
	NegativeExamples []string       `json:"negative_examples"`
	Location         string         `json:"location"`
	Contact          string         `json:"contact"`
}

// Feedback is the outcome of recording a submitted review or rating.
type Feedback struct {
	Restaurant string    `json:"restaurant"`
	Sentiment  Sentiment `json:"sentiment"`
	Rating     int       `json:"rating"`
}

// Errors reported to callers of the external interface. These are input
// errors: specific, user-facing, and never fatal to the process.
var (
	ErrMissingRestaurant  = errors.New("missing restaurant")
	ErrMissingInput       = errors.New("missing review or rating")
	ErrInvalidRating      = errors.New("invalid rating: must be between 1 and 5")
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// Errors from the model layer.
var (
	ErrNotFitted   = errors.New("model has not been fitted")
	ErrEmptyCorpus = errors.New("training corpus is empty")
)

// A DimensionError reports a mismatch between the feature dimensionality
// of an input and the dimensionality a model was fitted with.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: model expects %d, input has %d", e.Want, e.Got)
}

// A RecommendationError wraps a failure inside recommendation ranking. The
// core reports these honestly; the serving layer decides whether to degrade
// to an empty result.
type RecommendationError struct {
	Op  string // The operation that failed ("similar", "by_location", "global_top").
	Err error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("recommendation %s: %v", e.Op, e.Err)
}

func (e *RecommendationError) Unwrap() error { return e.Err }
