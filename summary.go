package platerank

import (
	"math"
	"strconv"
	"strings"
)

const maxExampleReviews = 3

// Summarize computes descriptive statistics for a restaurant. The query is
// matched as a case-insensitive substring against every review's stored
// restaurant name; the most frequent exact spelling among the matches
// becomes the canonical display name (first-encountered wins ties).
// Directory fields stay empty when no detail record matches.
func Summarize(reviews []Review, details []Detail, query string) (*Summary, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrMissingRestaurant
	}

	var matched []Review
	for _, review := range reviews {
		if strings.Contains(strings.ToLower(review.Restaurant), query) {
			matched = append(matched, review)
		}
	}
	if len(matched) == 0 {
		return nil, ErrRestaurantNotFound
	}

	summary := &Summary{
		TotalReviews: len(matched),
		RatingCounts: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}

	ratingSum := 0
	spellingCounts := make(map[string]int)
	var spellingOrder []string
	for _, review := range matched {
		ratingSum += review.Rating
		if review.Rating >= 1 && review.Rating <= 5 {
			summary.RatingCounts[strconv.Itoa(review.Rating)]++
		}
		if review.Sentiment == Positive {
			summary.PositiveCount++
			if len(summary.PositiveExamples) < maxExampleReviews {
				summary.PositiveExamples = append(summary.PositiveExamples, review.Text)
			}
		} else {
			summary.NegativeCount++
			if len(summary.NegativeExamples) < maxExampleReviews {
				summary.NegativeExamples = append(summary.NegativeExamples, review.Text)
			}
		}
		if spellingCounts[review.Restaurant] == 0 {
			spellingOrder = append(spellingOrder, review.Restaurant)
		}
		spellingCounts[review.Restaurant]++
	}

	summary.AverageRating = round2(float64(ratingSum) / float64(len(matched)))

	best := 0
	for _, spelling := range spellingOrder {
		if spellingCounts[spelling] > best {
			best = spellingCounts[spelling]
			summary.Restaurant = spelling
		}
	}

	for _, detail := range details {
		if strings.EqualFold(detail.Restaurant, summary.Restaurant) {
			summary.Location = detail.Location
			summary.Contact = detail.Contact
			break
		}
	}
	return summary, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
