package platerank

import (
	"fmt"
	"sort"
	"strings"
)

// Hybrid ranking blends the quality signal (average rating) with the
// relevance signal (cosine similarity). Missing signals fall back to
// neutral values rather than dropping the restaurant.
const (
	ratingWeight      = 0.7
	similarityWeight  = 0.3
	neutralRating     = 3.0
	neutralSimilarity = 0.5

	// DefaultGlobalTop is the number of global picks returned when the
	// caller does not ask for a specific count.
	DefaultGlobalTop = 6
)

// A Recommender produces ranked restaurant lists from the review corpus,
// the restaurant directory, and an optional similarity model. A nil model
// is the explicit "similarity artifacts unavailable" state: the recommender
// then permanently operates in fallback/neutral-score mode, which is not a
// per-request error.
type Recommender struct {
	store   *ReviewStore
	details []Detail
	model   *SimilarityModel
}

// NewRecommender creates a recommender. model may be nil.
func NewRecommender(store *ReviewStore, details []Detail, model *SimilarityModel) *Recommender {
	return &Recommender{store: store, details: details, model: model}
}

// ModelAvailable reports whether content-based similarity is loaded.
func (r *Recommender) ModelAvailable() bool {
	return r.model != nil
}

// checkModel validates the loaded similarity model before indexing into
// it. A malformed matrix is a computation error surfaced to the boundary,
// never an index panic.
func (r *Recommender) checkModel(op string) error {
	if r.model == nil {
		return nil
	}
	if len(r.model.Sim) != r.model.Size*r.model.Size || len(r.model.Restaurants) != r.model.Size {
		return &RecommendationError{Op: op, Err: fmt.Errorf("similarity matrix shape does not match grouped corpus (%d restaurants)", len(r.model.Restaurants))}
	}
	return nil
}

func hybridScore(avgRating, similarity float64) float64 {
	return ratingWeight*avgRating + similarityWeight*similarity
}

// Similar recommends restaurants similar to the named one. Content-based
// lookup runs first; when similarity data is unavailable or the name is not
// in the grouped corpus, the fallback collects directory entries sharing
// the name's first token, unioned with entries at the query restaurant's
// exact location when that location is known.
func (r *Recommender) Similar(name string, topN int) ([]Recommendation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingRestaurant
	}
	if err := r.checkModel("similar"); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = 5
	}

	var names []string
	if r.model != nil {
		names = r.model.LookupSimilar(name, topN)
	}
	if len(names) == 0 {
		names = r.fallbackSimilar(name, topN)
	}
	return r.describe(names), nil
}

// fallbackSimilar implements the deterministic name/location fallback.
func (r *Recommender) fallbackSimilar(name string, topN int) []string {
	firstToken := strings.ToLower(strings.Fields(name)[0])

	var names []string
	seen := make(map[string]bool)
	add := func(candidate string) {
		// The query restaurant never recommends itself.
		if strings.EqualFold(candidate, name) {
			return
		}
		key := strings.ToLower(candidate)
		if !seen[key] {
			seen[key] = true
			names = append(names, candidate)
		}
	}

	for _, detail := range r.details {
		if strings.Contains(strings.ToLower(detail.Restaurant), firstToken) {
			add(detail.Restaurant)
		}
	}

	// Location fallback needs the query restaurant's own directory entry;
	// the location match itself is exact, not substring.
	if own, ok := r.detailFor(name); ok && own.Location != "" {
		for _, detail := range r.details {
			if strings.EqualFold(detail.Location, own.Location) {
				add(detail.Restaurant)
			}
		}
	}

	if len(names) > topN {
		names = names[:topN]
	}
	return names
}

// ByLocation ranks restaurants whose directory location contains the query
// substring, ordered by hybrid score. Restaurants absent from the grouped
// corpus score a neutral similarity.
func (r *Recommender) ByLocation(location string) ([]Recommendation, error) {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return nil, nil
	}
	if err := r.checkModel("by_location"); err != nil {
		return nil, err
	}

	var matched []Detail
	for _, detail := range r.details {
		if strings.Contains(strings.ToLower(detail.Location), location) {
			matched = append(matched, detail)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	ratings := averageRatings(r.store.Snapshot())
	type scored struct {
		rec   Recommendation
		score float64
	}
	rows := make([]scored, 0, len(matched))
	for _, detail := range matched {
		similarity := neutralSimilarity
		if r.model != nil {
			if idx := r.model.Index(detail.Restaurant); idx >= 0 {
				similarity = r.model.RowMean(idx)
			}
		}
		avg, known := ratings[strings.ToLower(detail.Restaurant)]
		hybridAvg := avg
		if !known {
			hybridAvg = neutralRating
		}
		rows = append(rows, scored{
			rec: Recommendation{
				Restaurant:    detail.Restaurant,
				Location:      detail.Location,
				Contact:       detail.Contact,
				AverageRating: round2(avg),
			},
			score: hybridScore(hybridAvg, similarity),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	recs := make([]Recommendation, len(rows))
	for i, row := range rows {
		recs[i] = row.rec
	}
	return recs, nil
}

// GlobalTop returns the best-ranked restaurants overall. With a similarity
// model loaded the ranking is the hybrid of average rating and row-mean
// similarity over the grouped corpus; without one it degrades to plain
// average-rating order.
func (r *Recommender) GlobalTop(n int) ([]Recommendation, error) {
	if n <= 0 {
		n = DefaultGlobalTop
	}
	if err := r.checkModel("global_top"); err != nil {
		return nil, err
	}

	ratings := averageRatings(r.store.Snapshot())

	var names []string
	if r.model == nil {
		names = topByRating(r.store.Snapshot(), n)
	} else {
		order := make([]int, r.model.Size)
		scores := make([]float64, r.model.Size)
		for i := range order {
			order[i] = i
			avg, ok := ratings[strings.ToLower(r.model.Restaurants[i])]
			if !ok {
				avg = neutralRating
			}
			scores[i] = hybridScore(avg, r.model.RowMean(i))
		}
		sort.SliceStable(order, func(a, b int) bool {
			return scores[order[a]] > scores[order[b]]
		})
		if len(order) > n {
			order = order[:n]
		}
		for _, idx := range order {
			names = append(names, r.model.Restaurants[idx])
		}
	}
	return r.describe(names), nil
}

// topByRating ranks restaurants by average rating alone, ties broken by
// name for a deterministic order. Grouping keys are the exact stored
// spellings.
func topByRating(reviews []Review, n int) []string {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, review := range reviews {
		sums[review.Restaurant] += float64(review.Rating)
		counts[review.Restaurant]++
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	avg := func(name string) float64 { return sums[name] / float64(counts[name]) }
	sort.Slice(names, func(i, j int) bool {
		if avg(names[i]) != avg(names[j]) {
			return avg(names[i]) > avg(names[j])
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// describe joins ranked names to directory records and average ratings.
// Restaurants without a directory entry keep empty location and contact
// fields; restaurants without reviews report a zero average rating.
func (r *Recommender) describe(names []string) []Recommendation {
	if len(names) == 0 {
		return nil
	}
	ratings := averageRatings(r.store.Snapshot())

	recs := make([]Recommendation, 0, len(names))
	for _, name := range names {
		rec := Recommendation{Restaurant: name}
		if detail, ok := r.detailFor(name); ok {
			rec.Restaurant = detail.Restaurant
			rec.Location = detail.Location
			rec.Contact = detail.Contact
		}
		rec.AverageRating = round2(ratings[strings.ToLower(name)])
		recs = append(recs, rec)
	}
	return recs
}

func (r *Recommender) detailFor(name string) (Detail, bool) {
	for _, detail := range r.details {
		if strings.EqualFold(detail.Restaurant, name) {
			return detail, true
		}
	}
	return Detail{}, false
}

// averageRatings computes the mean rating per restaurant, keyed by
// lowercased name for case-insensitive joins.
func averageRatings(reviews []Review) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, review := range reviews {
		key := strings.ToLower(review.Restaurant)
		sums[key] += float64(review.Rating)
		counts[key]++
	}
	avgs := make(map[string]float64, len(sums))
	for key, sum := range sums {
		avgs[key] = sum / float64(counts[key])
	}
	return avgs
}
