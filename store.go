package platerank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// A ReviewStore owns the mutable review corpus. Reads take a snapshot;
// writes append one record and, when the store is file-backed, rewrite the
// whole snapshot to disk. Persistence-on-write is store policy, not caller
// logic. The store assumes a single writer but guards against concurrent
// readers from the serving layer.
type ReviewStore struct {
	mu      sync.RWMutex
	path    string // Empty for in-memory stores.
	reviews []Review
}

// NewReviewStore creates an in-memory store seeded with the given reviews.
func NewReviewStore(reviews []Review) *ReviewStore {
	return &ReviewStore{reviews: append([]Review(nil), reviews...)}
}

// ReviewStoreFromCSV loads a file-backed store. Appends will rewrite the
// same file.
func ReviewStoreFromCSV(path string) (*ReviewStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer file.Close()

	reviews, err := readReviews(file)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	return &ReviewStore{path: path, reviews: reviews}, nil
}

// Snapshot returns a copy of the current corpus.
func (s *ReviewStore) Snapshot() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Review(nil), s.reviews...)
}

// Len returns the number of stored reviews.
func (s *ReviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

// Append adds one review and persists the full snapshot when file-backed.
func (s *ReviewStore) Append(review Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = append(s.reviews, review)
	if s.path == "" {
		return nil
	}
	if err := s.save(); err != nil {
		// Keep memory and disk consistent: drop the record we failed to save.
		s.reviews = s.reviews[:len(s.reviews)-1]
		return fmt.Errorf("persist corpus: %w", err)
	}
	return nil
}

func (s *ReviewStore) save() error {
	file, err := os.Create(s.path)
	if err != nil {
		return err
	}
	if err := writeReviews(file, s.reviews); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// readReviews parses the corpus CSV. Headers are normalized the way the
// rest of the pipeline expects: trimmed, lowercased, with restaurant_name
// accepted as an alias for restaurant. A rating that fails to parse is
// stored as 0 (unrated); sentiment is always derived from the rating.
func readReviews(r io.Reader) ([]Review, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "restaurant_name" {
			name = "restaurant"
		}
		cols[name] = i
	}
	restaurantCol, ok := cols["restaurant"]
	if !ok {
		return nil, fmt.Errorf("corpus is missing a restaurant column")
	}
	textCol, ok := cols["cleaned_review"]
	if !ok {
		return nil, fmt.Errorf("corpus is missing a cleaned_review column")
	}
	ratingCol, hasRating := cols["rating"]

	var reviews []Review
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		review := Review{
			Restaurant: strings.TrimSpace(field(record, restaurantCol)),
			Text:       field(record, textCol),
		}
		if review.Restaurant == "" {
			continue
		}
		if hasRating {
			if rating, err := strconv.Atoi(strings.TrimSpace(field(record, ratingCol))); err == nil {
				review.Rating = rating
			}
		}
		review.Sentiment = SentimentForRating(review.Rating)
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func writeReviews(w io.Writer, reviews []Review) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"restaurant", "rating", "sentiment", "cleaned_review"}); err != nil {
		return err
	}
	for _, review := range reviews {
		record := []string{
			review.Restaurant,
			strconv.Itoa(review.Rating),
			string(review.Sentiment),
			review.Text,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func field(record []string, i int) string {
	if i >= 0 && i < len(record) {
		return record[i]
	}
	return ""
}

func colOrMissing(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// DetailsFromCSV loads the restaurant directory. The file uses a name
// column plus location and contact number.
func DetailsFromCSV(path string) ([]Detail, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open details: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read details %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "name" {
			name = "restaurant"
		}
		cols[name] = i
	}
	restaurantCol, ok := cols["restaurant"]
	if !ok {
		return nil, fmt.Errorf("details file is missing a name column")
	}
	locationCol := colOrMissing(cols, "location")
	contactCol := colOrMissing(cols, "contact number")

	var details []Detail
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read details %s: %w", path, err)
		}
		detail := Detail{
			Restaurant: strings.TrimSpace(field(record, restaurantCol)),
			Location:   strings.TrimSpace(field(record, locationCol)),
			Contact:    strings.TrimSpace(field(record, contactCol)),
		}
		if detail.Restaurant == "" {
			continue
		}
		details = append(details, detail)
	}
	return details, nil
}
