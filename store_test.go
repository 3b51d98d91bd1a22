package platerank

import (
	"os"
	"path/filepath"
	"testing"
)

const corpusCSV = `Restaurant_Name,Rating,cleaned_review
Cafe Roma,5,wonderful pasta
Cafe Roma,not-a-number,cold food
Burger Barn,2,soggy fries
,3,review with no restaurant
`

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReviewStoreFromCSV(t *testing.T) {
	store, err := ReviewStoreFromCSV(writeTempCSV(t, corpusCSV))
	if err != nil {
		t.Fatalf("ReviewStoreFromCSV failed: %v", err)
	}

	reviews := store.Snapshot()
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews, want 3 (keyless row skipped)", len(reviews))
	}
	if reviews[0].Restaurant != "Cafe Roma" || reviews[0].Rating != 5 {
		t.Errorf("first review = %+v", reviews[0])
	}
	if reviews[0].Sentiment != Positive {
		t.Errorf("rating 5 should derive Positive, got %v", reviews[0].Sentiment)
	}
	// Unparseable ratings are stored as 0, which reads as Negative.
	if reviews[1].Rating != 0 || reviews[1].Sentiment != Negative {
		t.Errorf("unparseable rating review = %+v", reviews[1])
	}
}

func TestReviewStoreAppendPersists(t *testing.T) {
	path := writeTempCSV(t, corpusCSV)
	store, err := ReviewStoreFromCSV(path)
	if err != nil {
		t.Fatalf("ReviewStoreFromCSV failed: %v", err)
	}

	added := Review{Restaurant: "Sushi Spot", Rating: 4, Text: "fresh fish", Sentiment: Positive}
	if err := store.Append(added); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	reloaded, err := ReviewStoreFromCSV(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	reviews := reloaded.Snapshot()
	if len(reviews) != 4 {
		t.Fatalf("got %d reviews after append+reload, want 4", len(reviews))
	}
	last := reviews[len(reviews)-1]
	if last.Restaurant != "Sushi Spot" || last.Rating != 4 || last.Text != "fresh fish" {
		t.Errorf("appended review did not round-trip: %+v", last)
	}
}

func TestReviewStoreSnapshotIsCopy(t *testing.T) {
	store := NewReviewStore([]Review{{Restaurant: "Cafe Roma", Rating: 5}})
	snapshot := store.Snapshot()
	snapshot[0].Restaurant = "mutated"
	if store.Snapshot()[0].Restaurant != "Cafe Roma" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestReviewStoreMissingColumns(t *testing.T) {
	tests := []struct {
		csv  string
		desc string
	}{
		{"rating,cleaned_review\n5,great\n", "No restaurant column"},
		{"restaurant,rating\nCafe Roma,5\n", "No cleaned_review column"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := ReviewStoreFromCSV(writeTempCSV(t, tt.csv)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestDetailsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "details.csv")
	contents := `Name,Location,Contact Number
Cafe Roma,Downtown,555-0101
Cafe Verde,Downtown,
,Uptown,555-0199
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	details, err := DetailsFromCSV(path)
	if err != nil {
		t.Fatalf("DetailsFromCSV failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("got %d details, want 2 (nameless row skipped)", len(details))
	}
	if details[0].Restaurant != "Cafe Roma" || details[0].Location != "Downtown" || details[0].Contact != "555-0101" {
		t.Errorf("first detail = %+v", details[0])
	}
	if details[1].Contact != "" {
		t.Errorf("missing contact should stay empty, got %q", details[1].Contact)
	}
}
