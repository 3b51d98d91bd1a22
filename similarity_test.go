package platerank

import (
	"errors"
	"math"
	"testing"
)

func similarityFixture(t *testing.T) *SimilarityModel {
	t.Helper()
	reviews := []Review{
		{Restaurant: "Cafe Roma", Rating: 5, Text: "wonderful pasta and fresh bread"},
		{Restaurant: "Cafe Roma", Rating: 4, Text: "pasta carbonara was rich"},
		{Restaurant: "Pasta Palace", Rating: 4, Text: "pasta pasta and more pasta"},
		{Restaurant: "Burger Barn", Rating: 3, Text: "juicy burger crispy fries"},
		{Restaurant: "Sushi Spot", Rating: 5, Text: "fresh fish delicate rice"},
	}
	model, err := BuildSimilarityModel(reviews, VectorizerConfig{NGramMax: 1})
	if err != nil {
		t.Fatalf("BuildSimilarityModel failed: %v", err)
	}
	return model
}

func TestSimilarityRowOrderIsSorted(t *testing.T) {
	model := similarityFixture(t)
	expected := []string{"Burger Barn", "Cafe Roma", "Pasta Palace", "Sushi Spot"}
	if len(model.Restaurants) != len(expected) {
		t.Fatalf("got %d restaurants, want %d", len(model.Restaurants), len(expected))
	}
	for i, name := range expected {
		if model.Restaurants[i] != name {
			t.Fatalf("row %d = %q, want %q", i, model.Restaurants[i], name)
		}
	}
}

func TestSimilarityMatrixProperties(t *testing.T) {
	model := similarityFixture(t)
	for i := 0; i < model.Size; i++ {
		if model.At(i, i) != 1 {
			t.Errorf("self-similarity at row %d = %v, want 1", i, model.At(i, i))
		}
		for j := 0; j < model.Size; j++ {
			if model.At(i, j) != model.At(j, i) {
				t.Errorf("matrix not symmetric at (%d, %d)", i, j)
			}
			if model.At(i, j) < 0 || model.At(i, j) > 1 {
				t.Errorf("similarity out of [0,1] at (%d, %d): %v", i, j, model.At(i, j))
			}
			if j != i && model.At(i, j) > model.At(i, i) {
				t.Errorf("self-similarity is not the row maximum at row %d", i)
			}
		}
	}
}

func TestSimilarityGroupsAllReviews(t *testing.T) {
	model := similarityFixture(t)
	idx := model.Index("Cafe Roma")
	if idx < 0 {
		t.Fatal("Cafe Roma missing from grouped corpus")
	}
	doc := model.Documents[idx]
	if doc != "wonderful pasta and fresh bread pasta carbonara was rich" {
		t.Fatalf("grouped document = %q", doc)
	}
}

func TestLookupSimilar(t *testing.T) {
	model := similarityFixture(t)

	tests := []struct {
		query    string
		topN     int
		contains string
		desc     string
	}{
		{"Cafe Roma", 3, "Pasta Palace", "Shared pasta vocabulary ranks first"},
		{"cafe roma", 3, "Pasta Palace", "Case-insensitive lookup"},
		{"CAFE ROMA", 1, "Pasta Palace", "TopN of one"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := model.LookupSimilar(tt.query, tt.topN)
			if len(got) == 0 {
				t.Fatal("expected results")
			}
			if len(got) > tt.topN {
				t.Fatalf("got %d results, want at most %d", len(got), tt.topN)
			}
			if got[0] != tt.contains {
				t.Errorf("top result = %q, want %q", got[0], tt.contains)
			}
			for _, name := range got {
				if name == "Cafe Roma" {
					t.Error("query restaurant must not appear in its own results")
				}
			}
		})
	}
}

func TestLookupSimilarUnknownRestaurant(t *testing.T) {
	model := similarityFixture(t)
	if got := model.LookupSimilar("Nonexistent Diner", 5); got != nil {
		t.Fatalf("expected nil for unknown restaurant, got %v", got)
	}
	// Substring is not enough: the lookup is an exact match.
	if got := model.LookupSimilar("Cafe", 5); got != nil {
		t.Fatalf("expected nil for partial name, got %v", got)
	}
}

func TestBuildSimilarityModelEmptyCorpus(t *testing.T) {
	if _, err := BuildSimilarityModel(nil, VectorizerConfig{NGramMax: 1}); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
	noNames := []Review{{Restaurant: "", Text: "orphaned review"}}
	if _, err := BuildSimilarityModel(noNames, VectorizerConfig{NGramMax: 1}); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus for keyless reviews, got %v", err)
	}
}

func TestRowMean(t *testing.T) {
	model := similarityFixture(t)
	for i := 0; i < model.Size; i++ {
		mean := model.RowMean(i)
		if math.IsNaN(mean) || mean <= 0 || mean > 1 {
			t.Errorf("row mean %d = %v, want in (0, 1]", i, mean)
		}
	}
}
