package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platerank/platerank"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reviews := []platerank.Review{
		{Restaurant: "Cafe Roma", Rating: 5, Text: "wonderful pasta amazing service", Sentiment: platerank.Positive},
		{Restaurant: "Cafe Roma", Rating: 4, Text: "lovely fresh bread great value", Sentiment: platerank.Positive},
		{Restaurant: "Pasta Palace", Rating: 5, Text: "excellent pasta great wine", Sentiment: platerank.Positive},
		{Restaurant: "Burger Barn", Rating: 1, Text: "terrible soggy fries awful", Sentiment: platerank.Negative},
		{Restaurant: "Burger Barn", Rating: 2, Text: "bad service horrible burger", Sentiment: platerank.Negative},
		{Restaurant: "Sushi Spot", Rating: 1, Text: "awful stale fish terrible rice", Sentiment: platerank.Negative},
	}
	trainer := platerank.NewTrainer(platerank.TrainingConfig{
		LearningRate: 0.01,
		Epochs:       300,
		BatchSize:    4,
		MaxFeatures:  200,
		Seed:         1,
	})
	model, _, err := trainer.Train(reviews)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	details := []platerank.Detail{
		{Restaurant: "Cafe Roma", Location: "Downtown", Contact: "555-0101"},
		{Restaurant: "Pasta Palace", Location: "Uptown", Contact: "555-0103"},
	}
	engine, err := platerank.NewEngine(platerank.NewReviewStore(reviews), details, model)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return New(engine, zap.NewNop())
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/ping", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListRestaurants(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/restaurants", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []string{"Burger Barn", "Cafe Roma", "Pasta Palace", "Sushi Spot"}
	if len(names) != len(want) {
		t.Fatalf("restaurants = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("restaurants = %v, want %v", names, want)
		}
	}
}

func TestGetSummary(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/summary?restaurant=Cafe+Roma", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var summary platerank.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if summary.Restaurant != "Cafe Roma" {
		t.Errorf("restaurant = %q", summary.Restaurant)
	}
	if summary.TotalReviews != 2 {
		t.Errorf("total reviews = %d, want 2", summary.TotalReviews)
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/summary?restaurant=Nowhere+Diner",
		"/api/summary",
	} {
		w := doRequest(t, s, http.MethodGet, target, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", target, w.Code)
			continue
		}
		var resp map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp["error"] != "Restaurant not found" {
			t.Errorf("%s: error = %q", target, resp["error"])
		}
	}
}

func TestGetSimilar(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/similar_restaurants?restaurant=Cafe+Roma", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var recs []platerank.Recommendation
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected recommendations for a known restaurant")
	}
	for _, rec := range recs {
		if rec.Restaurant == "Cafe Roma" {
			t.Error("results must not include the queried restaurant")
		}
	}
}

func TestRecommendationFailureDegradesToEmptyList(t *testing.T) {
	s := newTestServer(t)
	// A missing restaurant name is a recommendation error in the core; the
	// serving layer answers 200 with an empty list.
	w := doRequest(t, s, http.MethodGet, "/api/similar_restaurants", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("body = %s, want []", body)
	}
}

func TestGetRecommendations(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodGet, "/api/recommendations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var recs []platerank.Recommendation
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected global recommendations over a non-empty corpus")
	}
	if len(recs) > platerank.DefaultGlobalTop {
		t.Fatalf("got %d recommendations, want at most %d", len(recs), platerank.DefaultGlobalTop)
	}
	seen := make(map[string]bool)
	for _, rec := range recs {
		if seen[rec.Restaurant] {
			t.Fatalf("duplicate recommendation %q", rec.Restaurant)
		}
		seen[rec.Restaurant] = true
	}
}

func TestSubmitFeedback(t *testing.T) {
	tests := []struct {
		desc       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			desc:       "rating only",
			body:       `{"restaurant": "Cafe Roma", "rating": 5}`,
			wantStatus: http.StatusOK,
		},
		{
			desc:       "review only",
			body:       `{"restaurant": "Cafe Roma", "review": "wonderful amazing pasta"}`,
			wantStatus: http.StatusOK,
		},
		{
			desc:       "missing restaurant",
			body:       `{"review": "wonderful amazing pasta"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing restaurant",
		},
		{
			desc:       "invalid rating",
			body:       `{"restaurant": "Cafe Roma", "rating": 7}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid rating",
		},
		{
			desc:       "neither review nor rating",
			body:       `{"restaurant": "Cafe Roma"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing review or rating",
		},
		{
			desc:       "malformed body",
			body:       `{"restaurant": `,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := newTestServer(t)
			w := doRequest(t, s, http.MethodPost, "/api/submit_feedback", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				var resp map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", resp["error"], tt.wantError)
				}
			}
		})
	}
}

func TestSubmitFeedbackResponseShape(t *testing.T) {
	s := newTestServer(t)
	w := doRequest(t, s, http.MethodPost, "/api/submit_feedback",
		`{"restaurant": "Cafe Roma", "rating": 2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var feedback platerank.Feedback
	if err := json.Unmarshal(w.Body.Bytes(), &feedback); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if feedback.Sentiment != platerank.Negative || feedback.Rating != 2 {
		t.Errorf("feedback = %+v", feedback)
	}
}
