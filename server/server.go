package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/platerank/platerank"
)

// Server exposes the engine's operations as JSON routes. Recommendation
// failures are logged and degraded to empty lists here: the availability-
// first policy belongs to the serving layer, not the core.
type Server struct {
	router *gin.Engine
	engine *platerank.Engine
	logger *zap.Logger
}

// New creates a server around an engine.
func New(engine *platerank.Engine, logger *zap.Logger) *Server {
	s := &Server{
		router: gin.Default(),
		engine: engine,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := s.router.Group("/api")
	api.GET("/restaurants", s.listRestaurants)
	api.GET("/restaurants_with_details", s.listRestaurantsWithDetails)
	api.GET("/summary", s.getSummary)
	api.GET("/similar_restaurants", s.getSimilar)
	api.GET("/recommend_by_location", s.recommendByLocation)
	api.GET("/recommendations", s.getRecommendations)
	api.POST("/submit_feedback", s.submitFeedback)
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port string) error {
	return s.router.Run(":" + port)
}

func (s *Server) listRestaurants(c *gin.Context) {
	names := s.engine.Restaurants()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

func (s *Server) listRestaurantsWithDetails(c *gin.Context) {
	details := s.engine.RestaurantsWithDetails()
	out := make([]gin.H, 0, len(details))
	for _, detail := range details {
		out = append(out, gin.H{
			"restaurant": detail.Restaurant,
			"location":   detail.Location,
			"contact":    detail.Contact,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getSummary(c *gin.Context) {
	summary, err := s.engine.Summary(c.Query("restaurant"))
	if err != nil {
		if errors.Is(err, platerank.ErrRestaurantNotFound) || errors.Is(err, platerank.ErrMissingRestaurant) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		s.logger.Error("summary failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize restaurant"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getSimilar(c *gin.Context) {
	name := c.Query("restaurant")
	recs, err := s.engine.Similar(name, 5)
	if err != nil {
		// Recommendation failure is never fatal to a request.
		s.logger.Warn("similar restaurants failed",
			zap.String("restaurant", name), zap.Error(err))
		recs = nil
	}
	c.JSON(http.StatusOK, recommendations(recs))
}

func (s *Server) recommendByLocation(c *gin.Context) {
	location := c.Query("location")
	recs, err := s.engine.ByLocation(location)
	if err != nil {
		s.logger.Warn("recommend by location failed",
			zap.String("location", location), zap.Error(err))
		recs = nil
	}
	c.JSON(http.StatusOK, recommendations(recs))
}

func (s *Server) getRecommendations(c *gin.Context) {
	recs, err := s.engine.GlobalTop(platerank.DefaultGlobalTop)
	if err != nil {
		s.logger.Warn("global recommendations failed", zap.Error(err))
		recs = nil
	}
	c.JSON(http.StatusOK, recommendations(recs))
}

type feedbackRequest struct {
	Restaurant string `json:"restaurant"`
	Review     string `json:"review"`
	Rating     int    `json:"rating"`
}

func (s *Server) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	feedback, err := s.engine.RecordFeedback(req.Restaurant, req.Review, req.Rating)
	switch {
	case errors.Is(err, platerank.ErrMissingRestaurant):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing restaurant"})
	case errors.Is(err, platerank.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
	case errors.Is(err, platerank.ErrMissingInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing review or rating"})
	case err != nil:
		s.logger.Error("feedback submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record feedback"})
	default:
		c.JSON(http.StatusOK, feedback)
	}
}

// recommendations normalizes a possibly-nil slice so empty results marshal
// as [] rather than null.
func recommendations(recs []platerank.Recommendation) []platerank.Recommendation {
	if recs == nil {
		return []platerank.Recommendation{}
	}
	return recs
}
