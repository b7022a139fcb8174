package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// StatsHandler exposes the read-only aggregation queries.
type StatsHandler struct {
	service sitepub.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service sitepub.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// Routes returns the routes for statistics
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/blogs", h.BlogStats)
	r.Get("/testimonials", h.TestimonialStats)
	r.Get("/features", h.FeatureStats)

	return r
}

func (h *StatsHandler) BlogStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetBlogStats(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (h *StatsHandler) TestimonialStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetTestimonialStats(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (h *StatsHandler) FeatureStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetFeatureStats(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}
