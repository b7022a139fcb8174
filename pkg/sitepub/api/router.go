package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// NewRouter assembles the full HTTP surface on top of a Service. The logger
// may be nil, in which case requests are not logged.
func NewRouter(service sitepub.Service, logger *httplog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if logger != nil {
		r.Use(httplog.RequestLogger(logger))
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	sections := NewSectionHandler(service)
	blogs := NewBlogHandler(service)
	testimonials := NewTestimonialHandler(service)
	stats := NewStatsHandler(service)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/sections", sections.Routes())
		r.Mount("/blogs", blogs.Routes())
		r.Mount("/admin/blogs", blogs.AdminRoutes())
		r.Mount("/testimonials", testimonials.Routes())
		r.Mount("/stats", stats.Routes())
	})

	return r
}
