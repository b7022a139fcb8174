package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// TestimonialHandler handles HTTP requests for testimonials.
type TestimonialHandler struct {
	service sitepub.Service
}

// NewTestimonialHandler creates a new testimonial handler
func NewTestimonialHandler(service sitepub.Service) *TestimonialHandler {
	return &TestimonialHandler{service: service}
}

// Routes returns the routes for testimonials
func (h *TestimonialHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

func testimonialID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := sitepub.TestimonialListFilters{Industry: q.Get("industry")}

	if v := q.Get("active"); v != "" {
		active := v == "true"
		filters.Active = &active
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		filters.Featured = &featured
	}

	testimonials, err := h.service.ListTestimonials(r.Context(), filters)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, testimonials)
}

func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := testimonialID(r)
	if !ok {
		http.Error(w, "invalid testimonial id", http.StatusBadRequest)
		return
	}

	testimonial, err := h.service.GetTestimonial(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, testimonial)
}

func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sitepub.CreateTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	testimonial, err := h.service.CreateTestimonial(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("testimonial created",
		"testimonial_id", testimonial.ID, "acting_user", actingUser(r))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, testimonial)
}

func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := testimonialID(r)
	if !ok {
		http.Error(w, "invalid testimonial id", http.StatusBadRequest)
		return
	}

	var req sitepub.UpdateTestimonialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.ID = id

	testimonial, err := h.service.UpdateTestimonial(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("testimonial updated", "testimonial_id", id, "acting_user", actingUser(r))
	render.JSON(w, r, testimonial)
}

func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := testimonialID(r)
	if !ok {
		http.Error(w, "invalid testimonial id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteTestimonial(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("testimonial deleted", "testimonial_id", id, "acting_user", actingUser(r))
	render.NoContent(w, r)
}
