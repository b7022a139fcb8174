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

// SectionHandler handles HTTP requests for versioned content sections.
type SectionHandler struct {
	service sitepub.Service
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(service sitepub.Service) *SectionHandler {
	return &SectionHandler{service: service}
}

// Routes returns the routes for sections, mounted per kind.
func (h *SectionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{kind}", func(r chi.Router) {
		r.Get("/active", h.GetActive)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/activate", h.Activate)
		r.Post("/{id}/versions", h.CreateVersion)
	})

	return r
}

// CreateSectionBody is the request body for creating a section; the kind
// comes from the URL.
type CreateSectionBody struct {
	Version  string                  `json:"version"`
	IsActive bool                    `json:"is_active,omitempty"`
	Hero     *sitepub.HeroPayload    `json:"hero,omitempty"`
	Feature  *sitepub.FeaturePayload `json:"feature,omitempty"`
}

// UpdateSectionBody is the request body for updating a section's payload.
type UpdateSectionBody struct {
	Hero    *sitepub.HeroPayload    `json:"hero,omitempty"`
	Feature *sitepub.FeaturePayload `json:"feature,omitempty"`
}

// CreateVersionBody is the request body for cloning a section into a new
// version.
type CreateVersionBody struct {
	Version string `json:"version"`
}

// SectionResponse is the response body for a section. The features list on
// the public active read is the projected (visible, ordered, truncated)
// subset; admin reads carry the full payload.
type SectionResponse struct {
	*sitepub.Section
	ProjectedFeatures []sitepub.Feature `json:"projected_features,omitempty"`
}

func sectionKind(r *http.Request) sitepub.SectionKind {
	return sitepub.SectionKind(chi.URLParam(r, "kind"))
}

func sectionID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// GetActive returns the single externally visible section of a kind.
func (h *SectionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	section, err := h.service.GetActiveSection(r.Context(), sectionKind(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := SectionResponse{Section: section}
	if section.Kind == sitepub.SectionKindFeature {
		resp.ProjectedFeatures = sitepub.ProjectFeatures(section.Feature)
	}
	render.JSON(w, r, resp)
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.ListSections(r.Context(), sectionKind(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, sections)
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(r)
	if !ok {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	section, err := h.service.GetSection(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, section)
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateSectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	section, err := h.service.CreateSection(r.Context(), sitepub.CreateSectionRequest{
		Kind:     sectionKind(r),
		Version:  body.Version,
		IsActive: body.IsActive,
		Hero:     body.Hero,
		Feature:  body.Feature,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("section created",
		"section_id", section.ID, "kind", section.Kind,
		"version", section.Version, "acting_user", actingUser(r))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, section)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(r)
	if !ok {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	var body UpdateSectionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	section, err := h.service.UpdateSection(r.Context(), sitepub.UpdateSectionRequest{
		ID:      id,
		Hero:    body.Hero,
		Feature: body.Feature,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("section updated", "section_id", id, "acting_user", actingUser(r))
	render.JSON(w, r, section)
}

func (h *SectionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(r)
	if !ok {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	section, err := h.service.ActivateSection(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("section activated",
		"section_id", id, "kind", section.Kind,
		"version", section.Version, "acting_user", actingUser(r))
	render.JSON(w, r, section)
}

func (h *SectionHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(r)
	if !ok {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	var body CreateVersionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clone, err := h.service.CreateSectionVersion(r.Context(), id, body.Version)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("section version created",
		"source_id", id, "section_id", clone.ID,
		"version", clone.Version, "acting_user", actingUser(r))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, clone)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(r)
	if !ok {
		http.Error(w, "invalid section id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteSection(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("section deleted", "section_id", id, "acting_user", actingUser(r))
	render.NoContent(w, r)
}
