package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// BlogHandler handles HTTP requests for blog posts. Public routes only see
// published posts; the admin routes see everything.
type BlogHandler struct {
	service sitepub.Service
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service sitepub.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// Routes returns the public blog routes.
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublished)
	r.Get("/{slug}", h.GetBySlug)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/publish", h.Publish)
	r.Post("/{id}/unpublish", h.Unpublish)
	r.Post("/{id}/archive", h.Archive)

	return r
}

// AdminRoutes returns the status-unrestricted listing used by the admin UI.
func (h *BlogHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	return r
}

func blogID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func listFilters(r *http.Request, admin bool) sitepub.BlogListFilters {
	q := r.URL.Query()

	filters := sitepub.BlogListFilters{
		Search:      q.Get("search"),
		Category:    q.Get("category"),
		Tag:         q.Get("tag"),
		SortBy:      q.Get("sort_by"),
		AllStatuses: admin,
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if q.Get("sort_order") == "asc" {
		filters.SortOrder = sitepub.SortAsc
	} else {
		filters.SortOrder = sitepub.SortDesc
	}
	if admin {
		if status := sitepub.BlogStatus(q.Get("status")); status.IsValid() {
			filters.Status = &status
		}
	}

	return filters
}

// ListPublished is the public listing: implicitly status = published.
func (h *BlogHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBlogs(r.Context(), listFilters(r, false))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}

// ListAll is the admin listing: any status, with an optional status filter.
func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBlogs(r.Context(), listFilters(r, true))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}

// GetBySlug is the public single-post read; it records a view. Administrative
// reads go through the listing endpoints and never touch the counter.
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	blog, err := h.service.GetBlogBySlug(r.Context(), slug, false)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.service.RecordBlogView(r.Context(), blog.ID); err != nil {
		// A lost counter bump is not worth failing the read.
		slog.Warn("failed to record blog view", "blog_id", blog.ID, "error", err)
	} else {
		blog.ViewCount++
	}

	render.JSON(w, r, blog)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sitepub.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("blog created",
		"blog_id", blog.ID, "slug", blog.Slug, "acting_user", actingUser(r))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, blog)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(r)
	if !ok {
		http.Error(w, "invalid blog id", http.StatusBadRequest)
		return
	}

	var req sitepub.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.ID = id

	blog, err := h.service.UpdateBlog(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("blog updated", "blog_id", id, "acting_user", actingUser(r))
	render.JSON(w, r, blog)
}

func (h *BlogHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "publish", h.service.PublishBlog)
}

func (h *BlogHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "unpublish", h.service.UnpublishBlog)
}

func (h *BlogHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "archive", h.service.ArchiveBlog)
}

func (h *BlogHandler) transition(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id uuid.UUID) (*sitepub.Blog, error)) {
	id, ok := blogID(r)
	if !ok {
		http.Error(w, "invalid blog id", http.StatusBadRequest)
		return
	}

	blog, err := fn(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("blog status changed",
		"blog_id", id, "op", op, "status", blog.Status, "acting_user", actingUser(r))
	render.JSON(w, r, blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(r)
	if !ok {
		http.Error(w, "invalid blog id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("blog deleted", "blog_id", id, "acting_user", actingUser(r))
	render.NoContent(w, r)
}
