package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/webpress/sitepub/pkg/sitepub"
)

// ErrorResponse is the wire shape for all failures.
type ErrorResponse struct {
	Error  string               `json:"error"`
	Fields []sitepub.FieldError `json:"fields,omitempty"`
}

// renderError maps engine errors onto HTTP statuses: validation failures are
// 422 with the field list, conflicts 409, not-found 404, transient storage
// trouble 503, everything else 500.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *sitepub.ValidationError

	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case sitepub.IsConflict(err):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorResponse{Error: conflictMessage(err)})
	case sitepub.IsNotFound(err):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "not found"})
	case errors.Is(err, sitepub.ErrInvalidKind):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "unknown section kind"})
	case errors.Is(err, sitepub.ErrUnavailable):
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, ErrorResponse{Error: "storage unavailable, retry later"})
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, sitepub.ErrDuplicateVersion):
		return "version already exists"
	case errors.Is(err, sitepub.ErrDuplicateSlug):
		return "slug already exists"
	case errors.Is(err, sitepub.ErrSectionActive):
		return "section is active; activate a different section first"
	}
	return "conflict"
}

// actingUser returns the opaque identity forwarded by the auth layer for
// audit logging. Empty when the request is anonymous.
func actingUser(r *http.Request) string {
	return r.Header.Get("X-Acting-User")
}
