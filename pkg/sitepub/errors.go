package sitepub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrSectionNotFound indicates a section was not found
	ErrSectionNotFound = errors.New("section not found")

	// ErrBlogNotFound indicates a blog was not found
	ErrBlogNotFound = errors.New("blog not found")

	// ErrTestimonialNotFound indicates a testimonial was not found
	ErrTestimonialNotFound = errors.New("testimonial not found")

	// ErrDuplicateVersion indicates the version already exists for a section kind
	ErrDuplicateVersion = errors.New("version already exists")

	// ErrDuplicateSlug indicates the slug is already taken by another blog
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrSectionActive indicates an operation was rejected because the target
	// section is the active one (activate a different section first)
	ErrSectionActive = errors.New("section is active")

	// ErrInvalidKind indicates an unknown section kind
	ErrInvalidKind = errors.New("invalid section kind")

	// ErrUnavailable indicates a transient storage failure; the operation is
	// safe to retry
	ErrUnavailable = errors.New("storage unavailable")
)

// SectionError represents an error related to section operations
type SectionError struct {
	SectionID uuid.UUID
	Kind      SectionKind
	Op        string
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section operation %s failed for section %s (%s): %v", e.Op, e.SectionID, e.Kind, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// BlogError represents an error related to blog operations
type BlogError struct {
	BlogID uuid.UUID
	Op     string
	Err    error
}

func (e *BlogError) Error() string {
	return fmt.Sprintf("blog operation %s failed for blog %s: %v", e.Op, e.BlogID, e.Err)
}

func (e *BlogError) Unwrap() error {
	return e.Err
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field-level failures for a
// request. Callers can fix every listed field and retry.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsNotFound reports whether err is any of the engine's not-found conditions.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrBlogNotFound) ||
		errors.Is(err, ErrTestimonialNotFound)
}

// IsConflict reports whether err is a uniqueness or active-section conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateVersion) ||
		errors.Is(err, ErrDuplicateSlug) ||
		errors.Is(err, ErrSectionActive)
}
