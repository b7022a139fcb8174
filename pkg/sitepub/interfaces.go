package sitepub

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrAssetNotFound indicates an asset was already gone when deletion was
// attempted. Callers treat it as success.
var ErrAssetNotFound = errors.New("asset not found")

// Repository defines the interface for the document store backing the
// engine. Implementations must provide the storage-level guarantees the
// engine relies on:
//
//   - CreateSection/UpdateBlog-style uniqueness (section version per kind,
//     blog slug) is enforced by the store itself, not by a pre-check, so a
//     concurrent check-then-insert cannot slip a duplicate through.
//   - ActivateSection performs deactivate-all-of-kind plus activate-one as
//     one atomic unit; a failure leaves the previous state intact.
//   - IncrementBlogViews is a single atomic read-modify-write on the stored
//     counter.
//   - DeleteSection rejects the currently active section with
//     ErrSectionActive.
type Repository interface {
	// Section operations
	CreateSection(ctx context.Context, section *Section) error
	GetSection(ctx context.Context, id uuid.UUID) (*Section, error)
	// GetActiveSections returns every section of the kind marked active,
	// most recently updated first. The invariant keeps this at 0 or 1
	// entries; more signals an integrity problem the caller must surface.
	GetActiveSections(ctx context.Context, kind SectionKind) ([]*Section, error)
	ListSections(ctx context.Context, kind SectionKind) ([]*Section, error)
	UpdateSection(ctx context.Context, section *Section) error
	ActivateSection(ctx context.Context, kind SectionKind, id uuid.UUID) error
	DeleteSection(ctx context.Context, id uuid.UUID) error

	// Blog operations
	CreateBlog(ctx context.Context, blog *Blog) error
	GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*Blog, error)
	UpdateBlog(ctx context.Context, blog *Blog) error
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	ListBlogs(ctx context.Context, filters BlogListFilters) (*BlogList, error)
	IncrementBlogViews(ctx context.Context, id uuid.UUID) error

	// Testimonial operations
	CreateTestimonial(ctx context.Context, testimonial *Testimonial) error
	GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	UpdateTestimonial(ctx context.Context, testimonial *Testimonial) error
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
	ListTestimonials(ctx context.Context, filters TestimonialListFilters) ([]*Testimonial, error)

	// Aggregation queries (read-only)
	BlogStats(ctx context.Context, topCategories int) (*BlogStats, error)
	TestimonialStats(ctx context.Context) (*TestimonialStats, error)
	FeatureStats(ctx context.Context) (*FeatureStats, error)
}

// AssetStore is the collaborator owning uploaded files (featured images,
// gallery images). Deletion is best-effort from the engine's point of view:
// a failing or missing asset never blocks entity deletion.
type AssetStore interface {
	// Delete removes the asset identified by its stored filename or URL.
	// Returns ErrAssetNotFound when the asset is already gone.
	Delete(ctx context.Context, filenameOrURL string) error
}
