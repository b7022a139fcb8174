package sitepub

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the sitepub engine. All operations
// are synchronous request/response; storage calls run under a bounded
// timeout and transient failures are retried a small number of times before
// surfacing as ErrUnavailable.
type Service interface {
	// Section operations
	GetActiveSection(ctx context.Context, kind SectionKind) (*Section, error)
	GetSection(ctx context.Context, id uuid.UUID) (*Section, error)
	ListSections(ctx context.Context, kind SectionKind) ([]*Section, error)
	CreateSection(ctx context.Context, req CreateSectionRequest) (*Section, error)
	UpdateSection(ctx context.Context, req UpdateSectionRequest) (*Section, error)
	ActivateSection(ctx context.Context, id uuid.UUID) (*Section, error)
	DeleteSection(ctx context.Context, id uuid.UUID) error

	// Versioning
	CreateSectionVersion(ctx context.Context, sourceID uuid.UUID, newVersion string) (*Section, error)

	// Blog operations
	CreateBlog(ctx context.Context, req CreateBlogRequest) (*Blog, error)
	GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetBlogBySlug(ctx context.Context, slug string, includeUnpublished bool) (*Blog, error)
	UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*Blog, error)
	PublishBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	UnpublishBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	ArchiveBlog(ctx context.Context, id uuid.UUID) (*Blog, error)
	RecordBlogView(ctx context.Context, id uuid.UUID) error
	DeleteBlog(ctx context.Context, id uuid.UUID) error
	ListBlogs(ctx context.Context, filters BlogListFilters) (*BlogList, error)

	// Testimonial operations
	CreateTestimonial(ctx context.Context, req CreateTestimonialRequest) (*Testimonial, error)
	GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error)
	UpdateTestimonial(ctx context.Context, req UpdateTestimonialRequest) (*Testimonial, error)
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error
	ListTestimonials(ctx context.Context, filters TestimonialListFilters) ([]*Testimonial, error)

	// Statistics (read-only aggregations)
	GetBlogStats(ctx context.Context) (*BlogStats, error)
	GetTestimonialStats(ctx context.Context) (*TestimonialStats, error)
	GetFeatureStats(ctx context.Context) (*FeatureStats, error)
}
