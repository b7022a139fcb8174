package sitepub

import (
	"time"

	"github.com/google/uuid"
)

// SectionKind identifies a category of versioned, single-active content.
type SectionKind string

// Section kind constants (typed).
const (
	SectionKindHero    SectionKind = "hero"
	SectionKindFeature SectionKind = "feature"
)

// IsValid reports whether the kind is one the engine knows about.
func (k SectionKind) IsValid() bool {
	switch k {
	case SectionKindHero, SectionKindFeature:
		return true
	}
	return false
}

// BlogStatus is the domain type for blog lifecycle states.
type BlogStatus string

// Blog status constants (typed).
const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// IsValid reports whether the status is a known lifecycle state.
func (s BlogStatus) IsValid() bool {
	switch s {
	case BlogStatusDraft, BlogStatusPublished, BlogStatusArchived:
		return true
	}
	return false
}

// Blog content type constants.
const (
	ContentTypeRichText = "rich-text"
	ContentTypeMarkdown = "markdown"
)

// DefaultMaxFeatures bounds the public feature projection when a section
// does not set its own limit.
const DefaultMaxFeatures = 6

// Section is a versioned content document. At most one section per kind is
// active at any time; the active one is what the public site serves.
//
// Exactly one of Hero/Features is populated, matching Kind.
type Section struct {
	ID        uuid.UUID   `json:"id"`
	Kind      SectionKind `json:"kind"`
	Version   string      `json:"version"`
	IsActive  bool        `json:"is_active"`
	Hero      *HeroPayload    `json:"hero,omitempty"`
	Feature   *FeaturePayload `json:"feature,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// HeroPayload is the kind-specific payload for hero sections.
type HeroPayload struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Description  string `json:"description,omitempty"`
	PrimaryCTA   CTA    `json:"primary_cta,omitempty"`
	SecondaryCTA CTA    `json:"secondary_cta,omitempty"`
	BackgroundImage string `json:"background_image,omitempty"`
}

// CTA is a call-to-action link on a hero section.
type CTA struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// FeaturePayload is the kind-specific payload for feature sections.
type FeaturePayload struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Theme       string    `json:"theme,omitempty"`
	MaxFeatures int       `json:"max_features,omitempty"`
	Features    []Feature `json:"features"`
}

// Feature is a single item in a feature section's ordered list. Items are
// not independently addressable; they live and die with their section.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IsVisible   bool   `json:"is_visible"`
	Order       int    `json:"order"`
}

// Blog is a post moving through the draft -> published -> archived lifecycle.
// Slug is unique across all blogs regardless of status. Content is opaque to
// the engine and returned verbatim.
type Blog struct {
	ID            uuid.UUID  `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	ContentType   string     `json:"content_type"`
	FeaturedImage *BlogImage `json:"featured_image,omitempty"`
	Images        []BlogImage `json:"images,omitempty"`
	Author        BlogAuthor `json:"author"`
	Categories    []string   `json:"categories,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Status        BlogStatus `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ViewCount     int64      `json:"view_count"`
	SEO           *BlogSEO   `json:"seo,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BlogImage is an owned image asset (featured image or gallery entry).
type BlogImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// BlogAuthor identifies who wrote a post.
type BlogAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// BlogSEO carries page-metadata overrides for a post.
type BlogSEO struct {
	MetaTitle       string   `json:"meta_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	MetaKeywords    []string `json:"meta_keywords,omitempty"`
}

// Testimonial is a flat entity with independent active/featured flags.
// Multiple testimonials may be active or featured at once; there is no
// single-active invariant here.
type Testimonial struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role,omitempty"`
	Company      string    `json:"company,omitempty"`
	Quote        string    `json:"quote"`
	Image        string    `json:"image,omitempty"`
	Rating       int       `json:"rating"`
	Industry     string    `json:"industry,omitempty"`
	CompanySize  string    `json:"company_size,omitempty"`
	Active       bool      `json:"active"`
	Featured     bool      `json:"featured"`
	DisplayOrder int       `json:"display_order"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SortOrder for list queries.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// BlogListFilters defines filtering options for listing blogs. A nil Status
// with AllStatuses=false means the public default (published only).
type BlogListFilters struct {
	Search      string
	Category    string
	Tag         string
	Status      *BlogStatus
	AllStatuses bool
	Page        int // 1-indexed
	Limit       int
	SortBy      string
	SortOrder   SortOrder
}

// BlogList is a page of blogs plus paging metadata.
type BlogList struct {
	Blogs      []*Blog `json:"blogs"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

// TestimonialListFilters defines filtering options for listing testimonials.
type TestimonialListFilters struct {
	Active   *bool
	Featured *bool
	Industry string
}

// BlogStats aggregates counts over the blog collection.
type BlogStats struct {
	TotalCount    int64            `json:"total_count"`
	ByStatus      map[string]int64 `json:"by_status"`
	TotalViews    int64            `json:"total_views"`
	TopCategories []CategoryCount  `json:"top_categories"`
}

// CategoryCount is one row of the top-categories breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TestimonialStats aggregates counts and ratings over testimonials.
// AverageRating is 0 when no testimonials exist.
type TestimonialStats struct {
	TotalCount    int64                    `json:"total_count"`
	ActiveCount   int64                    `json:"active_count"`
	FeaturedCount int64                    `json:"featured_count"`
	AverageRating float64                  `json:"average_rating"`
	ByIndustry    map[string]IndustryStats `json:"by_industry"`
}

// IndustryStats is the per-industry breakdown of testimonials.
type IndustryStats struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// FeatureStats aggregates counts over feature sections.
type FeatureStats struct {
	TotalFeatures int64 `json:"total_features"`
	ActiveSections int64 `json:"active_sections"`
}
