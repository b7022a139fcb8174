package sitepub

import "github.com/google/uuid"

// Request DTOs

// CreateSectionRequest contains parameters for creating a new section.
// Exactly one of Hero/Feature must be set, matching Kind. Sections are
// created inactive unless IsActive is explicitly requested.
type CreateSectionRequest struct {
	Kind     SectionKind     `json:"kind"`
	Version  string          `json:"version"`
	IsActive bool            `json:"is_active,omitempty"`
	Hero     *HeroPayload    `json:"hero,omitempty"`
	Feature  *FeaturePayload `json:"feature,omitempty"`
}

// UpdateSectionRequest contains parameters for updating a section's payload.
// Version and activation state are never touched here; activation has its
// own operation and versions are immutable once created.
type UpdateSectionRequest struct {
	ID      uuid.UUID       `json:"id"`
	Hero    *HeroPayload    `json:"hero,omitempty"`
	Feature *FeaturePayload `json:"feature,omitempty"`
}

// CreateBlogRequest contains parameters for creating a blog post. Slug is
// derived from Title when empty.
type CreateBlogRequest struct {
	Title         string      `json:"title"`
	Slug          string      `json:"slug,omitempty"`
	Excerpt       string      `json:"excerpt,omitempty"`
	Content       string      `json:"content"`
	ContentType   string      `json:"content_type"`
	FeaturedImage *BlogImage  `json:"featured_image,omitempty"`
	Images        []BlogImage `json:"images,omitempty"`
	Author        BlogAuthor  `json:"author"`
	Categories    []string    `json:"categories,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	SEO           *BlogSEO    `json:"seo,omitempty"`
}

// UpdateBlogRequest contains parameters for a partial blog update. Nil
// pointers leave the stored value untouched. Status is not updatable here;
// lifecycle transitions have their own operations.
type UpdateBlogRequest struct {
	ID            uuid.UUID    `json:"id"`
	Title         *string      `json:"title,omitempty"`
	Slug          *string      `json:"slug,omitempty"`
	Excerpt       *string      `json:"excerpt,omitempty"`
	Content       *string      `json:"content,omitempty"`
	ContentType   *string      `json:"content_type,omitempty"`
	FeaturedImage *BlogImage   `json:"featured_image,omitempty"`
	Images        *[]BlogImage `json:"images,omitempty"`
	Author        *BlogAuthor  `json:"author,omitempty"`
	Categories    *[]string    `json:"categories,omitempty"`
	Tags          *[]string    `json:"tags,omitempty"`
	SEO           *BlogSEO     `json:"seo,omitempty"`
}

// CreateTestimonialRequest contains parameters for creating a testimonial.
type CreateTestimonialRequest struct {
	Name         string   `json:"name"`
	Role         string   `json:"role,omitempty"`
	Company      string   `json:"company,omitempty"`
	Quote        string   `json:"quote"`
	Image        string   `json:"image,omitempty"`
	Rating       int      `json:"rating"`
	Industry     string   `json:"industry,omitempty"`
	CompanySize  string   `json:"company_size,omitempty"`
	Active       bool     `json:"active"`
	Featured     bool     `json:"featured"`
	DisplayOrder int      `json:"display_order"`
	Tags         []string `json:"tags,omitempty"`
}

// UpdateTestimonialRequest contains parameters for a partial testimonial
// update. Nil pointers leave the stored value untouched.
type UpdateTestimonialRequest struct {
	ID           uuid.UUID `json:"id"`
	Name         *string   `json:"name,omitempty"`
	Role         *string   `json:"role,omitempty"`
	Company      *string   `json:"company,omitempty"`
	Quote        *string   `json:"quote,omitempty"`
	Image        *string   `json:"image,omitempty"`
	Rating       *int      `json:"rating,omitempty"`
	Industry     *string   `json:"industry,omitempty"`
	CompanySize  *string   `json:"company_size,omitempty"`
	Active       *bool     `json:"active,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	DisplayOrder *int      `json:"display_order,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}
