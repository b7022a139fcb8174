package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/webpress/sitepub/pkg/sitepub"
)

// Repository implements sitepub.Repository using in-memory storage. All
// state lives behind a single RWMutex, so activation and view increments are
// naturally atomic, and the uniqueness index maps are updated in the same
// critical section as the documents they guard.
type Repository struct {
	mu              sync.RWMutex
	sections        map[uuid.UUID]*sitepub.Section
	blogs           map[uuid.UUID]*sitepub.Blog
	testimonials    map[uuid.UUID]*sitepub.Testimonial
	sectionVersions map[string]uuid.UUID // "kind:version" -> section_id
	blogSlugs       map[string]uuid.UUID // slug -> blog_id
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		sections:        make(map[uuid.UUID]*sitepub.Section),
		blogs:           make(map[uuid.UUID]*sitepub.Blog),
		testimonials:    make(map[uuid.UUID]*sitepub.Testimonial),
		sectionVersions: make(map[string]uuid.UUID),
		blogSlugs:       make(map[string]uuid.UUID),
	}
}

func versionKey(kind sitepub.SectionKind, version string) string {
	return fmt.Sprintf("%s:%s", kind, version)
}

// Section operations

func (r *Repository) CreateSection(ctx context.Context, section *sitepub.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := versionKey(section.Kind, section.Version)
	if _, exists := r.sectionVersions[key]; exists {
		return sitepub.ErrDuplicateVersion
	}

	sectionCopy := copySection(section)
	r.sections[section.ID] = sectionCopy
	r.sectionVersions[key] = section.ID

	return nil
}

func (r *Repository) GetSection(ctx context.Context, id uuid.UUID) (*sitepub.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	section, exists := r.sections[id]
	if !exists {
		return nil, sitepub.ErrSectionNotFound
	}
	return copySection(section), nil
}

func (r *Repository) GetActiveSections(ctx context.Context, kind sitepub.SectionKind) ([]*sitepub.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*sitepub.Section{}
	for _, section := range r.sections {
		if section.Kind == kind && section.IsActive {
			result = append(result, copySection(section))
		}
	}

	// Most recently updated first; the tiebreaker only matters when the
	// invariant has been bypassed by a direct write.
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *Repository) ListSections(ctx context.Context, kind sitepub.SectionKind) ([]*sitepub.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*sitepub.Section{}
	for _, section := range r.sections {
		if section.Kind == kind {
			result = append(result, copySection(section))
		}
	}

	// Numeric semver descending, not lexicographic.
	sort.Slice(result, func(i, j int) bool {
		vi, erri := sitepub.ParseSemver(result[i].Version)
		vj, errj := sitepub.ParseSemver(result[j].Version)
		if erri != nil || errj != nil {
			return result[i].Version > result[j].Version
		}
		return vi.Compare(vj) > 0
	})

	return result, nil
}

func (r *Repository) UpdateSection(ctx context.Context, section *sitepub.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.sections[section.ID]
	if !exists {
		return sitepub.ErrSectionNotFound
	}

	// Version and kind are immutable; keep the index consistent by
	// refusing to move a section to another identity slot.
	updated := copySection(section)
	updated.Kind = existing.Kind
	updated.Version = existing.Version
	updated.IsActive = existing.IsActive
	r.sections[section.ID] = updated

	return nil
}

func (r *Repository) ActivateSection(ctx context.Context, kind sitepub.SectionKind, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, exists := r.sections[id]
	if !exists {
		return sitepub.ErrSectionNotFound
	}

	// Deactivate-all then activate-one inside the same critical section:
	// no reader can observe an intermediate state. Deactivated sections get
	// the same timestamp bump the postgres backend applies.
	now := time.Now().UTC()
	for _, section := range r.sections {
		if section.Kind == kind && section.IsActive {
			section.IsActive = false
			section.UpdatedAt = now
		}
	}
	target.IsActive = true
	target.UpdatedAt = now

	return nil
}

func (r *Repository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	section, exists := r.sections[id]
	if !exists {
		return sitepub.ErrSectionNotFound
	}
	if section.IsActive {
		return sitepub.ErrSectionActive
	}

	delete(r.sections, id)
	delete(r.sectionVersions, versionKey(section.Kind, section.Version))

	return nil
}

// Blog operations

func (r *Repository) CreateBlog(ctx context.Context, blog *sitepub.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blogSlugs[blog.Slug]; exists {
		return sitepub.ErrDuplicateSlug
	}

	r.blogs[blog.ID] = copyBlog(blog)
	r.blogSlugs[blog.Slug] = blog.ID

	return nil
}

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*sitepub.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, exists := r.blogs[id]
	if !exists {
		return nil, sitepub.ErrBlogNotFound
	}
	return copyBlog(blog), nil
}

func (r *Repository) GetBlogBySlug(ctx context.Context, slug string) (*sitepub.Blog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.blogSlugs[slug]
	if !exists {
		return nil, sitepub.ErrBlogNotFound
	}
	blog, exists := r.blogs[id]
	if !exists {
		return nil, sitepub.ErrBlogNotFound
	}
	return copyBlog(blog), nil
}

func (r *Repository) UpdateBlog(ctx context.Context, blog *sitepub.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.blogs[blog.ID]
	if !exists {
		return sitepub.ErrBlogNotFound
	}

	if blog.Slug != existing.Slug {
		if owner, taken := r.blogSlugs[blog.Slug]; taken && owner != blog.ID {
			return sitepub.ErrDuplicateSlug
		}
		delete(r.blogSlugs, existing.Slug)
		r.blogSlugs[blog.Slug] = blog.ID
	}

	// View count is owned by IncrementBlogViews; a stale in-flight update
	// must not roll it back.
	updated := copyBlog(blog)
	updated.ViewCount = existing.ViewCount
	r.blogs[blog.ID] = updated

	return nil
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, exists := r.blogs[id]
	if !exists {
		return sitepub.ErrBlogNotFound
	}

	delete(r.blogs, id)
	delete(r.blogSlugs, blog.Slug)

	return nil
}

func (r *Repository) IncrementBlogViews(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, exists := r.blogs[id]
	if !exists {
		return sitepub.ErrBlogNotFound
	}
	blog.ViewCount++

	return nil
}

// blogSortFields is the whitelist for ListBlogs sorting.
var blogSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"title":        true,
	"view_count":   true,
}

func (r *Repository) ListBlogs(ctx context.Context, filters sitepub.BlogListFilters) (*sitepub.BlogList, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*sitepub.Blog
	for _, blog := range r.blogs {
		if !blogMatches(blog, filters) {
			continue
		}
		matched = append(matched, copyBlog(blog))
	}

	sortBlogs(matched, filters.SortBy, filters.SortOrder)

	total := len(matched)
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	start := (page - 1) * limit
	if start >= len(matched) {
		matched = nil
	} else {
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	if matched == nil {
		matched = []*sitepub.Blog{}
	}

	return &sitepub.BlogList{
		Blogs:      matched,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func blogMatches(blog *sitepub.Blog, filters sitepub.BlogListFilters) bool {
	switch {
	case filters.Status != nil:
		if blog.Status != *filters.Status {
			return false
		}
	case !filters.AllStatuses:
		// Public default: published only.
		if blog.Status != sitepub.BlogStatusPublished {
			return false
		}
	}

	if filters.Category != "" && !containsLabel(blog.Categories, filters.Category) {
		return false
	}
	if filters.Tag != "" && !containsLabel(blog.Tags, filters.Tag) {
		return false
	}
	if filters.Search != "" {
		needle := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(blog.Title), needle) &&
			!strings.Contains(strings.ToLower(blog.Content), needle) {
			return false
		}
	}

	return true
}

// containsLabel is case-sensitive: distinct case or spelling is a distinct
// label throughout the engine.
func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func sortBlogs(blogs []*sitepub.Blog, sortBy string, order sitepub.SortOrder) {
	if !blogSortFields[sortBy] {
		sortBy = "created_at"
	}
	desc := order != sitepub.SortAsc

	sort.SliceStable(blogs, func(i, j int) bool {
		a, b := blogs[i], blogs[j]
		if desc {
			a, b = b, a
		}
		switch sortBy {
		case "title":
			return a.Title < b.Title
		case "view_count":
			return a.ViewCount < b.ViewCount
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "published_at":
			at, bt := a.PublishedAt, b.PublishedAt
			if at == nil {
				return bt != nil
			}
			if bt == nil {
				return false
			}
			return at.Before(*bt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

// Testimonial operations

func (r *Repository) CreateTestimonial(ctx context.Context, testimonial *sitepub.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.testimonials[testimonial.ID] = copyTestimonial(testimonial)
	return nil
}

func (r *Repository) GetTestimonial(ctx context.Context, id uuid.UUID) (*sitepub.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	testimonial, exists := r.testimonials[id]
	if !exists {
		return nil, sitepub.ErrTestimonialNotFound
	}
	return copyTestimonial(testimonial), nil
}

func (r *Repository) UpdateTestimonial(ctx context.Context, testimonial *sitepub.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.testimonials[testimonial.ID]; !exists {
		return sitepub.ErrTestimonialNotFound
	}
	r.testimonials[testimonial.ID] = copyTestimonial(testimonial)
	return nil
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.testimonials[id]; !exists {
		return sitepub.ErrTestimonialNotFound
	}
	delete(r.testimonials, id)
	return nil
}

func (r *Repository) ListTestimonials(ctx context.Context, filters sitepub.TestimonialListFilters) ([]*sitepub.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*sitepub.Testimonial{}
	for _, t := range r.testimonials {
		if filters.Active != nil && t.Active != *filters.Active {
			continue
		}
		if filters.Featured != nil && t.Featured != *filters.Featured {
			continue
		}
		if filters.Industry != "" && t.Industry != filters.Industry {
			continue
		}
		result = append(result, copyTestimonial(t))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Aggregation queries

func (r *Repository) BlogStats(ctx context.Context, topCategories int) (*sitepub.BlogStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &sitepub.BlogStats{
		ByStatus:      make(map[string]int64),
		TopCategories: []sitepub.CategoryCount{},
	}

	categoryCounts := make(map[string]int64)
	for _, blog := range r.blogs {
		stats.TotalCount++
		stats.ByStatus[string(blog.Status)]++
		stats.TotalViews += blog.ViewCount
		for _, c := range blog.Categories {
			categoryCounts[c]++
		}
	}

	for category, count := range categoryCounts {
		stats.TopCategories = append(stats.TopCategories, sitepub.CategoryCount{
			Category: category,
			Count:    count,
		})
	}
	sort.Slice(stats.TopCategories, func(i, j int) bool {
		if stats.TopCategories[i].Count != stats.TopCategories[j].Count {
			return stats.TopCategories[i].Count > stats.TopCategories[j].Count
		}
		return stats.TopCategories[i].Category < stats.TopCategories[j].Category
	})
	if topCategories > 0 && len(stats.TopCategories) > topCategories {
		stats.TopCategories = stats.TopCategories[:topCategories]
	}

	return stats, nil
}

func (r *Repository) TestimonialStats(ctx context.Context) (*sitepub.TestimonialStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &sitepub.TestimonialStats{
		ByIndustry: make(map[string]sitepub.IndustryStats),
	}

	var ratingSum int64
	industrySums := make(map[string]int64)
	for _, t := range r.testimonials {
		stats.TotalCount++
		if t.Active {
			stats.ActiveCount++
		}
		if t.Featured {
			stats.FeaturedCount++
		}
		ratingSum += int64(t.Rating)

		entry := stats.ByIndustry[t.Industry]
		entry.Count++
		stats.ByIndustry[t.Industry] = entry
		industrySums[t.Industry] += int64(t.Rating)
	}

	if stats.TotalCount > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.TotalCount)
	}
	for industry, entry := range stats.ByIndustry {
		entry.AverageRating = float64(industrySums[industry]) / float64(entry.Count)
		stats.ByIndustry[industry] = entry
	}

	return stats, nil
}

func (r *Repository) FeatureStats(ctx context.Context) (*sitepub.FeatureStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &sitepub.FeatureStats{}
	for _, section := range r.sections {
		if section.Kind != sitepub.SectionKindFeature {
			continue
		}
		if section.Feature != nil {
			stats.TotalFeatures += int64(len(section.Feature.Features))
		}
		if section.IsActive {
			stats.ActiveSections++
		}
	}

	return stats, nil
}

// Copy helpers keep internal state isolated from callers.

func copySection(s *sitepub.Section) *sitepub.Section {
	c := *s
	if s.Hero != nil {
		hero := *s.Hero
		c.Hero = &hero
	}
	if s.Feature != nil {
		feature := *s.Feature
		feature.Features = append([]sitepub.Feature(nil), s.Feature.Features...)
		c.Feature = &feature
	}
	return &c
}

func copyBlog(b *sitepub.Blog) *sitepub.Blog {
	c := *b
	if b.FeaturedImage != nil {
		img := *b.FeaturedImage
		c.FeaturedImage = &img
	}
	c.Images = append([]sitepub.BlogImage(nil), b.Images...)
	c.Categories = append([]string(nil), b.Categories...)
	c.Tags = append([]string(nil), b.Tags...)
	if b.SEO != nil {
		seo := *b.SEO
		seo.MetaKeywords = append([]string(nil), b.SEO.MetaKeywords...)
		c.SEO = &seo
	}
	if b.PublishedAt != nil {
		t := *b.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

func copyTestimonial(t *sitepub.Testimonial) *sitepub.Testimonial {
	c := *t
	c.Tags = append([]string(nil), t.Tags...)
	return &c
}
