package sitepub

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Blog operations

func (s *service) CreateBlog(ctx context.Context, req CreateBlogRequest) (*Blog, error) {
	if err := validateCreateBlog(req); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "slug", Message: "could not derive a slug from the title"},
		}}
	}

	now := time.Now().UTC()
	blog := &Blog{
		ID:            uuid.New(),
		Slug:          slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		ContentType:   req.ContentType,
		FeaturedImage: req.FeaturedImage,
		Images:        req.Images,
		Author:        req.Author,
		Categories:    req.Categories,
		Tags:          req.Tags,
		Status:        BlogStatusDraft,
		ViewCount:     0,
		SEO:           req.SEO,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.CreateBlog(ctx, blog)
	}); err != nil {
		return nil, &BlogError{BlogID: blog.ID, Op: "create", Err: err}
	}

	s.logger.Info("blog created", "blog_id", blog.ID, "slug", blog.Slug)
	return blog, nil
}

func (s *service) GetBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	var blog *Blog
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		blog, err = s.repository.GetBlog(ctx, id)
		return err
	})
	return blog, err
}

// GetBlogBySlug is the public single-post read path. Unless
// includeUnpublished is set (admin context), anything not published behaves
// as not found.
func (s *service) GetBlogBySlug(ctx context.Context, slug string, includeUnpublished bool) (*Blog, error) {
	var blog *Blog
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		blog, err = s.repository.GetBlogBySlug(ctx, slug)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !includeUnpublished && blog.Status != BlogStatusPublished {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

func (s *service) UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*Blog, error) {
	if err := validateUpdateBlog(req); err != nil {
		return nil, err
	}

	blog, err := s.GetBlog(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Slug != nil && *req.Slug != "" {
		blog.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		blog.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		blog.Content = *req.Content
	}
	if req.ContentType != nil {
		blog.ContentType = *req.ContentType
	}
	if req.FeaturedImage != nil {
		blog.FeaturedImage = req.FeaturedImage
	}
	if req.Images != nil {
		blog.Images = *req.Images
	}
	if req.Author != nil {
		blog.Author = *req.Author
	}
	if req.Categories != nil {
		blog.Categories = *req.Categories
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}
	if req.SEO != nil {
		blog.SEO = req.SEO
	}
	blog.UpdatedAt = time.Now().UTC()

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.UpdateBlog(ctx, blog)
	}); err != nil {
		return nil, &BlogError{BlogID: blog.ID, Op: "update", Err: err}
	}

	return blog, nil
}

// Lifecycle transitions relabel status only. Publish sets PublishedAt the
// first time and never resets it; all three are idempotent.

func (s *service) PublishBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return s.transitionBlog(ctx, id, "publish", func(blog *Blog) {
		blog.Status = BlogStatusPublished
		if blog.PublishedAt == nil {
			now := time.Now().UTC()
			blog.PublishedAt = &now
		}
	})
}

func (s *service) UnpublishBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return s.transitionBlog(ctx, id, "unpublish", func(blog *Blog) {
		blog.Status = BlogStatusDraft
	})
}

func (s *service) ArchiveBlog(ctx context.Context, id uuid.UUID) (*Blog, error) {
	return s.transitionBlog(ctx, id, "archive", func(blog *Blog) {
		blog.Status = BlogStatusArchived
	})
}

func (s *service) transitionBlog(ctx context.Context, id uuid.UUID, op string, apply func(*Blog)) (*Blog, error) {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(blog)
	blog.UpdatedAt = time.Now().UTC()

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.UpdateBlog(ctx, blog)
	}); err != nil {
		return nil, &BlogError{BlogID: id, Op: op, Err: err}
	}

	s.logger.Info("blog status changed", "blog_id", id, "op", op, "status", blog.Status)
	return blog, nil
}

// RecordBlogView bumps the view counter by one. The increment happens inside
// the store as a single read-modify-write, so concurrent views of the same
// post never lose updates.
func (s *service) RecordBlogView(ctx context.Context, id uuid.UUID) error {
	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.IncrementBlogViews(ctx, id)
	}); err != nil {
		return &BlogError{BlogID: id, Op: "record_view", Err: err}
	}
	return nil
}

// DeleteBlog removes the post, then deletes its owned image assets. Asset
// failures are logged and swallowed; the data deletion already happened and
// is never rolled back for a missing file.
func (s *service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return err
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.DeleteBlog(ctx, id)
	}); err != nil {
		return &BlogError{BlogID: id, Op: "delete", Err: err}
	}

	s.deleteBlogAssets(ctx, blog)
	s.logger.Info("blog deleted", "blog_id", id, "slug", blog.Slug)
	return nil
}

func (s *service) deleteBlogAssets(ctx context.Context, blog *Blog) {
	if s.assets == nil {
		return
	}
	var urls []string
	if blog.FeaturedImage != nil && blog.FeaturedImage.URL != "" {
		urls = append(urls, blog.FeaturedImage.URL)
	}
	for _, img := range blog.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	for _, url := range urls {
		if err := s.assets.Delete(ctx, url); err != nil && !errors.Is(err, ErrAssetNotFound) {
			s.logger.Warn("failed to delete blog asset",
				"blog_id", blog.ID, "asset", url, "error", err)
		}
	}
}

func (s *service) ListBlogs(ctx context.Context, filters BlogListFilters) (*BlogList, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 10
	}

	var list *BlogList
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repository.ListBlogs(ctx, filters)
		return err
	})
	return list, err
}
