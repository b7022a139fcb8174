package sitepub_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub"
)

const testBlogContent = "This body is long enough to satisfy the minimum content length for a post."

func blogRequest(title string) sitepub.CreateBlogRequest {
	return sitepub.CreateBlogRequest{
		Title:       title,
		Content:     testBlogContent,
		ContentType: sitepub.ContentTypeMarkdown,
		Author:      sitepub.BlogAuthor{Name: "Pat Writer"},
	}
}

func TestCreateBlogValidation(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		mod   func(*sitepub.CreateBlogRequest)
		field string
	}{
		{
			name:  "title too short",
			mod:   func(r *sitepub.CreateBlogRequest) { r.Title = "Hi" },
			field: "title",
		},
		{
			name:  "title too long",
			mod:   func(r *sitepub.CreateBlogRequest) { r.Title = strings.Repeat("x", 201) },
			field: "title",
		},
		{
			name:  "content too short",
			mod:   func(r *sitepub.CreateBlogRequest) { r.Content = "short" },
			field: "content",
		},
		{
			name:  "unknown content type",
			mod:   func(r *sitepub.CreateBlogRequest) { r.ContentType = "asciidoc" },
			field: "content_type",
		},
		{
			name:  "invalid slug",
			mod:   func(r *sitepub.CreateBlogRequest) { r.Slug = "Not A Slug" },
			field: "slug",
		},
		{
			name:  "author name too short",
			mod:   func(r *sitepub.CreateBlogRequest) { r.Author.Name = "P" },
			field: "author.name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := blogRequest("A perfectly valid title")
			tt.mod(&req)

			_, err := svc.CreateBlog(ctx, req)
			var verr *sitepub.ValidationError
			require.ErrorAs(t, err, &verr)

			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestCreateBlogDerivesSlug(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, blogRequest("Shipping Content Safely"))
	require.NoError(t, err)
	assert.Equal(t, "shipping-content-safely", blog.Slug)
	assert.Equal(t, sitepub.BlogStatusDraft, blog.Status)
	assert.Nil(t, blog.PublishedAt)
	assert.Zero(t, blog.ViewCount)

	// Caller-supplied slugs win over derivation.
	req := blogRequest("Another Valid Title")
	req.Slug = "custom-slug"
	blog2, err := svc.CreateBlog(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", blog2.Slug)
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBlog(ctx, blogRequest("Shipping Content Safely"))
	require.NoError(t, err)

	// Different title, same explicit slug.
	req := blogRequest("A Different Title Entirely")
	req.Slug = "shipping-content-safely"
	_, err = svc.CreateBlog(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, sitepub.ErrDuplicateSlug)
	assert.True(t, sitepub.IsConflict(err))

	// Same derived slug collides too; no silent suffixing.
	_, err = svc.CreateBlog(ctx, blogRequest("Shipping Content Safely"))
	assert.ErrorIs(t, err, sitepub.ErrDuplicateSlug)
}

func TestGetBlogBySlugVisibility(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	draft, err := svc.CreateBlog(ctx, blogRequest("A Draft In Progress"))
	require.NoError(t, err)

	// Drafts are invisible to public lookups but visible to admin ones.
	_, err = svc.GetBlogBySlug(ctx, draft.Slug, false)
	assert.ErrorIs(t, err, sitepub.ErrBlogNotFound)

	found, err := svc.GetBlogBySlug(ctx, draft.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	_, err = svc.PublishBlog(ctx, draft.ID)
	require.NoError(t, err)

	found, err = svc.GetBlogBySlug(ctx, draft.Slug, false)
	require.NoError(t, err)
	assert.Equal(t, sitepub.BlogStatusPublished, found.Status)
}

func TestPublishLifecycle(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, blogRequest("Lifecycle Of A Post"))
	require.NoError(t, err)

	published, err := svc.PublishBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, sitepub.BlogStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
	firstPublished := *published.PublishedAt

	// Unpublish back to draft keeps the original publication time.
	unpublished, err := svc.UnpublishBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, sitepub.BlogStatusDraft, unpublished.Status)
	require.NotNil(t, unpublished.PublishedAt)
	assert.Equal(t, firstPublished, *unpublished.PublishedAt)

	time.Sleep(5 * time.Millisecond)

	// Republishing never resets PublishedAt.
	republished, err := svc.PublishBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.Equal(t, firstPublished, *republished.PublishedAt)

	archived, err := svc.ArchiveBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, sitepub.BlogStatusArchived, archived.Status)
	assert.Equal(t, firstPublished, *archived.PublishedAt)
}

func TestRecordBlogViewConcurrent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, blogRequest("A Post Everyone Reads"))
	require.NoError(t, err)

	const viewers = 50
	var wg sync.WaitGroup
	wg.Add(viewers)
	for i := 0; i < viewers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordBlogView(ctx, blog.ID))
		}()
	}
	wg.Wait()

	fresh, err := svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), fresh.ViewCount)
}

func TestUpdateBlogPartial(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, blogRequest("Original Posting Title"))
	require.NoError(t, err)
	require.NoError(t, svc.RecordBlogView(ctx, blog.ID))

	newTitle := "Revised Posting Title"
	newTags := []string{"go", "publishing"}
	updated, err := svc.UpdateBlog(ctx, sitepub.UpdateBlogRequest{
		ID:    blog.ID,
		Title: &newTitle,
		Tags:  &newTags,
	})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, newTags, updated.Tags)
	// Untouched fields survive, including the counter.
	assert.Equal(t, blog.Slug, updated.Slug)
	assert.Equal(t, blog.Content, updated.Content)
	assert.Equal(t, int64(1), updated.ViewCount)

	// Changing the slug to one already taken is a conflict.
	other, err := svc.CreateBlog(ctx, blogRequest("A Second Unrelated Post"))
	require.NoError(t, err)
	_, err = svc.UpdateBlog(ctx, sitepub.UpdateBlogRequest{ID: other.ID, Slug: &blog.Slug})
	assert.ErrorIs(t, err, sitepub.ErrDuplicateSlug)
}

func TestUpdateBlogRejectsEmptyContentType(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, blogRequest("A Post With A Content Type"))
	require.NoError(t, err)

	// Setting the pointer to the zero value is still an explicit value and
	// must fail the enum check, not slip past it.
	empty := ""
	_, err = svc.UpdateBlog(ctx, sitepub.UpdateBlogRequest{ID: blog.ID, ContentType: &empty})
	var verr *sitepub.ValidationError
	require.ErrorAs(t, err, &verr)

	bogus := "plain-text"
	_, err = svc.UpdateBlog(ctx, sitepub.UpdateBlogRequest{ID: blog.ID, ContentType: &bogus})
	require.ErrorAs(t, err, &verr)

	got, err := svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, blog.ContentType, got.ContentType)
}

func TestDeleteBlogCleansAssets(t *testing.T) {
	svc, assets := setupTestService(t)
	ctx := context.Background()

	req := blogRequest("A Post With Pictures")
	req.FeaturedImage = &sitepub.BlogImage{URL: "https://cdn.example.com/hero.png"}
	req.Images = []sitepub.BlogImage{
		{URL: "https://cdn.example.com/one.png"},
		{URL: "https://cdn.example.com/two.png"},
	}
	assets.Put("https://cdn.example.com/hero.png")
	assets.Put("https://cdn.example.com/one.png")
	// two.png was never uploaded; its missing-asset error must be swallowed.

	blog, err := svc.CreateBlog(ctx, req)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlog(ctx, blog.ID))

	_, err = svc.GetBlog(ctx, blog.ID)
	assert.ErrorIs(t, err, sitepub.ErrBlogNotFound)

	assert.False(t, assets.Has("https://cdn.example.com/hero.png"))
	assert.False(t, assets.Has("https://cdn.example.com/one.png"))
	assert.Equal(t, []string{
		"https://cdn.example.com/hero.png",
		"https://cdn.example.com/one.png",
		"https://cdn.example.com/two.png",
	}, assets.Deleted)
}

func TestListBlogs(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := blogRequest(fmt.Sprintf("Published Post Number %d", i))
		req.Categories = []string{"engineering"}
		blog, err := svc.CreateBlog(ctx, req)
		require.NoError(t, err)
		_, err = svc.PublishBlog(ctx, blog.ID)
		require.NoError(t, err)
	}

	draftReq := blogRequest("Unfinished Draft Post")
	draftReq.Categories = []string{"engineering"}
	draftReq.Tags = []string{"wip"}
	_, err := svc.CreateBlog(ctx, draftReq)
	require.NoError(t, err)

	// Public default shows published only.
	list, err := svc.ListBlogs(ctx, sitepub.BlogListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 5, list.TotalCount)
	assert.Len(t, list.Blogs, 5)
	for _, b := range list.Blogs {
		assert.Equal(t, sitepub.BlogStatusPublished, b.Status)
	}

	// Admin sees everything.
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{AllStatuses: true})
	require.NoError(t, err)
	assert.Equal(t, 6, list.TotalCount)

	// Status filter.
	draft := sitepub.BlogStatusDraft
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{Status: &draft})
	require.NoError(t, err)
	require.Len(t, list.Blogs, 1)
	assert.Equal(t, "Unfinished Draft Post", list.Blogs[0].Title)

	// Tag filter (admin scope so the draft is reachable).
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{Tag: "wip", AllStatuses: true})
	require.NoError(t, err)
	assert.Len(t, list.Blogs, 1)

	// Search over title.
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{Search: "number 3"})
	require.NoError(t, err)
	require.Len(t, list.Blogs, 1)
	assert.Equal(t, "Published Post Number 3", list.Blogs[0].Title)

	// Pagination.
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, list.TotalCount)
	assert.Len(t, list.Blogs, 2)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 2, list.Limit)

	// Past the end is an empty page, not an error.
	list, err = svc.ListBlogs(ctx, sitepub.BlogListFilters{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, list.Blogs)
	assert.Equal(t, 5, list.TotalCount)
}
