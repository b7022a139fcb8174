package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub"
	"github.com/webpress/sitepub/pkg/sitepub/api"
	"github.com/webpress/sitepub/pkg/sitepub/repo/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc, err := sitepub.New(sitepub.WithRepository(memory.New()))
	require.NoError(t, err)

	srv := httptest.NewServer(api.NewRouter(svc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestSectionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sections/hero"

	// No active section yet.
	resp, err := http.Get(base + "/active")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Create.
	resp = doJSON(t, http.MethodPost, base, map[string]interface{}{
		"version": "1.0.0",
		"hero":    map[string]string{"title": "Welcome"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created sitepub.Section
	decode(t, resp, &created)
	assert.False(t, created.IsActive)

	// Validation failure carries field details.
	resp = doJSON(t, http.MethodPost, base, map[string]interface{}{"version": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errBody api.ErrorResponse
	decode(t, resp, &errBody)
	assert.NotEmpty(t, errBody.Fields)

	// Duplicate version conflicts.
	resp = doJSON(t, http.MethodPost, base, map[string]interface{}{
		"version": "1.0.0",
		"hero":    map[string]string{"title": "Other"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unknown kind fails request validation.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/sections/banner", map[string]interface{}{
		"version": "1.0.0",
		"hero":    map[string]string{"title": "x"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Activate, then the active read serves it.
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/activate", base, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(base + "/active")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var active sitepub.Section
	decode(t, resp, &active)
	assert.Equal(t, created.ID, active.ID)

	// Deleting the active section is a conflict.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, created.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Clone into a new version; delete the inactive clone cleanly.
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/versions", base, created.ID),
		map[string]string{"version": "1.1.0"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var clone sitepub.Section
	decode(t, resp, &clone)
	assert.Equal(t, "1.1.0", clone.Version)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, clone.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestActiveFeatureSectionProjection(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sections/feature"

	resp := doJSON(t, http.MethodPost, base, map[string]interface{}{
		"version":   "1.0.0",
		"is_active": true,
		"feature": map[string]interface{}{
			"title":        "Highlights",
			"max_features": 2,
			"features": []map[string]interface{}{
				{"title": "c", "order": 3, "is_visible": true},
				{"title": "a", "order": 1, "is_visible": true},
				{"title": "hidden", "order": 0, "is_visible": false},
				{"title": "b", "order": 2, "is_visible": true},
			},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(base + "/active")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Feature           *sitepub.FeaturePayload `json:"feature"`
		ProjectedFeatures []sitepub.Feature       `json:"projected_features"`
	}
	decode(t, resp, &body)

	// Full payload still present, projection filtered, ordered, truncated.
	require.NotNil(t, body.Feature)
	assert.Len(t, body.Feature.Features, 4)
	require.Len(t, body.ProjectedFeatures, 2)
	assert.Equal(t, "a", body.ProjectedFeatures[0].Title)
	assert.Equal(t, "b", body.ProjectedFeatures[1].Title)
}

func TestBlogEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/blogs"

	createBody := map[string]interface{}{
		"title":        "A Story About Publishing",
		"content":      "This body is long enough to satisfy the minimum content length for a post.",
		"content_type": "markdown",
		"author":       map[string]string{"name": "Pat Writer"},
	}

	resp := doJSON(t, http.MethodPost, base, createBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created sitepub.Blog
	decode(t, resp, &created)
	assert.Equal(t, "a-story-about-publishing", created.Slug)
	assert.Equal(t, sitepub.BlogStatusDraft, created.Status)

	// Draft invisible on the public slug route.
	resp, err := http.Get(base + "/" + created.Slug)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// But present in the admin listing.
	resp, err = http.Get(srv.URL + "/api/admin/blogs?status=draft")
	require.NoError(t, err)
	var adminList sitepub.BlogList
	decode(t, resp, &adminList)
	assert.Equal(t, 1, adminList.TotalCount)

	// Publish, then the public read works and bumps the counter.
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/%s/publish", base, created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var published sitepub.Blog
	decode(t, resp, &published)
	assert.Equal(t, sitepub.BlogStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	for i := 1; i <= 3; i++ {
		resp, err = http.Get(base + "/" + created.Slug)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var read sitepub.Blog
		decode(t, resp, &read)
		assert.Equal(t, int64(i), read.ViewCount)
	}

	// Duplicate slug is a conflict.
	resp = doJSON(t, http.MethodPost, base, createBody)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Partial update.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/%s", base, created.ID),
		map[string]string{"title": "A Revised Story About Publishing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated sitepub.Blog
	decode(t, resp, &updated)
	assert.Equal(t, "A Revised Story About Publishing", updated.Title)
	assert.Equal(t, created.Slug, updated.Slug)

	// Delete, then the post is gone everywhere.
	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, created.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, created.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBlogValidationResponse(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/blogs", map[string]interface{}{
		"title":        "Hi",
		"content":      "too short",
		"content_type": "asciidoc",
		"author":       map[string]string{"name": "P"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errBody api.ErrorResponse
	decode(t, resp, &errBody)
	assert.Equal(t, "validation failed", errBody.Error)

	fields := make(map[string]string)
	for _, f := range errBody.Fields {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "content_type")
	assert.Contains(t, fields, "author.name")
}

func TestTestimonialEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/testimonials"

	resp := doJSON(t, http.MethodPost, base, map[string]interface{}{
		"name":   "Alex Customer",
		"quote":  "Exactly what our marketing site needed.",
		"rating": 5,
		"active": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created sitepub.Testimonial
	decode(t, resp, &created)

	resp = doJSON(t, http.MethodPost, base, map[string]interface{}{
		"name":   "Bad Rating",
		"quote":  "x",
		"rating": 9,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err := http.Get(base + "?active=true")
	require.NoError(t, err)
	var list []sitepub.Testimonial
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/%s", base, created.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestStatsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/stats/blogs", "/api/stats/testimonials", "/api/stats/features"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/stats/blogs")
	require.NoError(t, err)
	var stats sitepub.BlogStats
	decode(t, resp, &stats)
	assert.Zero(t, stats.TotalCount)
}
