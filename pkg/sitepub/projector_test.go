package sitepub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub"
)

func TestProjectFeatures(t *testing.T) {
	payload := &sitepub.FeaturePayload{
		Title:       "Why us",
		MaxFeatures: 5,
		Features: []sitepub.Feature{
			{Title: "f1", Order: 3, IsVisible: true},
			{Title: "f2", Order: 1, IsVisible: true},
			{Title: "f3", Order: 7, IsVisible: false},
			{Title: "f4", Order: 2, IsVisible: true},
			{Title: "f5", Order: 6, IsVisible: true},
			{Title: "f6", Order: 4, IsVisible: false},
			{Title: "f7", Order: 5, IsVisible: true},
			{Title: "f8", Order: 8, IsVisible: false},
		},
	}

	projected := sitepub.ProjectFeatures(payload)

	require.Len(t, projected, 5)
	titles := make([]string, 0, len(projected))
	for _, f := range projected {
		assert.True(t, f.IsVisible)
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"f2", "f4", "f1", "f7", "f5"}, titles)
}

func TestProjectFeaturesDeterministic(t *testing.T) {
	payload := &sitepub.FeaturePayload{
		Features: []sitepub.Feature{
			{Title: "a", Order: 1, IsVisible: true},
			{Title: "b", Order: 1, IsVisible: true},
			{Title: "c", Order: 1, IsVisible: true},
		},
	}

	first := sitepub.ProjectFeatures(payload)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, sitepub.ProjectFeatures(payload))
	}

	// Stable sort keeps declaration order among equal Order values.
	require.Len(t, first, 3)
	assert.Equal(t, "a", first[0].Title)
	assert.Equal(t, "b", first[1].Title)
	assert.Equal(t, "c", first[2].Title)
}

func TestProjectFeaturesDefaultLimit(t *testing.T) {
	features := make([]sitepub.Feature, 10)
	for i := range features {
		features[i] = sitepub.Feature{Title: "f", Order: i, IsVisible: true}
	}

	projected := sitepub.ProjectFeatures(&sitepub.FeaturePayload{Features: features})
	assert.Len(t, projected, sitepub.DefaultMaxFeatures)
}

func TestProjectFeaturesEmpty(t *testing.T) {
	assert.Empty(t, sitepub.ProjectFeatures(nil))
	assert.Empty(t, sitepub.ProjectFeatures(&sitepub.FeaturePayload{}))

	onlyHidden := &sitepub.FeaturePayload{
		Features: []sitepub.Feature{{Title: "hidden", IsVisible: false}},
	}
	assert.Empty(t, sitepub.ProjectFeatures(onlyHidden))
}
