package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	store := &Store{bucket: "site-assets", keyPrefix: "uploads"}

	tests := []struct {
		in   string
		want string
	}{
		{"https://site-assets.s3.amazonaws.com/uploads/hero.png", "uploads/hero.png"},
		{"https://s3.amazonaws.com/site-assets/uploads/hero.png", "uploads/hero.png"},
		{"https://minio.local:9000/site-assets/uploads/hero.png", "uploads/hero.png"},
		{"hero.png", "uploads/hero.png"},
		{"/hero.png", "uploads/hero.png"},
		{"uploads/hero.png", "uploads/hero.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, store.objectKey(tt.in), "input %q", tt.in)
	}
}

func TestObjectKeyNoPrefix(t *testing.T) {
	store := &Store{bucket: "b"}
	assert.Equal(t, "hero.png", store.objectKey("hero.png"))
	assert.Equal(t, "a/b.png", store.objectKey("https://cdn.example.com/a/b.png"))
}
