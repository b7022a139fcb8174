package sitepub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/webpress/sitepub/pkg/sitepub"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Go 1.22 Released!", "go-122-released"},
		{"Already-Slugged-Title", "already-slugged-title"},
		{"multiple   spaces -- and hyphens", "multiple-spaces-and-hyphens"},
		{"***", ""},
		{"Ünïcode Ignored", "ncode-ignored"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sitepub.Slugify(tt.title), "title %q", tt.title)
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "hello-world", "go-122", "x1-y2-z3"}
	for _, s := range valid {
		assert.True(t, sitepub.IsValidSlug(s), "slug %q", s)
	}

	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "UPPER", "with space", "dot.slug"}
	for _, s := range invalid {
		assert.False(t, sitepub.IsValidSlug(s), "slug %q", s)
	}
}
