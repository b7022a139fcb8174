package sitepub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webpress/sitepub/pkg/sitepub"
)

func TestParseSemver(t *testing.T) {
	v, err := sitepub.ParseSemver("1.10.3")
	require.NoError(t, err)
	assert.Equal(t, sitepub.Semver{Major: 1, Minor: 10, Patch: 3}, v)
	assert.Equal(t, "1.10.3", v.String())

	for _, bad := range []string{"", "1", "1.2", "v1.2.3", "1.2.3-rc1", "1.2.x", "1..3"} {
		_, err := sitepub.ParseSemver(bad)
		assert.Error(t, err, "input %q", bad)
		assert.False(t, sitepub.IsValidSemver(bad), "input %q", bad)
	}

	assert.True(t, sitepub.IsValidSemver("0.0.0"))
	assert.True(t, sitepub.IsValidSemver("12.0.99"))
}

func TestSemverCompareNumeric(t *testing.T) {
	a, err := sitepub.ParseSemver("1.9.0")
	require.NoError(t, err)
	b, err := sitepub.ParseSemver("1.10.0")
	require.NoError(t, err)

	// Numeric ordering, not lexicographic: 1.10.0 > 1.9.0.
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	c, _ := sitepub.ParseSemver("2.0.0")
	assert.Equal(t, 1, c.Compare(b))
}
