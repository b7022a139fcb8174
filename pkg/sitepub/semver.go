package sitepub

import (
	"fmt"
	"regexp"
	"strconv"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Semver is a parsed semantic version. Sections are compared and sorted on
// the parsed triple; the string form appears only at storage and API
// boundaries, so "1.9.0" sorts below "1.10.0".
type Semver struct {
	Major int
	Minor int
	Patch int
}

// ParseSemver parses a "major.minor.patch" string.
func ParseSemver(s string) (Semver, error) {
	if !semverPattern.MatchString(s) {
		return Semver{}, fmt.Errorf("invalid semantic version %q", s)
	}
	var v Semver
	// The pattern guarantees three numeric fields.
	_, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	if err != nil {
		return Semver{}, fmt.Errorf("invalid semantic version %q: %w", s, err)
	}
	return v, nil
}

// IsValidSemver reports whether s matches the semantic-version pattern.
func IsValidSemver(s string) bool {
	return semverPattern.MatchString(s)
}

func (v Semver) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// Compare returns -1, 0, or 1 comparing v to other numerically.
func (v Semver) Compare(other Semver) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
