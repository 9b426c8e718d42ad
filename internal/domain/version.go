package domain

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Version wraps semver.Version for the git tool version.
type Version struct {
	*semver.Version
}

// NewVersion creates a new Version from a string.
func NewVersion(s string) (*Version, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	return &Version{v}, nil
}

// "git version 2.43.0", "git version 2.42.0.windows.2", "git version 2.39.3 (Apple Git-146)"
var gitVersionLine = regexp.MustCompile(`^git version (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseGitVersion extracts the version from `git --version` output.
func ParseGitVersion(output string) (*Version, error) {
	m := gitVersionLine.FindStringSubmatch(output)
	if m == nil {
		return nil, NewParseError(output, "unrecognized git version output")
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
}

// AtLeast reports whether v is greater than or equal to the given version.
func (v *Version) AtLeast(minimum string) (bool, error) {
	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false, err
	}
	return c.Check(v.Version), nil
}

// Compare compares two versions.
func (v *Version) Compare(other *Version) int {
	return v.Version.Compare(other.Version)
}
