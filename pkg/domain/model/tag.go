package model

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// tagPattern is the trigger contract: a "v" prefix followed by exactly three
// dot-separated non-negative integers. Anything else (branches, partial
// versions like "v1.2", suffixed tags) does not start a publish run.
var tagPattern = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

// ReleaseTag is a parsed semantic-version release tag.
type ReleaseTag struct {
	Name  string
	Major int
	Minor int
	Patch int
}

// ParseReleaseTag parses a tag name against the release pattern.
func ParseReleaseTag(name string) (*ReleaseTag, error) {
	m := tagPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, goerr.New("tag does not match release pattern vMAJOR.MINOR.PATCH", goerr.V("tag", name))
	}

	tag := &ReleaseTag{Name: name}
	for i, dst := range []*int{&tag.Major, &tag.Minor, &tag.Patch} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return nil, goerr.Wrap(err, "invalid version component", goerr.V("tag", name))
		}
		*dst = n
	}

	return tag, nil
}

// MatchTagRef reports whether a pushed ref points at a release tag and
// returns the parsed tag if so. Branch refs and non-matching tag refs
// return false.
func MatchTagRef(ref string) (*ReleaseTag, bool) {
	name, ok := strings.CutPrefix(ref, "refs/tags/")
	if !ok {
		return nil, false
	}

	tag, err := ParseReleaseTag(name)
	if err != nil {
		return nil, false
	}
	return tag, true
}
