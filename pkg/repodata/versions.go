package repodata

import (
	"maps"
	"slices"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
)

// NewVersion makes a Version for the provided tag, which must be a semantic version.
func NewVersion(tag string, labels map[string]string) (Version, error) {
	parsed, err := semver.Parse(tag)
	if err != nil {
		return Version{}, errors.Wrapf(err, "tag `%s` couldn't be parsed as a semantic version", tag)
	}
	return Version{
		Tag:     tag,
		Testing: len(parsed.Pre) > 0,
		Labels:  labels,
	}, nil
}

// Clone returns a deep copy of the version.
func (v Version) Clone() Version {
	v.Labels = maps.Clone(v.Labels)
	return v
}

// Tags

type parsedTag struct {
	tag     string
	version semver.Version
}

// SortTags returns the tags which are semantic versions, from the highest to the lowest
// precedence. Tags of equal precedence keep their relative order.
func SortTags(tags []string) []string {
	parsed := make([]parsedTag, 0, len(tags))
	for _, tag := range tags {
		version, err := semver.Parse(tag)
		if err != nil {
			continue
		}
		parsed = append(parsed, parsedTag{tag: tag, version: version})
	}
	slices.SortStableFunc(parsed, func(a, b parsedTag) int {
		return b.version.Compare(a.version)
	})

	sorted := make([]string, 0, len(parsed))
	for _, p := range parsed {
		sorted = append(sorted, p.tag)
	}
	return sorted
}

// Selection

// A LabelsFunc looks up the image labels of a tag.
type LabelsFunc func(tag string) (map[string]string, error)

// A Selector chooses which image tags are published as versions of a package.
type Selector struct {
	// Labels looks up the labels of each version's image. It must not be nil.
	Labels LabelsFunc
	// SkipInvalidPins makes pins whose tag isn't a semantic version get skipped (and reported to
	// OnSkip) instead of failing the selection.
	SkipInvalidPins bool

	// OnSkip, if set, is called for each tag or pin which was dropped because of an error.
	OnSkip func(tag string, err error)
	// OnAdd, if set, is called for each version selected from the registry's tags.
	OnAdd func(v Version)
	// OnPin, if set, is called for each pinned version added to the selection.
	OnPin func(v Version, prepend bool)
}

// Select walks through the tags from the highest to the lowest precedence, keeping the first
// pre-release it finds and stopping at the first release. Pre-releases after the first one are
// ignored. Tags which aren't semantic versions are ignored, and tags whose labels can't be looked
// up are skipped.
func (s Selector) Select(tags []string) []Version {
	versions := make([]Version, 0)
	testingFound := false
	for _, tag := range SortTags(tags) {
		parsed, _ := semver.Parse(tag) // SortTags only returns valid versions
		prerelease := len(parsed.Pre) > 0
		if testingFound && prerelease {
			continue
		}

		labels, err := s.Labels(tag)
		if err != nil {
			s.skip(tag, err)
			continue
		}
		version := Version{Tag: tag, Testing: prerelease, Labels: labels}
		if s.OnAdd != nil {
			s.OnAdd(version)
		}
		versions = append(versions, version)

		if !prerelease {
			break
		}
		testingFound = true
	}
	return versions
}

// ApplyPins adds a version for each pin, in order, either at the front or at the back of the
// provided versions. Pinned tags are not checked against versions already present.
func (s Selector) ApplyPins(versions []Version, pins []Pin) ([]Version, error) {
	for _, pin := range pins {
		version, err := NewVersion(pin.Tag, nil)
		if err != nil {
			if !s.SkipInvalidPins {
				return versions, errors.Wrapf(err, "invalid pin")
			}
			s.skip(pin.Tag, err)
			continue
		}
		if version.Labels, err = s.Labels(pin.Tag); err != nil {
			s.skip(pin.Tag, err)
			continue
		}
		if s.OnPin != nil {
			s.OnPin(version, pin.Prepend)
		}
		if pin.Prepend {
			versions = slices.Insert(versions, 0, version)
			continue
		}
		versions = append(versions, version)
	}
	return versions, nil
}

func (s Selector) skip(tag string, err error) {
	if s.OnSkip != nil {
		s.OnSkip(tag, err)
	}
}
