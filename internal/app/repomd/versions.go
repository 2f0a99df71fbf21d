package repomd

import (
	"context"

	"github.com/pkg/errors"

	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

// ErrNotInspected is returned (after being reported) when the tags of a package's image
// repository couldn't be listed.
var ErrNotInspected = errors.New("image repository couldn't be inspected")

// ResolveVersions selects the versions to publish from the tags of the image repository, then
// adds the pinned versions. If the repository's tags can't be listed, the failure is reported and
// ErrNotInspected is returned.
func (b *Builder) ResolveVersions(
	ctx context.Context, source string, pins []repodata.Pin,
) ([]repodata.Version, error) {
	reporter := b.reporter()
	reporter.Printf("Inspect %s", source)
	tags, err := b.Inspector.ListTags(ctx, source)
	if err != nil {
		reporter.Errorf("cannot inspect %s %s", source, err)
		return nil, ErrNotInspected
	}

	selector := repodata.Selector{
		Labels: func(tag string) (map[string]string, error) {
			return b.Inspector.Labels(ctx, source, tag)
		},
		SkipInvalidPins: b.Config.KeepGoing,
		OnSkip: func(tag string, err error) {
			reporter.Errorf("cannot inspect %s:%s %s", source, tag, err)
		},
		OnAdd: func(v repodata.Version) {
			reporter.Printf("* Add registry version %s", v.Tag)
		},
		OnPin: func(v repodata.Version, prepend bool) {
			if prepend {
				reporter.Printf("* Prepend pinned version %s", v.Tag)
				return
			}
			reporter.Printf("* Append pinned version %s", v.Tag)
		},
	}

	versions, err := selector.ApplyPins(selector.Select(tags), pins)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't apply pins for %s", source)
	}
	return versions, nil
}
