// Package crane provides a wrapper around go-containerregistry's functionality
package crane

import (
	"bytes"
	"context"

	"github.com/containerd/platforms"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/pkg/errors"

	"github.com/NethServer/ns8-repomd/internal/clients/registry"
)

type Platform = v1.Platform

// Client inspects image repositories by talking to registries directly.
type Client struct {
	platform    *Platform
	nameOptions []name.Option
	options     []crane.Option
}

// NewClient makes a Client which reads the labels of images for the specified platform (e.g.
// "linux/arm64"). If platform is empty, the platform is the Linux variant of the host's
// architecture. If insecure is set, registries may be reached over plain HTTP.
func NewClient(platform string, insecure bool) (*Client, error) {
	c := &Client{}
	if platform == "" {
		detected := DetectPlatform()
		c.platform = &detected
	} else {
		parsed, err := v1.ParsePlatform(platform)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't parse platform: %s", platform)
		}
		c.platform = parsed
	}
	c.options = append(c.options, crane.WithPlatform(c.platform))
	if insecure {
		c.nameOptions = append(c.nameOptions, name.Insecure)
		c.options = append(c.options, crane.Insecure)
	}
	return c, nil
}

// Platform returns the platform whose image labels are reported by the client.
func (c *Client) Platform() Platform {
	return *c.platform
}

// ListTags returns all tags of the image repository.
func (c *Client) ListTags(ctx context.Context, repository string) ([]string, error) {
	repo, err := name.NewRepository(repository, c.nameOptions...)
	if err != nil {
		return nil, errors.Wrapf(registry.ErrInvalidReference, "%s: %s", repository, err)
	}
	tags, err := crane.ListTags(repo.Name(), c.withContext(ctx)...)
	if err != nil {
		return nil, &registry.InspectError{Reference: repo.Name(), Err: err}
	}
	return tags, nil
}

// Labels returns the labels in the config of the image with the specified tag in the image
// repository.
func (c *Client) Labels(ctx context.Context, repository, tag string) (map[string]string, error) {
	ref, err := name.NewTag(repository+":"+tag, c.nameOptions...)
	if err != nil {
		return nil, errors.Wrapf(registry.ErrInvalidReference, "%s:%s: %s", repository, tag, err)
	}
	rawConfig, err := crane.Config(ref.Name(), c.withContext(ctx)...)
	if err != nil {
		return nil, &registry.InspectError{Reference: ref.Name(), Err: err}
	}
	config, err := v1.ParseConfigFile(bytes.NewReader(rawConfig))
	if err != nil {
		return nil, &registry.InspectError{
			Reference: ref.Name(), Err: errors.Wrap(err, "couldn't parse image config"),
		}
	}
	return config.Config.Labels, nil
}

func (c *Client) withContext(ctx context.Context) []crane.Option {
	options := make([]crane.Option, 0, len(c.options)+1)
	options = append(options, c.options...)
	return append(options, crane.WithContext(ctx))
}

// DetectPlatform returns the host's platform, but for Linux, which package images are built for.
func DetectPlatform() Platform {
	detectedPlatform := platforms.Normalize(platforms.DefaultSpec())
	return Platform{
		Architecture: detectedPlatform.Architecture,
		OS:           "linux",
		Variant:      detectedPlatform.Variant,
	}
}
