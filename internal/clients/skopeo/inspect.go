// Package skopeo provides a wrapper around the `skopeo inspect` command
package skopeo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"

	"github.com/distribution/reference"
	"github.com/pkg/errors"

	"github.com/NethServer/ns8-repomd/internal/clients/registry"
)

const (
	DefaultCommand = "skopeo"
	transport      = "docker://"
)

type Client struct {
	// Command is the name or path of the skopeo executable.
	Command string
	// Stderr receives the error output of skopeo. If nil, os.Stderr is used.
	Stderr io.Writer
}

func NewClient(command string) *Client {
	if command == "" {
		command = DefaultCommand
	}
	return &Client{Command: command, Stderr: os.Stderr}
}

// ListTags returns all tags of the image repository.
func (c *Client) ListTags(ctx context.Context, repository string) ([]string, error) {
	named, err := parseRepository(repository)
	if err != nil {
		return nil, err
	}
	var tags []string
	if err = c.inspect(ctx, named.String(), "RepoTags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Labels returns the labels of the image with the specified tag in the image repository.
func (c *Client) Labels(ctx context.Context, repository, tag string) (map[string]string, error) {
	named, err := parseRepository(repository)
	if err != nil {
		return nil, err
	}
	tagged, err := reference.WithTag(named, tag)
	if err != nil {
		return nil, errors.Wrapf(registry.ErrInvalidReference, "%s:%s: %s", repository, tag, err)
	}
	var labels map[string]string
	if err = c.inspect(ctx, tagged.String(), "Labels", &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func parseRepository(repository string) (reference.Named, error) {
	named, err := reference.ParseNormalizedNamed(repository)
	if err != nil {
		return nil, errors.Wrapf(registry.ErrInvalidReference, "%s: %s", repository, err)
	}
	if !reference.IsNameOnly(named) {
		return nil, errors.Wrapf(
			registry.ErrInvalidReference, "%s: repository has a tag or digest", repository,
		)
	}
	return named, nil
}

// inspect runs `skopeo inspect` on the image reference and decodes the named top-level field of
// its output into v.
func (c *Client) inspect(ctx context.Context, ref, field string, v any) error {
	stdout := &bytes.Buffer{}
	cmd := exec.CommandContext( //nolint:gosec // (G204) the command is configured by the user
		ctx, c.Command, "inspect", transport+ref,
	)
	cmd.Stdout = stdout
	cmd.Stderr = c.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return &registry.InspectError{Reference: ref, Err: err}
	}
	if err := decodeField(stdout.Bytes(), field, v); err != nil {
		return &registry.InspectError{Reference: ref, Err: err}
	}
	return nil
}

// decodeField decodes the named top-level field of a JSON object into v. A field which is
// present but null is not an error.
func decodeField(data []byte, field string, v any) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(err, "couldn't parse inspection output")
	}
	raw, ok := doc[field]
	if !ok {
		return errors.Errorf("inspection output has no %s field", field)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "couldn't parse %s field of inspection output", field)
	}
	return nil
}
