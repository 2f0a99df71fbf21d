package repodata

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PinsFile is the default name of the file which configures pinned versions.
const PinsFile = "pins.yml"

// A Pin forces a tag into the published versions of a package.
type Pin struct {
	// Tag is the image tag to publish, which must be a semantic version.
	Tag string `yaml:"tag"`
	// Prepend makes the pinned version go in front of the other versions, rather than after them.
	Prepend bool `yaml:"prepend,omitempty"`
}

// UnmarshalYAML accepts either a bare tag (which is appended) or a mapping with a tag and a
// prepend flag.
func (p *Pin) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*p = Pin{Tag: value.Value}
		return nil
	}

	type plain Pin
	var decl plain
	if err := value.Decode(&decl); err != nil {
		return err
	}
	if decl.Tag == "" {
		return errors.Errorf("pin on line %d has no tag", value.Line)
	}
	*p = Pin(decl)
	return nil
}

// Pins maps package names to the versions pinned for them, in the order they should be applied.
type Pins map[string][]Pin

// LoadPins loads the pins configured in the YAML file at the provided path. An empty file
// configures no pins.
func LoadPins(filePath string) (Pins, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read pins file %s", filePath)
	}
	pins := make(Pins)
	if err = yaml.Unmarshal(bytes, &pins); err != nil {
		return nil, errors.Wrapf(err, "couldn't parse pins file %s", filePath)
	}
	return pins, nil
}
