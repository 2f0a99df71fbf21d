package repodata

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"

	"github.com/pkg/errors"
)

// defaultPackage is the template which every package starts from. It must never be handed out
// without being cloned.
var defaultPackage = Package{
	Description: json.RawMessage(`{"en":""}`),
	Logo:        json.RawMessage(`null`),
	Screenshots: json.RawMessage(`[]`),
	Categories:  json.RawMessage(`["unknown"]`),
	Authors:     json.RawMessage(`[{"name":"unknown","email":"info@nethserver.org"}]`),
	Docs: json.RawMessage(`{"documentation_url":"https://docs.nethserver.org",` +
		`"bug_url":"https://github.com/NethServer/dev","code_url":"https://github.com/NethServer/"}`),
	Source:   DefaultSourceRoot,
	Versions: []Version{},
}

// NewPackage returns the default description of the package in the named directory, with its
// image published under sourceRoot. If sourceRoot is empty, [DefaultSourceRoot] is used.
func NewPackage(name, sourceRoot string) *Package {
	p := defaultPackage.Clone()
	if sourceRoot == "" {
		sourceRoot = p.Source
	}
	p.Name = name
	p.Description = mustMarshal(map[string]string{"en": "Auto-generated description for " + name})
	p.Source = sourceRoot + "/" + name
	p.ID = mustMarshal(name)
	return p
}

// Clone returns a deep copy of the package.
func (p Package) Clone() *Package {
	c := p
	c.Description = slices.Clone(p.Description)
	c.Logo = slices.Clone(p.Logo)
	c.Screenshots = slices.Clone(p.Screenshots)
	c.Categories = slices.Clone(p.Categories)
	c.Authors = slices.Clone(p.Authors)
	c.Docs = slices.Clone(p.Docs)
	c.ID = slices.Clone(p.ID)
	if p.Versions != nil {
		c.Versions = make([]Version, 0, len(p.Versions))
		for _, v := range p.Versions {
			c.Versions = append(c.Versions, v.Clone())
		}
	}
	if p.Extra != nil {
		c.Extra = make([]Field, 0, len(p.Extra))
		for _, field := range p.Extra {
			c.Extra = append(c.Extra, Field{Key: field.Key, Value: slices.Clone(field.Value)})
		}
	}
	return &c
}

// SetLogo makes the package's logo the file at the provided path, relative to the package
// directory.
func (p *Package) SetLogo(logoPath string) {
	p.Logo = mustMarshal(logoPath)
}

// AddScreenshot appends the file at the provided path, relative to the package directory, to the
// package's screenshots. The screenshots must be a JSON array.
func (p *Package) AddScreenshot(screenshotPath string) error {
	var screenshots []json.RawMessage
	if err := json.Unmarshal(p.Screenshots, &screenshots); err != nil || screenshots == nil {
		return errors.Errorf("screenshots %s are not a JSON array", p.Screenshots)
	}
	screenshots = append(screenshots, mustMarshal(screenshotPath))
	encoded, err := marshal(screenshots)
	if err != nil {
		return err
	}
	p.Screenshots = encoded
	return nil
}

// MergeMetadata overrides the fields of the package with the top-level keys of the provided JSON
// object. Each key replaces the corresponding field entirely with the key's value; keys without a
// corresponding field are kept in Extra. The versions key is ignored, since versions are always
// resolved from the package's image repository.
func (p *Package) MergeMetadata(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return errors.Wrap(err, "couldn't parse package metadata")
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("package metadata starts with %v instead of a JSON object", token)
	}
	for decoder.More() {
		if token, err = decoder.Token(); err != nil {
			return errors.Wrap(err, "couldn't parse package metadata")
		}
		key, ok := token.(string)
		if !ok {
			return errors.Errorf("unexpected %v instead of a key in package metadata", token)
		}
		var value json.RawMessage
		if err = decoder.Decode(&value); err != nil {
			return errors.Wrapf(err, "couldn't parse metadata key %s", key)
		}
		if err = p.mergeKey(key, value); err != nil {
			return errors.Wrapf(err, "couldn't merge metadata key %s", key)
		}
	}
	if _, err = decoder.Token(); err != nil {
		return errors.Wrap(err, "couldn't parse package metadata")
	}
	if token, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return errors.Errorf("unexpected %v after the package metadata object", token)
	}
	return nil
}

func (p *Package) mergeKey(key string, value json.RawMessage) error {
	switch key {
	case "name":
		return replaceString(&p.Name, value)
	case "description":
		p.Description = value
	case "logo":
		p.Logo = value
	case "screenshots":
		p.Screenshots = value
	case "categories":
		p.Categories = value
	case "authors":
		p.Authors = value
	case "docs":
		p.Docs = value
	case "source":
		return replaceString(&p.Source, value)
	case "versions":
	case "id":
		p.ID = value
	default:
		for i, field := range p.Extra {
			if field.Key == key {
				p.Extra[i].Value = value
				return nil
			}
		}
		p.Extra = append(p.Extra, Field{Key: key, Value: value})
	}
	return nil
}

// replaceString is for the fields which the index builder reads, so they must be strings.
func replaceString(dst *string, value json.RawMessage) error {
	var decoded *string
	if err := json.Unmarshal(value, &decoded); err != nil {
		return err
	}
	if decoded == nil {
		return errors.New("value is null instead of a string")
	}
	*dst = *decoded
	return nil
}

// Package: json.Marshaler

// MarshalJSON encodes the package's fields followed by its extra keys.
func (p Package) MarshalJSON() ([]byte, error) {
	name, err := marshal(p.Name)
	if err != nil {
		return nil, err
	}
	source, err := marshal(p.Source)
	if err != nil {
		return nil, err
	}
	versions := p.Versions
	if versions == nil {
		versions = []Version{}
	}
	encodedVersions, err := marshal(versions)
	if err != nil {
		return nil, err
	}

	fields := append([]Field{
		{Key: "name", Value: name},
		{Key: "description", Value: p.Description},
		{Key: "logo", Value: p.Logo},
		{Key: "screenshots", Value: p.Screenshots},
		{Key: "categories", Value: p.Categories},
		{Key: "authors", Value: p.Authors},
		{Key: "docs", Value: p.Docs},
		{Key: "source", Value: source},
		{Key: "versions", Value: encodedVersions},
		{Key: "id", Value: p.ID},
	}, p.Extra...)

	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(field.Value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(field.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal is like json.Marshal, but it leaves HTML characters unescaped.
func marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, errors.Wrapf(err, "couldn't serialize %T as json", v)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// mustMarshal is for values which always have a JSON encoding, such as strings.
func mustMarshal(v any) json.RawMessage {
	encoded, err := marshal(v)
	if err != nil {
		panic(err)
	}
	return encoded
}
