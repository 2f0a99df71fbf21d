// Package repodata implements the data model of the NethServer repository index, along with the
// selection of published versions from the tags of a package's container image.
package repodata

import (
	"encoding/json"
)

// MetadataFile is the name of the file in a package directory which describes the package.
const MetadataFile = "metadata.json"

// DefaultSourceRoot is the container registry namespace under which package images are published.
const DefaultSourceRoot = "ghcr.io/nethserver"

// Package

// A Package is the description of a package in the repository index. Fields which the index
// builder never interprets hold the JSON values of the package's metadata file as they were read.
type Package struct {
	// Name is the name of the package, which defaults to the name of its directory.
	Name string
	// Description maps locale codes to descriptions of the package.
	Description json.RawMessage
	// Logo is the path of the PNG logo of the package, relative to the package directory.
	Logo json.RawMessage
	// Screenshots are the paths of PNG screenshots, relative to the package directory.
	Screenshots json.RawMessage
	// Categories are the categories the package belongs to.
	Categories json.RawMessage
	// Authors are the authors of the package.
	Authors json.RawMessage
	// Docs are links to external resources about the package.
	Docs json.RawMessage
	// Source is the container image repository of the package, without a tag.
	Source string
	// Versions are the published versions of the package, most relevant first.
	Versions []Version
	// ID is used by clients to compute the base name of the package's images.
	ID json.RawMessage
	// Extra holds the top-level keys of the package's metadata file which have no corresponding
	// field, in the order they first appeared in the file.
	Extra []Field
}

// A Field is a key of a JSON object with its value.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Version

// A Version is a published version of a package, corresponding to a tag of its container image.
type Version struct {
	// Tag is the image tag, which is a semantic version.
	Tag string `json:"tag"`
	// Testing is true iff the tag has a pre-release component.
	Testing bool `json:"testing"`
	// Labels are the labels of the image with the tag.
	Labels map[string]string `json:"labels"`
}

// Index

// An Index is the list of packages in the repository, in the order their directories were found.
type Index []*Package
