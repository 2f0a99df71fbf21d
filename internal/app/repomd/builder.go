// Package repomd builds the repository index of a directory of packages
package repomd

import (
	"context"
	"net/http"
	"os"
	"path"

	"github.com/pkg/errors"

	"github.com/NethServer/ns8-repomd/internal/clients/cli"
	ffs "github.com/NethServer/ns8-repomd/pkg/fs"
	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

// DefaultRemoteBase is the base URL of the repositories which package metadata and logos are
// downloaded from.
const DefaultRemoteBase = "https://raw.githubusercontent.com/NethServer"

// An Inspector looks up the tags of container image repositories and the labels of their images.
type Inspector interface {
	ListTags(ctx context.Context, repository string) ([]string, error)
	Labels(ctx context.Context, repository, tag string) (map[string]string, error)
}

// Config holds the settings of a Builder.
type Config struct {
	// SourceRoot is the image namespace which each package's image repository is under.
	SourceRoot string
	// RemoteBase is the URL which the metadata and logo URLs of packages are made from.
	RemoteBase string
	// KeepGoing makes metadata failures and invalid pins skip just the affected package or pin,
	// instead of aborting the whole build.
	KeepGoing bool
}

// A Builder makes the repository index of the packages in a directory.
type Builder struct {
	Config Config
	// Inspector looks up the tags and labels of package images. It must not be nil.
	Inspector Inspector
	// Pins are the versions pinned for each package, by package directory name.
	Pins repodata.Pins
	// HTTP downloads missing metadata files and logos. If nil, [http.DefaultClient] is used.
	HTTP *http.Client
	// Reporter receives progress messages, warnings, and errors. If nil, they go to stderr.
	Reporter *cli.Reporter
}

// Build resolves every package in the root directory, in order, and returns the index of the
// packages which have at least one version.
func (b *Builder) Build(ctx context.Context, root string) (repodata.Index, error) {
	names, err := ListPackages(root)
	if err != nil {
		return nil, err
	}

	index := make(repodata.Index, 0, len(names))
	for _, name := range names {
		pkg, err := b.ResolvePackage(ctx, ffs.DirFS(path.Join(root, name)), name)
		if errors.Is(err, ErrNotInspected) {
			continue
		}
		if err != nil {
			if !b.Config.KeepGoing {
				return nil, errors.Wrapf(err, "couldn't resolve package %s", name)
			}
			b.reporter().Errorf("skipping package %s: %s", name, err)
			continue
		}
		var added bool
		if index, added = index.Add(pkg); !added {
			b.reporter().Errorf("no versions found for %s", pkg.Source)
		}
	}
	return index, nil
}

// ResolvePackage describes the package whose directory is pkgFS. If the package's image repository
// couldn't be inspected, ErrNotInspected is returned.
func (b *Builder) ResolvePackage(
	ctx context.Context, pkgFS ffs.PathedFS, name string,
) (*repodata.Package, error) {
	pkg := repodata.NewPackage(name, b.Config.SourceRoot)
	if err := b.loadMetadata(ctx, pkgFS, pkg); err != nil {
		return nil, err
	}
	b.resolveLogo(ctx, pkgFS, pkg)
	if err := b.resolveScreenshots(pkgFS, pkg); err != nil {
		return nil, err
	}

	pins := b.Pins[name]
	versions, err := b.ResolveVersions(ctx, pkg.Source, pins)
	if err != nil {
		return nil, err
	}
	pkg.Versions = versions
	return pkg, nil
}

func (b *Builder) remoteBase() string {
	if b.Config.RemoteBase == "" {
		return DefaultRemoteBase
	}
	return b.Config.RemoteBase
}

func (b *Builder) reporter() *cli.Reporter {
	if b.Reporter == nil {
		b.Reporter = cli.NewReporter(os.Stderr)
	}
	return b.Reporter
}

func (b *Builder) httpClient() *http.Client {
	if b.HTTP == nil {
		return http.DefaultClient
	}
	return b.HTTP
}
