package repomd

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"
	"github.com/pkg/errors"

	ffs "github.com/NethServer/ns8-repomd/pkg/fs"
	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

// MetadataURL returns the URL which the metadata of the named package is downloaded from when the
// package directory doesn't have a metadata file.
func MetadataURL(remoteBase, name string) string {
	return fmt.Sprintf("%s/ns8-%s/main/ui/public/%s", remoteBase, name, repodata.MetadataFile)
}

// loadMetadata merges the package's metadata file into pkg, first downloading the file into the
// package directory if it doesn't exist there.
func (b *Builder) loadMetadata(
	ctx context.Context, pkgFS ffs.PathedFS, pkg *repodata.Package,
) error {
	if !ffs.FileExists(pkgFS, repodata.MetadataFile) {
		b.reporter().Printf("Downloading metadata for %s", pkg.Name)
		url := MetadataURL(b.remoteBase(), pkg.Name)
		size, err := downloadFile(
			ctx, url, ffs.FullPath(pkgFS, repodata.MetadataFile), b.httpClient(),
		)
		if err != nil {
			return errors.Wrapf(err, "couldn't download metadata for %s", pkg.Name)
		}
		b.reporter().Indented().Printf("Downloaded %s (%s)", url, units.HumanSize(float64(size)))
	}

	data, err := pkgFS.ReadFile(repodata.MetadataFile)
	if err != nil {
		return errors.Wrapf(
			err, "couldn't read %s", ffs.FullPath(pkgFS, repodata.MetadataFile),
		)
	}
	if err = pkg.MergeMetadata(data); err != nil {
		return errors.Wrapf(err, "couldn't load %s", ffs.FullPath(pkgFS, repodata.MetadataFile))
	}
	return nil
}
