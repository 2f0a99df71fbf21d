package repomd

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	units "github.com/docker/go-units"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"

	ffs "github.com/NethServer/ns8-repomd/pkg/fs"
	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

const (
	LogoFile       = "logo.png"
	ScreenshotsDir = "screenshots"
)

// LogoURL returns the URL which the default logo of the named package is downloaded from.
func LogoURL(remoteBase, name string) string {
	return fmt.Sprintf("%s/ns8-%s/main/ui/src/assets/module_default_logo.png", remoteBase, name)
}

// IsPNG checks whether the named file's contents start like a PNG image.
func IsPNG(fsys fs.FS, name string) (bool, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = file.Close()
	}()

	kind, err := filetype.MatchReader(file)
	if err != nil {
		return false, errors.Wrapf(err, "couldn't determine file type of %s", name)
	}
	return kind.Extension == "png", nil
}

// resolveLogo sets the logo of the package if its directory has a PNG logo, downloading the
// default logo of the package first if no logo exists. A failed download is ignored.
func (b *Builder) resolveLogo(ctx context.Context, pkgFS ffs.PathedFS, pkg *repodata.Package) {
	if !ffs.FileExists(pkgFS, LogoFile) {
		b.reporter().Printf("Downloading logo for %s", pkg.Name)
		url := LogoURL(b.remoteBase(), pkg.Name)
		if size, err := downloadFile(
			ctx, url, ffs.FullPath(pkgFS, LogoFile), b.httpClient(),
		); err == nil {
			b.reporter().Indented().Printf("Downloaded %s (%s)", url, units.HumanSize(float64(size)))
		}
	}

	if !ffs.FileExists(pkgFS, LogoFile) {
		return
	}
	if ok, err := IsPNG(pkgFS, LogoFile); err != nil || !ok {
		return
	}
	pkg.SetLogo(LogoFile)
}

// resolveScreenshots appends the PNG images in the package's screenshots directory to the
// package's screenshots, in lexical order.
func (b *Builder) resolveScreenshots(pkgFS ffs.PathedFS, pkg *repodata.Package) error {
	if !ffs.DirExists(ffs.FullPath(pkgFS, ScreenshotsDir)) {
		return nil
	}
	entries, err := pkgFS.ReadDir(ScreenshotsDir)
	if err != nil {
		return errors.Wrapf(err, "couldn't list %s", ffs.FullPath(pkgFS, ScreenshotsDir))
	}
	for _, entry := range entries {
		screenshot := path.Join(ScreenshotsDir, entry.Name())
		if !ffs.FileExists(pkgFS, screenshot) {
			continue
		}
		ok, err := IsPNG(pkgFS, screenshot)
		if err != nil {
			return errors.Wrapf(err, "couldn't check %s", ffs.FullPath(pkgFS, screenshot))
		}
		if !ok {
			continue
		}
		if err = pkg.AddScreenshot(screenshot); err != nil {
			return errors.Wrapf(err, "couldn't add screenshot %s", screenshot)
		}
	}
	return nil
}
