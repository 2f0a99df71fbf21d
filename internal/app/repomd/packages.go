package repomd

import (
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	ffs "github.com/NethServer/ns8-repomd/pkg/fs"
)

// ListPackages returns the names of the directories immediately under root, in lexical order.
// Symlinks to directories are included. Hidden entries are ignored.
func ListPackages(root string) ([]string, error) {
	if !ffs.DirExists(root) {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, "*")
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't list entries of %s", root)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		if strings.HasPrefix(match, ".") {
			continue
		}
		info, err := fs.Stat(fsys, match)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) { // e.g. a dangling symlink
				continue
			}
			return nil, errors.Wrapf(err, "couldn't stat %s in %s", match, root)
		}
		if !info.IsDir() {
			continue
		}
		names = append(names, match)
	}
	slices.Sort(names)
	return names, nil
}
