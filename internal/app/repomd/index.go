package repomd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/NethServer/ns8-repomd/pkg/repodata"
)

// WriteIndex replaces the file at outputPath with the index, through a temporary file so that a
// failed write leaves any previous index intact.
func WriteIndex(outputPath string, index repodata.Index) error {
	tmpPath := outputPath + ".tmp"
	file, err := os.Create(filepath.Clean(tmpPath))
	if err != nil {
		return errors.Wrapf(err, "couldn't create temporary index file at %s", tmpPath)
	}
	err = index.Encode(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "couldn't close temporary index file %s", tmpPath)
	}
	if err != nil {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] couldn't remove temporary index file %s\n", tmpPath)
		}
		return err
	}

	if err = os.Rename(tmpPath, outputPath); err != nil {
		return errors.Wrapf(err, "couldn't replace %s", outputPath)
	}
	return nil
}
