package repomd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	ffs "github.com/NethServer/ns8-repomd/pkg/fs"
)

// downloadFile saves the file at url to outputPath, returning its size. Nothing is written to
// outputPath unless the download completes with a successful status.
func downloadFile(ctx context.Context, url, outputPath string, hc *http.Client) (int64, error) {
	if err := ffs.EnsureExists(filepath.Dir(outputPath)); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "couldn't make http get request for %s", url)
	}
	res, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			// FIXME: handle this error better
			fmt.Fprintf(os.Stderr, "[ERROR] couldn't close http response for %s\n", url)
		}
	}()
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return 0, errors.Errorf("http get request for %s failed: %s", url, res.Status)
	}

	tmpPath := outputPath + ".tmp"
	file, err := os.Create(filepath.Clean(tmpPath))
	if err != nil {
		return 0, errors.Wrapf(err, "couldn't create temporary download file at %s", tmpPath)
	}
	size, err := io.Copy(file, res.Body)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "couldn't close temporary download file %s", tmpPath)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, errors.Wrapf(err, "couldn't download %s to %s", url, tmpPath)
	}

	if err = os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, errors.Wrapf(
			err, "couldn't commit completed download from %s to %s", tmpPath, outputPath,
		)
	}
	return size, nil
}
