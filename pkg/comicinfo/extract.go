package comicinfo

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Detect reports whether the archive at path contains a sidecar document.
// Corrupt or unreadable archives (including rar-based ones, which the zip
// reader cannot open) report false rather than failing.
func Detect(path string) bool {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false
	}
	defer zr.Close()

	for _, file := range zr.File {
		if strings.EqualFold(file.Name, EntryName) {
			return true
		}
	}
	return false
}

// Extract returns the raw bytes of the sidecar document, or (nil, nil) when
// the archive has none. Only a read failure of an entry that does exist is an
// error; an unopenable archive is treated as having no metadata.
func Extract(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil
	}
	defer zr.Close()

	for _, file := range zr.File {
		if !strings.EqualFold(file.Name, EntryName) {
			continue
		}
		r, err := file.Open()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return data, nil
	}

	return nil, nil
}
