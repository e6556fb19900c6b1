// Package scanner discovers comic archive files under a root directory.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Archive container formats we catalog, with the mime types we expect the
// content to actually be. Files matching an extension but not its mime type
// are skipped with a warning, since any file can carry any extension.
var archiveExtensions = map[string]map[string]struct{}{
	".cbz": {"application/zip": {}},
	".zip": {"application/zip": {}},
	".cbr": {"application/x-rar-compressed": {}, "application/vnd.rar": {}},
	".rar": {"application/x-rar-compressed": {}, "application/vnd.rar": {}},
	".cb7": {"application/x-7z-compressed": {}},
}

// Result holds the archive files found under the root and the distinct
// directories that directly contain at least one of them.
type Result struct {
	Files   []string
	Folders []string
}

// Scan walks the tree rooted at root and returns every archive file plus the
// set of parent directories. A missing root is a PathNotFound error; a root
// with no archives is an empty result, not an error.
func Scan(ctx context.Context, root string) (*Result, error) {
	log := logger.FromContext(ctx)

	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errcodes.PathNotFound(root)
		}
		return nil, errors.WithStack(err)
	}

	result := &Result{Files: make([]string, 0)}
	folders := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() {
			return nil
		}

		expectedMimeTypes, ok := archiveExtensions[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			log.Warn("can't detect the mime type of a file with an archive extension", logger.Data{"path": path, "err": err.Error()})
			return nil
		}
		if _, ok := expectedMimeTypes[mtype.String()]; !ok {
			log.Warn("mime type is not expected for extension", logger.Data{"path": path, "mimetype": mtype.String()})
			return nil
		}

		result.Files = append(result.Files, path)
		folders[filepath.Dir(path)] = struct{}{}

		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result.Folders = make([]string, 0, len(folders))
	for folder := range folders {
		result.Folders = append(result.Folders, folder)
	}
	sort.Strings(result.Folders)

	return result, nil
}
