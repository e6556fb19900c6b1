// Package hashing produces the identity digests used for deduplication:
// a content hash for archive files and a path hash for folders.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileHash returns the hex-encoded sha256 digest of the file's content.
// Identical bytes always yield an identical digest, regardless of path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.WithStack(err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// FolderHash returns the hex-encoded sha256 digest of the folder path string.
// This is an identity key for folder records, not a content check.
func FolderHash(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}
