// Package testgen generates CBZ archive fixtures with configurable
// ComicInfo.xml metadata for exercising the ingestion pipeline in tests.
package testgen

import (
	"os"
	"path/filepath"
	"testing"
)

// CBZOptions configures the generated CBZ archive.
type CBZOptions struct {
	HasComicInfo bool // whether to include ComicInfo.xml
	PageCount    int  // defaults to 3

	Title       string
	Series      string
	Number      string
	Volume      string
	Count       *int
	Year        *int
	Month       *int
	Day         *int
	Writer      string
	Penciller   string
	Inker       string
	Colorist    string
	Letterer    string
	CoverArtist string
	Editor      string
	Publisher   string
	Imprint     string
	Genre       string
	Characters  string
	Teams       string
	Locations   string
	StoryArc    string
	SeriesGroup string
	LanguageISO string
	Format      string
	Manga       string
	AgeRating   string
	Rating      string
	Summary     string

	OmitPageCountTag bool // leave the PageCount tag out entirely
	WritePagesBlock  bool // write a <Pages> block with one <Page> per page

	RawComicInfo string // verbatim ComicInfo.xml content, overrides the generated document
}

// CreateSubDir creates a subdirectory within the given parent directory.
func CreateSubDir(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create subdirectory %s: %v", dir, err)
	}
	return dir
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
