package testgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// GenerateCBZ creates a valid CBZ archive at dir/filename containing page
// images (000.png, 001.png, ...) and, when requested, a ComicInfo.xml built
// from opts. It returns the archive path.
func GenerateCBZ(t *testing.T, dir, filename string, opts CBZOptions) string {
	t.Helper()

	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create CBZ file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	pageCount := opts.PageCount
	if pageCount <= 0 {
		pageCount = 3
	}

	if opts.RawComicInfo != "" {
		if err := writeZipFile(zw, "ComicInfo.xml", []byte(opts.RawComicInfo)); err != nil {
			t.Fatalf("failed to write ComicInfo.xml: %v", err)
		}
	} else if opts.HasComicInfo {
		if err := writeZipFile(zw, "ComicInfo.xml", []byte(generateComicInfo(opts, pageCount))); err != nil {
			t.Fatalf("failed to write ComicInfo.xml: %v", err)
		}
	}

	for i := 0; i < pageCount; i++ {
		imgName := fmt.Sprintf("%03d.png", i)
		if err := writeZipFile(zw, imgName, generateImage(t)); err != nil {
			t.Fatalf("failed to write page %s: %v", imgName, err)
		}
	}

	return path
}

// GenerateCorruptCBZ writes a file with a .cbz extension that is not a valid
// zip archive.
func GenerateCorruptCBZ(t *testing.T, dir, filename string) string {
	t.Helper()
	return WriteFile(t, dir, filename, []byte("this is not a zip archive"))
}

func generateComicInfo(opts CBZOptions, pageCount int) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<ComicInfo>
`)

	writeTag := func(tag, value string) {
		if value != "" {
			buf.WriteString(fmt.Sprintf("  <%s>%s</%s>\n", tag, escapeXML(value), tag))
		}
	}
	writeIntTag := func(tag string, value *int) {
		if value != nil {
			buf.WriteString(fmt.Sprintf("  <%s>%d</%s>\n", tag, *value, tag))
		}
	}

	writeTag("Title", opts.Title)
	writeTag("Series", opts.Series)
	writeTag("Number", opts.Number)
	writeTag("Volume", opts.Volume)
	writeIntTag("Count", opts.Count)
	writeIntTag("Year", opts.Year)
	writeIntTag("Month", opts.Month)
	writeIntTag("Day", opts.Day)
	writeTag("Writer", opts.Writer)
	writeTag("Penciller", opts.Penciller)
	writeTag("Inker", opts.Inker)
	writeTag("Colorist", opts.Colorist)
	writeTag("Letterer", opts.Letterer)
	writeTag("CoverArtist", opts.CoverArtist)
	writeTag("Editor", opts.Editor)
	writeTag("Publisher", opts.Publisher)
	writeTag("Imprint", opts.Imprint)
	writeTag("Genre", opts.Genre)
	writeTag("Characters", opts.Characters)
	writeTag("Teams", opts.Teams)
	writeTag("Locations", opts.Locations)
	writeTag("StoryArc", opts.StoryArc)
	writeTag("SeriesGroup", opts.SeriesGroup)
	writeTag("LanguageISO", opts.LanguageISO)
	writeTag("Format", opts.Format)
	writeTag("Manga", opts.Manga)
	writeTag("AgeRating", opts.AgeRating)
	writeTag("Rating", opts.Rating)
	writeTag("Summary", opts.Summary)

	if !opts.OmitPageCountTag {
		buf.WriteString(fmt.Sprintf("  <PageCount>%d</PageCount>\n", pageCount))
	}

	if opts.WritePagesBlock {
		buf.WriteString("  <Pages>\n")
		for i := 0; i < pageCount; i++ {
			buf.WriteString(fmt.Sprintf("    <Page Image=\"%d\"/>\n", i))
		}
		buf.WriteString("  </Pages>\n")
	}

	buf.WriteString("</ComicInfo>")

	return buf.String()
}

func generateImage(t *testing.T) []byte {
	t.Helper()

	// A small solid-color page is enough for mimetype detection.
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill := color.RGBA{R: 40, G: 40, B: 80, A: 255}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func writeZipFile(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '\'':
			buf.WriteString("&apos;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
