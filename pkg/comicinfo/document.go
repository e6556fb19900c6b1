// Package comicinfo reads the ComicInfo.xml sidecar document embedded in
// zip-based comic archives and normalizes it into a typed metadata record.
package comicinfo

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// EntryName is the fixed name of the sidecar document inside an archive,
// matched case-insensitively.
const EntryName = "comicinfo.xml"

// Document is the raw decoded sidecar. The format allows any tag to repeat,
// so every field is a value list; Normalize picks the first occurrence. This
// loosely-typed shape never escapes this package.
type Document struct {
	XMLName xml.Name `xml:"ComicInfo"`

	Title           []string `xml:"Title"`
	Series          []string `xml:"Series"`
	Number          []string `xml:"Number"`
	Count           []string `xml:"Count"`
	Volume          []string `xml:"Volume"`
	AlternateSeries []string `xml:"AlternateSeries"`
	AlternateNumber []string `xml:"AlternateNumber"`
	AlternateCount  []string `xml:"AlternateCount"`
	Summary         []string `xml:"Summary"`
	Notes           []string `xml:"Notes"`
	Year            []string `xml:"Year"`
	Month           []string `xml:"Month"`
	Day             []string `xml:"Day"`

	Writer      []string `xml:"Writer"`
	Penciller   []string `xml:"Penciller"`
	Inker       []string `xml:"Inker"`
	Colorist    []string `xml:"Colorist"`
	Letterer    []string `xml:"Letterer"`
	CoverArtist []string `xml:"CoverArtist"`
	Editor      []string `xml:"Editor"`

	Publisher           []string `xml:"Publisher"`
	Imprint             []string `xml:"Imprint"`
	Genre               []string `xml:"Genre"`
	Web                 []string `xml:"Web"`
	PageCount           []string `xml:"PageCount"`
	LanguageISO         []string `xml:"LanguageISO"`
	Format              []string `xml:"Format"`
	BlackAndWhite       []string `xml:"BlackAndWhite"`
	Manga               []string `xml:"Manga"`
	Characters          []string `xml:"Characters"`
	Teams               []string `xml:"Teams"`
	Locations           []string `xml:"Locations"`
	ScanInformation     []string `xml:"ScanInformation"`
	StoryArc            []string `xml:"StoryArc"`
	SeriesGroup         []string `xml:"SeriesGroup"`
	AgeRating           []string `xml:"AgeRating"`
	Rating              []string `xml:"Rating"`
	CommunityRating     []string `xml:"CommunityRating"`
	MainCharacterOrTeam []string `xml:"MainCharacterOrTeam"`
	Review              []string `xml:"Review"`

	Pages []Pages `xml:"Pages"`
}

type Pages struct {
	Page []Page `xml:"Page"`
}

type Page struct {
	Image string `xml:"Image,attr"`
	Type  string `xml:"Type,attr"`
}

// Decode parses raw sidecar bytes into a Document.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := xml.Unmarshal(data, doc); err != nil {
		return nil, errors.WithStack(err)
	}
	return doc, nil
}
