package comicinfo

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Permitted values for the enumerated fields. Anything outside the set is
// discarded during normalization, not rejected.
var (
	mangaValues = map[string]struct{}{
		"Unknown":           {},
		"No":                {},
		"Yes":               {},
		"YesAndRightToLeft": {},
	}

	yesNoValues = map[string]struct{}{
		"Yes":     {},
		"No":      {},
		"Unknown": {},
	}

	ageRatingValues = map[string]struct{}{
		"Unknown":         {},
		"Adults Only 18+": {},
		"Early Childhood": {},
		"Everyone":        {},
		"Everyone 10+":    {},
		"G":               {},
		"Kids to Adults":  {},
		"M":               {},
		"MA15+":           {},
		"Mature 17+":      {},
		"PG":              {},
		"R18+":            {},
		"Rating Pending":  {},
		"Teen":            {},
		"X18+":            {},
	}
)

// IsValidManga reports whether v is a permitted Manga value.
func IsValidManga(v string) bool {
	_, ok := mangaValues[v]
	return ok
}

// IsValidYesNo reports whether v is a permitted yes/no value.
func IsValidYesNo(v string) bool {
	_, ok := yesNoValues[v]
	return ok
}

// IsValidAgeRating reports whether v is a permitted age rating.
func IsValidAgeRating(v string) bool {
	_, ok := ageRatingValues[v]
	return ok
}

// IsValidRating reports whether f is a five-star score within [0, 5] carrying
// at most two fractional digits.
func IsValidRating(f float64) bool {
	if f < 0 || f > 5 {
		return false
	}
	scaled := f * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// Metadata is the canonical, fully-nullable record produced from a Document.
// List-valued fields (credits, genres, characters, ...) stay comma-separated
// here and are split into individual names at entity-resolution time.
type Metadata struct {
	SeriesName           *string
	Title                *string
	IssueNumber          *string
	Count                *int
	Volume               *string
	AlternateSeriesName  *string
	AlternateIssueNumber *string
	AlternateCount       *int
	Summary              *string
	Notes                *string
	PublicationDate      *time.Time

	Writer      *string
	Penciller   *string
	Inker       *string
	Colorist    *string
	Letterer    *string
	CoverArtist *string
	Editor      *string

	Publisher           *string
	Imprint             *string
	Genre               *string
	Web                 *string
	PageCount           *int
	LanguageISO         *string
	Format              *string
	BlackAndWhite       *string
	Manga               *string
	Characters          *string
	Teams               *string
	Locations           *string
	ScanInformation     *string
	StoryArc            *string
	SeriesGroup         *string
	AgeRating           *string
	Rating              *float64
	MainCharacterOrTeam *string
	Review              *string
}

// Normalize collapses the repeated-tag document into one canonical record:
// first occurrence wins for scalars, integers coerce to nil on bad input,
// enumerated fields outside their permitted set are discarded, and the
// publication date is only assembled when day, month, and year all exist.
func Normalize(doc *Document) *Metadata {
	md := &Metadata{
		SeriesName:           first(doc.Series),
		Title:                first(doc.Title),
		IssueNumber:          first(doc.Number),
		Count:                firstInt(doc.Count),
		Volume:               first(doc.Volume),
		AlternateSeriesName:  first(doc.AlternateSeries),
		AlternateIssueNumber: first(doc.AlternateNumber),
		AlternateCount:       firstInt(doc.AlternateCount),
		Summary:              first(doc.Summary),
		Notes:                first(doc.Notes),
		PublicationDate:      publicationDate(doc),

		Writer:      first(doc.Writer),
		Penciller:   first(doc.Penciller),
		Inker:       first(doc.Inker),
		Colorist:    first(doc.Colorist),
		Letterer:    first(doc.Letterer),
		CoverArtist: first(doc.CoverArtist),
		Editor:      first(doc.Editor),

		Publisher:           first(doc.Publisher),
		Imprint:             first(doc.Imprint),
		Genre:               first(doc.Genre),
		Web:                 first(doc.Web),
		PageCount:           pageCount(doc),
		LanguageISO:         first(doc.LanguageISO),
		Format:              first(doc.Format),
		BlackAndWhite:       enum(first(doc.BlackAndWhite), yesNoValues),
		Manga:               enum(first(doc.Manga), mangaValues),
		Characters:          first(doc.Characters),
		Teams:               first(doc.Teams),
		Locations:           first(doc.Locations),
		ScanInformation:     first(doc.ScanInformation),
		StoryArc:            first(doc.StoryArc),
		SeriesGroup:         first(doc.SeriesGroup),
		AgeRating:           enum(first(doc.AgeRating), ageRatingValues),
		MainCharacterOrTeam: first(doc.MainCharacterOrTeam),
		Review:              first(doc.Review),
	}

	// Rating is the five-star community score; older documents write it as
	// CommunityRating.
	md.Rating = rating(first(doc.Rating))
	if md.Rating == nil {
		md.Rating = rating(first(doc.CommunityRating))
	}

	return md
}

// Credit is one list-valued creator field paired with its role kind.
type Credit struct {
	RoleKind string
	Names    *string
}

// Credits returns the creator fields in credit order for role resolution.
func (md *Metadata) Credits() []Credit {
	return []Credit{
		{"writer", md.Writer},
		{"penciller", md.Penciller},
		{"inker", md.Inker},
		{"colorist", md.Colorist},
		{"letterer", md.Letterer},
		{"cover_artist", md.CoverArtist},
		{"editor", md.Editor},
	}
}

// SplitList splits a comma-separated list field into trimmed names, dropping
// empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func first(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	if v == "" {
		return nil
	}
	return &v
}

func firstInt(values []string) *int {
	v := first(values)
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		return nil
	}
	return &n
}

func enum(value *string, permitted map[string]struct{}) *string {
	if value == nil {
		return nil
	}
	if _, ok := permitted[*value]; !ok {
		return nil
	}
	return value
}

// rating accepts a value only if it parses as a float within [0, 5] and has
// at most two fractional digits; anything else is discarded.
func rating(value *string) *float64 {
	if value == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*value, 64)
	if err != nil {
		return nil
	}
	if f < 0 || f > 5 {
		return nil
	}
	if dot := strings.IndexByte(*value, '.'); dot >= 0 && len(*value)-dot-1 > 2 {
		return nil
	}
	return &f
}

// publicationDate assembles a date only when day, month, and year are all
// present and numeric; partial dates yield nil.
func publicationDate(doc *Document) *time.Time {
	day := firstInt(doc.Day)
	month := firstInt(doc.Month)
	year := firstInt(doc.Year)
	if day == nil || month == nil || year == nil {
		return nil
	}
	d := time.Date(*year, time.Month(*month), *day, 0, 0, 0, 0, time.UTC)
	return &d
}

// pageCount prefers the explicit tag; when the tag is absent entirely it
// falls back to counting Page children of the first Pages collection. A
// present but non-numeric tag is nil, not a fallback.
func pageCount(doc *Document) *int {
	if len(doc.PageCount) > 0 {
		return firstInt(doc.PageCount)
	}
	if len(doc.Pages) > 0 {
		n := len(doc.Pages[0].Page)
		return &n
	}
	return nil
}
