package comicinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := Decode([]byte(`<?xml version="1.0"?><ComicInfo>` + body + `</ComicInfo>`))
	require.NoError(t, err)
	return doc
}

func TestNormalizeScalarsFirstOccurrenceWins(t *testing.T) {
	doc := decode(t, `
		<Series>Firefly</Series>
		<Series>Serenity</Series>
		<Title>  The Sting  </Title>
		<Number>3</Number>
	`)

	md := Normalize(doc)
	require.NotNil(t, md.SeriesName)
	assert.Equal(t, "Firefly", *md.SeriesName)
	require.NotNil(t, md.Title)
	assert.Equal(t, "The Sting", *md.Title)
	require.NotNil(t, md.IssueNumber)
	assert.Equal(t, "3", *md.IssueNumber)
	assert.Nil(t, md.Summary)
}

func TestNormalizeIntegerCoercion(t *testing.T) {
	doc := decode(t, `<Count>12</Count><AlternateCount>not a number</AlternateCount>`)

	md := Normalize(doc)
	require.NotNil(t, md.Count)
	assert.Equal(t, 12, *md.Count)
	assert.Nil(t, md.AlternateCount)
}

func TestNormalizeMangaEnum(t *testing.T) {
	tests := []struct {
		value string
		want  *string
	}{
		{"Yes", strPtr("Yes")},
		{"YesAndRightToLeft", strPtr("YesAndRightToLeft")},
		{"Maybe", nil},
		{"yes", nil}, // case matters for enum membership
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			md := Normalize(decode(t, "<Manga>"+tt.value+"</Manga>"))
			if tt.want == nil {
				assert.Nil(t, md.Manga)
				return
			}
			require.NotNil(t, md.Manga)
			assert.Equal(t, *tt.want, *md.Manga)
		})
	}
}

func TestNormalizeAgeRatingEnum(t *testing.T) {
	md := Normalize(decode(t, `<AgeRating>Mature 17+</AgeRating>`))
	require.NotNil(t, md.AgeRating)
	assert.Equal(t, "Mature 17+", *md.AgeRating)

	md = Normalize(decode(t, `<AgeRating>Super Mature</AgeRating>`))
	assert.Nil(t, md.AgeRating)
}

func TestNormalizeRatingBoundaries(t *testing.T) {
	tests := []struct {
		value string
		want  *float64
	}{
		{"5.00", floatPtr(5)},
		{"0.00", floatPtr(0)},
		{"4.5", floatPtr(4.5)},
		{"4", floatPtr(4)},
		{"5.01", nil},
		{"3.456", nil}, // three fractional digits
		{"-1", nil},
		{"five", nil},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			md := Normalize(decode(t, "<Rating>"+tt.value+"</Rating>"))
			if tt.want == nil {
				assert.Nil(t, md.Rating)
				return
			}
			require.NotNil(t, md.Rating)
			assert.InDelta(t, *tt.want, *md.Rating, 0.0001)
		})
	}
}

func TestNormalizeCommunityRatingFallback(t *testing.T) {
	md := Normalize(decode(t, `<CommunityRating>3.5</CommunityRating>`))
	require.NotNil(t, md.Rating)
	assert.InDelta(t, 3.5, *md.Rating, 0.0001)

	// The explicit Rating tag wins over CommunityRating.
	md = Normalize(decode(t, `<Rating>2</Rating><CommunityRating>3.5</CommunityRating>`))
	require.NotNil(t, md.Rating)
	assert.InDelta(t, 2, *md.Rating, 0.0001)
}

func TestNormalizePublicationDate(t *testing.T) {
	md := Normalize(decode(t, `<Year>2019</Year><Month>3</Month><Day>15</Day>`))
	require.NotNil(t, md.PublicationDate)
	assert.Equal(t, time.Date(2019, time.March, 15, 0, 0, 0, 0, time.UTC), *md.PublicationDate)

	// Partial dates yield nil.
	md = Normalize(decode(t, `<Year>2019</Year><Month>3</Month>`))
	assert.Nil(t, md.PublicationDate)

	md = Normalize(decode(t, `<Year>2019</Year><Month>March</Month><Day>15</Day>`))
	assert.Nil(t, md.PublicationDate)
}

func TestNormalizePageCountFallback(t *testing.T) {
	md := Normalize(decode(t, `<PageCount>22</PageCount>`))
	require.NotNil(t, md.PageCount)
	assert.Equal(t, 22, *md.PageCount)

	// No explicit tag: count the Page children.
	md = Normalize(decode(t, `<Pages><Page Image="0"/><Page Image="1"/><Page Image="2"/></Pages>`))
	require.NotNil(t, md.PageCount)
	assert.Equal(t, 3, *md.PageCount)

	// A present but non-numeric tag is nil, not a fallback.
	md = Normalize(decode(t, `<PageCount>lots</PageCount><Pages><Page Image="0"/></Pages>`))
	assert.Nil(t, md.PageCount)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Greg Pak", "Dan McDaid"}, SplitList("Greg Pak, Dan McDaid"))
	assert.Equal(t, []string{"Solo"}, SplitList("Solo"))
	assert.Equal(t, []string{"A", "B"}, SplitList(" A ,, B , "))
	assert.Empty(t, SplitList("  ,  "))
}

func TestCreditsOrder(t *testing.T) {
	md := Normalize(decode(t, `<Writer>Greg Pak</Writer><Editor>Jeanine Schaefer</Editor>`))

	credits := md.Credits()
	require.Len(t, credits, 7)
	assert.Equal(t, "writer", credits[0].RoleKind)
	require.NotNil(t, credits[0].Names)
	assert.Equal(t, "Greg Pak", *credits[0].Names)
	assert.Equal(t, "editor", credits[6].RoleKind)
	assert.Nil(t, credits[1].Names)
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
