package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Metadata is the persisted form of an archive's embedded ComicInfo document.
// At most one row exists per ComicFile; re-ingesting a file whose document
// changed updates the row in place.
type Metadata struct {
	bun.BaseModel `bun:"table:comic_metadata,alias:cm"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ComicFileID int       `bun:",nullzero" json:"comic_file_id"`

	SeriesName           *string    `json:"series_name"`
	Title                *string    `json:"title"`
	IssueNumber          *string    `json:"issue_number"`
	Count                *int       `json:"count"`
	Volume               *string    `json:"volume"`
	AlternateSeriesName  *string    `json:"alternate_series_name"`
	AlternateIssueNumber *string    `json:"alternate_issue_number"`
	AlternateCount       *int       `json:"alternate_count"`
	Summary              *string    `json:"summary"`
	Notes                *string    `json:"notes"`
	PublicationDate      *time.Time `json:"publication_date"`
	Web                  *string    `json:"web"`
	PageCount            *int       `json:"page_count"`
	ScanInformation      *string    `json:"scan_information"`
	BlackAndWhite        *string    `json:"black_and_white"`
	AgeRating            *string    `json:"age_rating"`
	Rating               *float64   `json:"rating"`
	MainCharacterOrTeam  *string    `json:"main_character_or_team"`
	Review               *string    `json:"review"`

	PublisherID    *int `json:"publisher_id"`
	ImprintID      *int `json:"imprint_id"`
	FormatID       *int `json:"format_id"`
	LanguageID     *int `json:"language_id"`
	MangaSettingID *int `json:"manga_setting_id"`
}

// MetadataRole links a metadata row to one (role kind, person) credit.
type MetadataRole struct {
	bun.BaseModel `bun:"table:comic_metadata_roles,alias:cmr"`

	ID         int `bun:",pk,nullzero" json:"id"`
	MetadataID int `bun:",nullzero" json:"metadata_id"`
	RoleID     int `bun:",nullzero" json:"role_id"`
}

// MetadataLookup is the shared shape of the metadata↔lookup junction tables
// (genres, characters, teams, locations, story arcs, series groups). The
// target table is picked per query with ModelTableExpr.
type MetadataLookup struct {
	bun.BaseModel `bun:"table:comic_metadata_genres,alias:cml"`

	ID         int `bun:",pk,nullzero" json:"id"`
	MetadataID int `bun:",nullzero" json:"metadata_id"`
	LookupID   int `bun:",nullzero" json:"lookup_id"`
}
