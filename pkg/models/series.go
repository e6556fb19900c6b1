package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Series is unique on (name, year). The same name with a different year is a
// distinct series, which is how reboots and new volumes are kept apart. Year
// may be unknown when the fallback parser found no (YYYY) marker.
type Series struct {
	bun.BaseModel `bun:"table:comic_series,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	Year      *int      `json:"year"`
}

type FolderSeries struct {
	bun.BaseModel `bun:"table:comic_folder_series,alias:cfs"`

	ID       int `bun:",pk,nullzero" json:"id"`
	FolderID int `bun:",nullzero" json:"folder_id"`
	SeriesID int `bun:",nullzero" json:"series_id"`
}

type FileSeries struct {
	bun.BaseModel `bun:"table:comic_file_series,alias:cfls"`

	ID       int `bun:",pk,nullzero" json:"id"`
	FileID   int `bun:",nullzero" json:"file_id"`
	SeriesID int `bun:",nullzero" json:"series_id"`
}
