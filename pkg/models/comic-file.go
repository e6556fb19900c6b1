package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ComicFile is one archive on disk. FileHash is the dedup identity: the same
// bytes at a new path are still the same ComicFile.
type ComicFile struct {
	bun.BaseModel `bun:"table:comic_files,alias:cf"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	FileName  string    `bun:",nullzero" json:"file_name"`
	FilePath  string    `bun:",nullzero" json:"file_path"`
	FileHash  string    `bun:",nullzero" json:"file_hash"`
	Metadata  *Metadata `bun:"rel:has-one,join:id=comic_file_id" json:"metadata,omitempty"`
}
