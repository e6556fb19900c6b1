package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ComicFolder is a directory that directly contains at least one archive.
// FolderHash is a digest of the folder path string, not of its contents.
type ComicFolder struct {
	bun.BaseModel `bun:"table:comic_folders,alias:cfo"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FolderPath string    `bun:",nullzero" json:"folder_path"`
	FolderHash string    `bun:",nullzero" json:"folder_hash"`
}
