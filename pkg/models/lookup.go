package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Lookup is the shared shape of every name-keyed lookup table (publishers,
// imprints, formats, languages, manga settings, genres, characters, teams,
// locations, story arcs, series groups). The target table is picked per query
// with ModelTableExpr. Code is only persisted for languages, where it holds
// the ISO code from the embedded document.
type Lookup struct {
	bun.BaseModel `bun:"table:comic_publishers,alias:l"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",nullzero" json:"name"`
	Code      *string   `json:"code,omitempty"`
}
