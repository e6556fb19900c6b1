package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Role kinds for ComicInfo.xml creator credits.
const (
	RoleKindWriter      = "writer"
	RoleKindPenciller   = "penciller"
	RoleKindInker       = "inker"
	RoleKindColorist    = "colorist"
	RoleKindLetterer    = "letterer"
	RoleKindCoverArtist = "cover_artist"
	RoleKindEditor      = "editor"
)

// RoleKinds lists every valid role kind in credit order.
var RoleKinds = []string{
	RoleKindWriter,
	RoleKindPenciller,
	RoleKindInker,
	RoleKindColorist,
	RoleKindLetterer,
	RoleKindCoverArtist,
	RoleKindEditor,
}

// IsValidRoleKind reports whether kind is one of the known creator roles.
func IsValidRoleKind(kind string) bool {
	for _, k := range RoleKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Role identity is the pair (role kind, person name): the same person can be
// both writer and editor, as two rows.
type Role struct {
	bun.BaseModel `bun:"table:comic_roles,alias:r"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	RoleKind   string    `bun:",nullzero" json:"role_kind"`
	PersonName string    `bun:",nullzero" json:"person_name"`
}
