// Package lookups resolves names against the lookup tables with idempotent
// find-or-create semantics.
package lookups

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Kind identifies one lookup table.
type Kind struct {
	Table string
	Label string
}

var (
	Publishers    = Kind{"comic_publishers", "Publisher"}
	Imprints      = Kind{"comic_imprints", "Imprint"}
	Formats       = Kind{"comic_formats", "Format"}
	Languages     = Kind{"comic_languages", "Language"}
	MangaSettings = Kind{"comic_manga_settings", "Manga setting"}
	Genres        = Kind{"comic_genres", "Genre"}
	Characters    = Kind{"comic_characters", "Character"}
	Teams         = Kind{"comic_teams", "Team"}
	Locations     = Kind{"comic_locations", "Location"}
	StoryArcs     = Kind{"comic_story_arcs", "Story arc"}
	SeriesGroups  = Kind{"comic_series_groups", "Series group"}
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Retrieve returns the lookup row for name, or NotFound.
func (svc *Service) Retrieve(ctx context.Context, kind Kind, name string) (*models.Lookup, error) {
	lookup := &models.Lookup{}

	// Only comic_languages has a code column, so the select names its columns
	// instead of relying on the shared model's full column list.
	columns := []string{"id", "created_at", "updated_at", "name"}
	if kind == Languages {
		columns = append(columns, "code")
	}

	err := svc.db.
		NewSelect().
		Model(lookup).
		ModelTableExpr(kind.Table+" AS l").
		Column(columns...).
		Where("l.name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound(kind.Label)
		}
		return nil, errors.WithStack(err)
	}

	return lookup, nil
}

// FindOrCreate resolves name to a lookup row, creating it on first
// observation. The insert uses ON CONFLICT DO NOTHING so that concurrent
// resolutions of the same new name cannot double-create; the loser of the
// race falls back to a select. The bool reports whether a row was created.
func (svc *Service) FindOrCreate(ctx context.Context, kind Kind, name string) (*models.Lookup, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New(kind.Label + " name cannot be empty")
	}

	now := time.Now()
	lookup := &models.Lookup{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
	}

	err := svc.db.
		NewInsert().
		Model(lookup).
		ModelTableExpr(kind.Table + " AS l").
		Column("created_at", "updated_at", "name").
		On("CONFLICT (name) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return lookup, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	// The name already existed; fetch the winner's row.
	existing, err := svc.Retrieve(ctx, kind, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindOrCreateLanguage resolves an ISO language code, storing the English
// display name alongside the code ("en" becomes "English"). Codes that don't
// parse keep the raw value as the name.
func (svc *Service) FindOrCreateLanguage(ctx context.Context, code string) (*models.Lookup, bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false, errors.New("Language code cannot be empty")
	}

	name := code
	if tag, err := language.Parse(code); err == nil {
		if displayName := display.English.Languages().Name(tag); displayName != "" {
			name = displayName
		}
	}

	now := time.Now()
	lookup := &models.Lookup{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
		Code:      &code,
	}

	err := svc.db.
		NewInsert().
		Model(lookup).
		ModelTableExpr(Languages.Table+" AS l").
		Column("created_at", "updated_at", "name", "code").
		On("CONFLICT (name) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return lookup, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	existing, err := svc.Retrieve(ctx, Languages, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindOrCreateRole resolves a creator credit. Role identity is the pair
// (role kind, person name), not the name alone.
func (svc *Service) FindOrCreateRole(ctx context.Context, roleKind, personName string) (*models.Role, bool, error) {
	personName = strings.TrimSpace(personName)
	if personName == "" {
		return nil, false, errors.New("person name cannot be empty")
	}
	if !models.IsValidRoleKind(roleKind) {
		return nil, false, errcodes.ValidationError("Unknown role kind " + roleKind + ".")
	}

	now := time.Now()
	role := &models.Role{
		CreatedAt:  now,
		UpdatedAt:  now,
		RoleKind:   roleKind,
		PersonName: personName,
	}

	err := svc.db.
		NewInsert().
		Model(role).
		On("CONFLICT (role_kind, person_name) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return role, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	existing := &models.Role{}
	err = svc.db.
		NewSelect().
		Model(existing).
		Where("r.role_kind = ? AND r.person_name = ?", roleKind, personName).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, errcodes.NotFound("Role")
		}
		return nil, false, errors.WithStack(err)
	}
	return existing, false, nil
}
