// Package metadata persists normalized ComicInfo records and the junction
// rows that attach credits and lookup entities to them.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/longboxlabs/longbox/pkg/comicinfo"
	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/lookups"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// junctionTables maps each lookup table to its metadata junction table.
// Publishers, imprints, formats, languages, and manga settings hang off the
// metadata row directly and have no junction.
var junctionTables = map[string]string{
	lookups.Genres.Table:       "comic_metadata_genres",
	lookups.Characters.Table:   "comic_metadata_characters",
	lookups.Teams.Table:        "comic_metadata_teams",
	lookups.Locations.Table:    "comic_metadata_locations",
	lookups.StoryArcs.Table:    "comic_metadata_story_arcs",
	lookups.SeriesGroups.Table: "comic_metadata_series_groups",
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Validate enforces the value constraints the typed columns can't express.
// Normalization already discards out-of-range values coming from a document;
// this guards rows assembled any other way.
func (svc *Service) Validate(md *models.Metadata) error {
	if md.Rating != nil && !comicinfo.IsValidRating(*md.Rating) {
		return errcodes.ValidationTypeError(fmt.Sprintf("Rating %v must be between 0 and 5 with at most two decimal places.", *md.Rating))
	}
	if md.BlackAndWhite != nil && !comicinfo.IsValidYesNo(*md.BlackAndWhite) {
		return errcodes.ValidationTypeError("BlackAndWhite must be one of Yes, No, or Unknown.")
	}
	if md.AgeRating != nil && !comicinfo.IsValidAgeRating(*md.AgeRating) {
		return errcodes.ValidationTypeError("AgeRating " + *md.AgeRating + " is not a recognized rating.")
	}
	return nil
}

func (svc *Service) RetrieveByFileID(ctx context.Context, fileID int) (*models.Metadata, error) {
	md := &models.Metadata{}

	err := svc.db.
		NewSelect().
		Model(md).
		Where("cm.comic_file_id = ?", fileID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Metadata")
		}
		return nil, errors.WithStack(err)
	}

	return md, nil
}

// Upsert writes the metadata row for md.ComicFileID, replacing every field of
// an existing row so that a changed document is reflected in full.
func (svc *Service) Upsert(ctx context.Context, md *models.Metadata) error {
	if err := svc.Validate(md); err != nil {
		return err
	}

	now := time.Now()
	md.CreatedAt = now
	md.UpdatedAt = now

	_, err := svc.db.
		NewInsert().
		Model(md).
		On("CONFLICT (comic_file_id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("series_name = EXCLUDED.series_name").
		Set("title = EXCLUDED.title").
		Set("issue_number = EXCLUDED.issue_number").
		Set("count = EXCLUDED.count").
		Set("volume = EXCLUDED.volume").
		Set("alternate_series_name = EXCLUDED.alternate_series_name").
		Set("alternate_issue_number = EXCLUDED.alternate_issue_number").
		Set("alternate_count = EXCLUDED.alternate_count").
		Set("summary = EXCLUDED.summary").
		Set("notes = EXCLUDED.notes").
		Set("publication_date = EXCLUDED.publication_date").
		Set("web = EXCLUDED.web").
		Set("page_count = EXCLUDED.page_count").
		Set("scan_information = EXCLUDED.scan_information").
		Set("black_and_white = EXCLUDED.black_and_white").
		Set("age_rating = EXCLUDED.age_rating").
		Set("rating = EXCLUDED.rating").
		Set("main_character_or_team = EXCLUDED.main_character_or_team").
		Set("review = EXCLUDED.review").
		Set("publisher_id = EXCLUDED.publisher_id").
		Set("imprint_id = EXCLUDED.imprint_id").
		Set("format_id = EXCLUDED.format_id").
		Set("language_id = EXCLUDED.language_id").
		Set("manga_setting_id = EXCLUDED.manga_setting_id").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// AttachRole links a credit to the metadata row, ignoring duplicates. The
// bool reports whether a new junction row was written.
func (svc *Service) AttachRole(ctx context.Context, metadataID, roleID int) (bool, error) {
	junction := &models.MetadataRole{
		MetadataID: metadataID,
		RoleID:     roleID,
	}

	err := svc.db.
		NewInsert().
		Model(junction).
		Column("metadata_id", "role_id").
		On("CONFLICT (metadata_id, role_id) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, errors.WithStack(err)
}

// AttachLookup links a list-valued lookup entity (genre, character, team,
// location, story arc, series group) to the metadata row.
func (svc *Service) AttachLookup(ctx context.Context, kind lookups.Kind, metadataID, lookupID int) (bool, error) {
	junctionTable, ok := junctionTables[kind.Table]
	if !ok {
		return false, errors.Errorf("%s has no metadata junction table", kind.Label)
	}

	junction := &models.MetadataLookup{
		MetadataID: metadataID,
		LookupID:   lookupID,
	}

	err := svc.db.
		NewInsert().
		Model(junction).
		ModelTableExpr(junctionTable+" AS cml").
		Column("metadata_id", "lookup_id").
		On("CONFLICT (metadata_id, lookup_id) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, errors.WithStack(err)
}
