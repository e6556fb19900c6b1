package migrations

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// The name-keyed lookup tables all share the same shape. Languages
// additionally carry an ISO code column, added below.
var lookupTables = []string{
	"comic_publishers",
	"comic_imprints",
	"comic_formats",
	"comic_languages",
	"comic_manga_settings",
	"comic_genres",
	"comic_characters",
	"comic_teams",
	"comic_locations",
	"comic_story_arcs",
	"comic_series_groups",
}

// The metadata↔lookup junction tables also share one shape.
var metadataJunctionTables = map[string]string{
	"comic_metadata_genres":        "comic_genres",
	"comic_metadata_characters":    "comic_characters",
	"comic_metadata_teams":         "comic_teams",
	"comic_metadata_locations":     "comic_locations",
	"comic_metadata_story_arcs":    "comic_story_arcs",
	"comic_metadata_series_groups": "comic_series_groups",
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE comic_files (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				file_name TEXT NOT NULL,
				file_path TEXT NOT NULL,
				file_hash TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_files_file_hash ON comic_files (file_hash)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_files_file_path ON comic_files (file_path)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_folders (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				folder_path TEXT NOT NULL,
				folder_hash TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_folders_folder_hash ON comic_folders (folder_hash)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_folders_folder_path ON comic_folders (folder_path)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				year INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		// SQLite treats NULLs as distinct in unique indexes, so a yearless
		// series needs its own partial index to stay unique.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_series_name_year ON comic_series (name, year) WHERE year IS NOT NULL`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_series_name_no_year ON comic_series (name) WHERE year IS NULL`)
		if err != nil {
			return errors.WithStack(err)
		}

		for _, table := range lookupTables {
			_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)
`, table))
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = db.Exec(fmt.Sprintf(`CREATE UNIQUE INDEX ux_%s_name ON %s (name)`, table, table))
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = db.Exec(`ALTER TABLE comic_languages ADD COLUMN code TEXT`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				role_kind TEXT NOT NULL,
				person_name TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_roles_kind_person ON comic_roles (role_kind, person_name)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_metadata (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				comic_file_id INTEGER REFERENCES comic_files (id) NOT NULL,
				series_name TEXT,
				title TEXT,
				issue_number TEXT,
				count INTEGER,
				volume TEXT,
				alternate_series_name TEXT,
				alternate_issue_number TEXT,
				alternate_count INTEGER,
				summary TEXT,
				notes TEXT,
				publication_date TIMESTAMPTZ,
				web TEXT,
				page_count INTEGER,
				scan_information TEXT,
				black_and_white TEXT,
				age_rating TEXT,
				rating REAL,
				publisher_id INTEGER REFERENCES comic_publishers (id),
				imprint_id INTEGER REFERENCES comic_imprints (id),
				format_id INTEGER REFERENCES comic_formats (id),
				language_id INTEGER REFERENCES comic_languages (id),
				manga_setting_id INTEGER REFERENCES comic_manga_settings (id)
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_metadata_comic_file_id ON comic_metadata (comic_file_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_metadata_roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				metadata_id INTEGER REFERENCES comic_metadata (id) NOT NULL,
				role_id INTEGER REFERENCES comic_roles (id) NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_metadata_roles_pair ON comic_metadata_roles (metadata_id, role_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		for junction, lookup := range metadataJunctionTables {
			_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				metadata_id INTEGER REFERENCES comic_metadata (id) NOT NULL,
				lookup_id INTEGER REFERENCES %s (id) NOT NULL
			)
`, junction, lookup))
			if err != nil {
				return errors.WithStack(err)
			}
			_, err = db.Exec(fmt.Sprintf(`CREATE UNIQUE INDEX ux_%s_pair ON %s (metadata_id, lookup_id)`, junction, junction))
			if err != nil {
				return errors.WithStack(err)
			}
		}

		_, err = db.Exec(`
			CREATE TABLE comic_folder_series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				folder_id INTEGER REFERENCES comic_folders (id) NOT NULL,
				series_id INTEGER REFERENCES comic_series (id) NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_folder_series_pair ON comic_folder_series (folder_id, series_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE comic_file_series (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				file_id INTEGER REFERENCES comic_files (id) NOT NULL,
				series_id INTEGER REFERENCES comic_series (id) NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_comic_file_series_pair ON comic_file_series (file_id, series_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"comic_file_series",
			"comic_folder_series",
			"comic_metadata_roles",
			"comic_metadata",
			"comic_roles",
			"comic_series",
			"comic_folders",
			"comic_files",
		}
		for junction := range metadataJunctionTables {
			tables = append([]string{junction}, tables...)
		}
		tables = append(tables, lookupTables...)
		for _, table := range tables {
			_, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table))
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
