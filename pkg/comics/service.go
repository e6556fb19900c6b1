// Package comics persists archive files, their folders, and the mappings
// that tie both to series.
package comics

import (
	"context"
	"database/sql"
	"time"

	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveFileOptions struct {
	ID              *int
	FileHash        *string
	FilePath        *string
	IncludeMetadata bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveFile(ctx context.Context, opts RetrieveFileOptions) (*models.ComicFile, error) {
	file := &models.ComicFile{}

	q := svc.db.NewSelect().Model(file)
	if opts.ID != nil {
		q = q.Where("cf.id = ?", *opts.ID)
	}
	if opts.FileHash != nil {
		q = q.Where("cf.file_hash = ?", *opts.FileHash)
	}
	if opts.FilePath != nil {
		q = q.Where("cf.file_path = ?", *opts.FilePath)
	}
	if opts.IncludeMetadata {
		q = q.Relation("Metadata")
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Comic file")
		}
		return nil, errors.WithStack(err)
	}

	return file, nil
}

// CreateFile inserts the archive record. Content hash is the identity, so a
// concurrent worker hashing identical bytes loses the insert and gets the
// existing row back. The bool reports whether a row was created.
func (svc *Service) CreateFile(ctx context.Context, file *models.ComicFile) (*models.ComicFile, bool, error) {
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	err := svc.db.
		NewInsert().
		Model(file).
		Column("created_at", "updated_at", "file_name", "file_path", "file_hash").
		On("CONFLICT (file_hash) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return file, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	existing, err := svc.RetrieveFile(ctx, RetrieveFileOptions{FileHash: &file.FileHash})
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateFileHash replaces a file's stored content hash, used when the bytes
// at an already-registered path have changed.
func (svc *Service) UpdateFileHash(ctx context.Context, fileID int, fileHash string) error {
	_, err := svc.db.
		NewUpdate().
		Model((*models.ComicFile)(nil)).
		Set("file_hash = ?, updated_at = ?", fileHash, time.Now()).
		Where("id = ?", fileID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// FindOrCreateFolder resolves a folder by its path hash.
func (svc *Service) FindOrCreateFolder(ctx context.Context, folderPath, folderHash string) (*models.ComicFolder, bool, error) {
	now := time.Now()
	folder := &models.ComicFolder{
		CreatedAt:  now,
		UpdatedAt:  now,
		FolderPath: folderPath,
		FolderHash: folderHash,
	}

	err := svc.db.
		NewInsert().
		Model(folder).
		Column("created_at", "updated_at", "folder_path", "folder_hash").
		On("CONFLICT (folder_hash) DO NOTHING").
		Returning("id").
		Scan(ctx)
	if err == nil {
		return folder, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	existing := &models.ComicFolder{}
	err = svc.db.
		NewSelect().
		Model(existing).
		Where("cfo.folder_hash = ?", folderHash).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, errcodes.NotFound("Comic folder")
		}
		return nil, false, errors.WithStack(err)
	}
	return existing, false, nil
}

// MapFileToSeries records the file↔series pair, ignoring duplicates. The bool
// reports whether a new mapping row was written.
func (svc *Service) MapFileToSeries(ctx context.Context, fileID, seriesID int) (bool, error) {
	mapping := &models.FileSeries{
		FileID:   fileID,
		SeriesID: seriesID,
	}

	err := svc.db.
		NewInsert().
		Model(mapping).
		Column("file_id", "series_id").
		On("CONFLICT (file_id, series_id) DO NOTHING").
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

// MapFolderToSeries records the folder↔series pair, ignoring duplicates.
func (svc *Service) MapFolderToSeries(ctx context.Context, folderID, seriesID int) (bool, error) {
	mapping := &models.FolderSeries{
		FolderID: folderID,
		SeriesID: seriesID,
	}

	err := svc.db.
		NewInsert().
		Model(mapping).
		Column("folder_id", "series_id").
		On("CONFLICT (folder_id, series_id) DO NOTHING").
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
