package comics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/longboxlabs/longbox/pkg/hashing"
	"github.com/longboxlabs/longbox/pkg/migrations"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// Every pooled connection to :memory: is its own database, so keep the
	// pool at one connection.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestServiceCreateFile_DedupsOnHash(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	file, created, err := svc.CreateFile(ctx, &models.ComicFile{
		FileName: "Firefly 001.cbz",
		FilePath: "/comics/Firefly (2019)/Firefly 001.cbz",
		FileHash: "abc123",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, file.ID)

	// Same bytes at a different path is the same file.
	dupe, created, err := svc.CreateFile(ctx, &models.ComicFile{
		FileName: "Firefly 001 (copy).cbz",
		FilePath: "/incoming/Firefly 001 (copy).cbz",
		FileHash: "abc123",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, file.ID, dupe.ID)

	count, err := db.NewSelect().Model((*models.ComicFile)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceRetrieveFile(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.RetrieveFile(ctx, RetrieveFileOptions{FileHash: pointerutil.String("missing")})
	assert.Error(t, err)

	file, _, err := svc.CreateFile(ctx, &models.ComicFile{
		FileName: "Saga 001.cbz",
		FilePath: "/comics/Saga/Saga 001.cbz",
		FileHash: "def456",
	})
	require.NoError(t, err)

	byHash, err := svc.RetrieveFile(ctx, RetrieveFileOptions{FileHash: pointerutil.String("def456")})
	require.NoError(t, err)
	assert.Equal(t, file.ID, byHash.ID)

	byPath, err := svc.RetrieveFile(ctx, RetrieveFileOptions{FilePath: pointerutil.String("/comics/Saga/Saga 001.cbz")})
	require.NoError(t, err)
	assert.Equal(t, file.ID, byPath.ID)
}

func TestServiceUpdateFileHash(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	file, _, err := svc.CreateFile(ctx, &models.ComicFile{
		FileName: "Saga 001.cbz",
		FilePath: "/comics/Saga/Saga 001.cbz",
		FileHash: "before",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateFileHash(ctx, file.ID, "after"))

	// The row now answers to the new hash only, still at the same path.
	_, err = svc.RetrieveFile(ctx, RetrieveFileOptions{FileHash: pointerutil.String("before")})
	assert.Error(t, err)

	updated, err := svc.RetrieveFile(ctx, RetrieveFileOptions{FileHash: pointerutil.String("after")})
	require.NoError(t, err)
	assert.Equal(t, file.ID, updated.ID)
	assert.Equal(t, file.FilePath, updated.FilePath)
}

func TestServiceFindOrCreateFolder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	path := "/comics/Firefly (2019)"
	hash := hashing.FolderHash(path)

	folder, created, err := svc.FindOrCreateFolder(ctx, path, hash)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.FindOrCreateFolder(ctx, path, hash)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, folder.ID, again.ID)
}

func TestServiceSeriesMappings_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	file, _, err := svc.CreateFile(ctx, &models.ComicFile{
		FileName: "Firefly 001.cbz",
		FilePath: "/comics/Firefly (2019)/Firefly 001.cbz",
		FileHash: "abc123",
	})
	require.NoError(t, err)

	folder, _, err := svc.FindOrCreateFolder(ctx, "/comics/Firefly (2019)", hashing.FolderHash("/comics/Firefly (2019)"))
	require.NoError(t, err)

	series := &models.Series{Name: "Firefly", Year: pointerutil.Int(2019)}
	_, err = db.NewInsert().Model(series).Column("name", "year").Returning("id").Exec(ctx)
	require.NoError(t, err)

	created, err := svc.MapFileToSeries(ctx, file.ID, series.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.MapFileToSeries(ctx, file.ID, series.ID)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.MapFolderToSeries(ctx, folder.ID, series.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.MapFolderToSeries(ctx, folder.ID, series.ID)
	require.NoError(t, err)
	assert.False(t, created)
}
