package lookups

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/migrations"
	"github.com/longboxlabs/longbox/pkg/models"
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

func countLookups(ctx context.Context, t *testing.T, db *bun.DB, kind Kind) int {
	t.Helper()

	count, err := db.NewSelect().
		Model((*models.Lookup)(nil)).
		ModelTableExpr(kind.Table + " AS l").
		Count(ctx)
	require.NoError(t, err)

	return count
}

func TestServiceFindOrCreate_CreatesThenFinds(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	publisher, created, err := svc.FindOrCreate(ctx, Publishers, "Dark Horse Comics")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, publisher.ID)

	again, created, err := svc.FindOrCreate(ctx, Publishers, "Dark Horse Comics")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, publisher.ID, again.ID)

	assert.Equal(t, 1, countLookups(ctx, t, db, Publishers))
}

func TestServiceFindOrCreate_KindsAreIndependent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre, created, err := svc.FindOrCreate(ctx, Genres, "Horror")
	require.NoError(t, err)
	assert.True(t, created)

	team, created, err := svc.FindOrCreate(ctx, Teams, "Horror")
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 1, countLookups(ctx, t, db, Genres))
	assert.Equal(t, 1, countLookups(ctx, t, db, Teams))
	assert.Equal(t, genre.Name, team.Name)
}

func TestServiceFindOrCreate_EmptyName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, _, err := svc.FindOrCreate(context.Background(), Characters, "   ")
	assert.Error(t, err)
}

func TestServiceFindOrCreate_Concurrent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]int, 8)
	errs := make([]error, 8)

	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			arc, _, err := svc.FindOrCreate(ctx, StoryArcs, "Infinity Gauntlet")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = arc.ID
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, countLookups(ctx, t, db, StoryArcs))
}

func TestServiceRetrieve_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Retrieve(context.Background(), Imprints, "Vertigo")
	assert.ErrorIs(t, err, errcodes.NotFound("Imprint"))
}

func TestServiceRetrieve_EveryKind(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	kinds := []Kind{
		Publishers, Imprints, Formats, Languages, MangaSettings, Genres,
		Characters, Teams, Locations, StoryArcs, SeriesGroups,
	}
	for _, kind := range kinds {
		created, _, err := svc.FindOrCreate(ctx, kind, "Shared Name")
		require.NoError(t, err, kind.Label)

		found, err := svc.Retrieve(ctx, kind, "Shared Name")
		require.NoError(t, err, kind.Label)
		assert.Equal(t, created.ID, found.ID, kind.Label)

		// The find path of find-or-create goes through the same select.
		again, wasCreated, err := svc.FindOrCreate(ctx, kind, "Shared Name")
		require.NoError(t, err, kind.Label)
		assert.False(t, wasCreated, kind.Label)
		assert.Equal(t, created.ID, again.ID, kind.Label)
	}
}

func TestServiceFindOrCreateLanguage_DisplayName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	lang, created, err := svc.FindOrCreateLanguage(ctx, "en")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "English", lang.Name)
	require.NotNil(t, lang.Code)
	assert.Equal(t, "en", *lang.Code)

	again, created, err := svc.FindOrCreateLanguage(ctx, "en")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, lang.ID, again.ID)
}

func TestServiceFindOrCreateLanguage_UnparseableCode(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	lang, created, err := svc.FindOrCreateLanguage(context.Background(), "not-a-language-code")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "not-a-language-code", lang.Name)
}

func TestServiceFindOrCreateRole_PairIdentity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	writer, created, err := svc.FindOrCreateRole(ctx, models.RoleKindWriter, "Alan Moore")
	require.NoError(t, err)
	assert.True(t, created)

	// Same person under a different role is a distinct row.
	editor, created, err := svc.FindOrCreateRole(ctx, models.RoleKindEditor, "Alan Moore")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, writer.ID, editor.ID)

	again, created, err := svc.FindOrCreateRole(ctx, models.RoleKindWriter, "Alan Moore")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, writer.ID, again.ID)
}

func TestServiceFindOrCreateRole_InvalidKind(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, _, err := svc.FindOrCreateRole(context.Background(), "publisher", "Alan Moore")
	assert.Error(t, err)
}
