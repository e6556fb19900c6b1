package series

import (
	"context"
	"database/sql"
	"testing"

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

func countSeries(ctx context.Context, t *testing.T, db *bun.DB) int {
	t.Helper()

	count, err := db.NewSelect().Model((*models.Series)(nil)).Count(ctx)
	require.NoError(t, err)

	return count
}

func TestServiceFindOrCreateSeries_WithYear(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	series, created, err := svc.FindOrCreateSeries(ctx, "Firefly", pointerutil.Int(2019))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, series.ID)

	again, created, err := svc.FindOrCreateSeries(ctx, "Firefly", pointerutil.Int(2019))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, series.ID, again.ID)

	assert.Equal(t, 1, countSeries(ctx, t, db))
}

func TestServiceFindOrCreateSeries_YearDistinguishes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	s2002, created, err := svc.FindOrCreateSeries(ctx, "Firefly", pointerutil.Int(2002))
	require.NoError(t, err)
	assert.True(t, created)

	s2019, created, err := svc.FindOrCreateSeries(ctx, "Firefly", pointerutil.Int(2019))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, s2002.ID, s2019.ID)

	assert.Equal(t, 2, countSeries(ctx, t, db))
}

func TestServiceFindOrCreateSeries_NilYearIsItsOwnEntity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	yearless, created, err := svc.FindOrCreateSeries(ctx, "Saga", nil)
	require.NoError(t, err)
	assert.True(t, created)

	dated, created, err := svc.FindOrCreateSeries(ctx, "Saga", pointerutil.Int(2012))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, yearless.ID, dated.ID)

	// A second yearless resolution lands on the same row.
	again, created, err := svc.FindOrCreateSeries(ctx, "Saga", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, yearless.ID, again.ID)

	assert.Equal(t, 2, countSeries(ctx, t, db))
}

func TestServiceFindOrCreateSeries_EmptyName(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, _, err := svc.FindOrCreateSeries(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestServiceRetrieveSeries_NotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RetrieveSeries(context.Background(), RetrieveSeriesOptions{Name: pointerutil.String("Nope")})
	assert.Error(t, err)
}
