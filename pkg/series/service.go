// Package series resolves (name, year) pairs to series rows. A series with a
// year and a yearless series of the same name are distinct entities.
package series

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/longboxlabs/longbox/pkg/errcodes"
	"github.com/longboxlabs/longbox/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveSeriesOptions struct {
	ID   *int
	Name *string
	Year *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveSeries(ctx context.Context, opts RetrieveSeriesOptions) (*models.Series, error) {
	series := &models.Series{}

	q := svc.db.NewSelect().Model(series)
	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("s.name = ?", *opts.Name)
		if opts.Year != nil {
			q = q.Where("s.year = ?", *opts.Year)
		} else {
			q = q.Where("s.year IS NULL")
		}
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Series")
		}
		return nil, errors.WithStack(err)
	}

	return series, nil
}

// FindOrCreateSeries resolves a (name, year) pair, creating the series on
// first observation. Uniqueness is enforced by two partial indexes, one for
// rows with a year and one for yearless rows, so the conflict target has to
// match whichever index applies. The bool reports whether a row was created.
func (svc *Service) FindOrCreateSeries(ctx context.Context, name string, year *int) (*models.Series, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, errors.New("series name cannot be empty")
	}

	now := time.Now()
	series := &models.Series{
		CreatedAt: now,
		UpdatedAt: now,
		Name:      name,
		Year:      year,
	}

	q := svc.db.
		NewInsert().
		Model(series).
		Column("created_at", "updated_at", "name", "year")
	if year != nil {
		q = q.On("CONFLICT (name, year) WHERE year IS NOT NULL DO NOTHING")
	} else {
		q = q.On("CONFLICT (name) WHERE year IS NULL DO NOTHING")
	}

	err := q.Returning("id").Scan(ctx)
	if err == nil {
		return series, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	existing, err := svc.RetrieveSeries(ctx, RetrieveSeriesOptions{Name: &name, Year: year})
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
