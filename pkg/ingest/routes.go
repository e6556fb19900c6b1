package ingest

import (
	"github.com/labstack/echo/v4"
	"github.com/longboxlabs/longbox/pkg/config"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config) {
	ingestService := NewService(db, cfg)

	h := &handler{
		ingestService: ingestService,
	}

	e.POST("/ingest", h.run)
}
