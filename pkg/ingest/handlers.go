package ingest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	ingestService *Service
}

func (h *handler) run(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.ingestService.Run(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, summary))
}
