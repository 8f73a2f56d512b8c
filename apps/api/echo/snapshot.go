package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
)

type (
	snapshotApi struct {
		store  dataset.Store
		logger core.Logger
	}

	IntegrityReport struct {
		Override bool                     `json:"override"`
		Issues   []dataset.IntegrityIssue `json:"issues"`
	}
)

func registerSnapshotAPI(g *echo.Group, deps ServerDeps) {
	api := snapshotApi{
		store:  deps.Store,
		logger: deps.Logger,
	}

	sg := g.Group("/snapshot")
	sg.PUT("", api.replace)
	sg.DELETE("", api.clear)
	sg.GET("/integrity", api.integrity)
}

func (api *snapshotApi) report() IntegrityReport {
	issues := api.store.Index().CheckIntegrity()
	if issues == nil {
		issues = []dataset.IntegrityIssue{}
	}
	return IntegrityReport{Override: api.store.HasOverride(), Issues: issues}
}

// Handlers

// replace installs the request body as the override snapshot.
func (api *snapshotApi) replace(ctx echo.Context) error {
	snap, err := dataset.Decode(ctx.Request().Body)
	if err != nil {
		return core.NewValidationError(err)
	}
	if err = api.store.Replace(snap); err != nil {
		return errors.Wrap(err, "replacing snapshot")
	}
	return ctx.JSON(http.StatusOK, api.report())
}

func (api *snapshotApi) clear(ctx echo.Context) error {
	if err := api.store.ClearOverride(); err != nil {
		return errors.Wrap(err, "clearing snapshot override")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *snapshotApi) integrity(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.report())
}
