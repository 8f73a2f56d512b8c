package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/excuse"
	"github.com/trezcool/tawajud/core/records"
)

type (
	excuseApi struct {
		svc      *excuse.Service
		validate *validator.Validate
	}

	// ExcuseQuery filters excuses on one field; status wins over student_id.
	ExcuseQuery struct {
		Status    string `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
		StudentID int    `query:"student_id" validate:"omitempty,min=1"`
	}

	StatusUpdate struct {
		Status dataset.ExcuseStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	}
)

func (eq ExcuseQuery) query() records.Query {
	switch {
	case eq.Status != "":
		return records.Where("status", eq.Status)
	case eq.StudentID != 0:
		return records.Where("student_id", eq.StudentID)
	}
	return records.Query{}
}

func registerExcuseAPI(g *echo.Group, deps ServerDeps) {
	api := excuseApi{
		svc:      deps.ExcuseSvc,
		validate: deps.Validate,
	}

	eg := g.Group("/excuses")
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.GET("/reasons", api.reasons)
	eg.GET("/:id", api.retrieve)
	eg.PATCH("/:id/status", api.updateStatus)
}

// Handlers

func (api *excuseApi) query(ctx echo.Context) error {
	var q ExcuseQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return errors.Wrap(err, "binding to ExcuseQuery")
	}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.Query(ctx.Request().Context(), q.query()))
}

func (api *excuseApi) reasons(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Reasons(ctx.Request().Context()))
}

func (api *excuseApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	exc, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "retrieving excuse")
	}
	return ctx.JSON(http.StatusOK, exc)
}

func (api *excuseApi) create(ctx echo.Context) error {
	var data excuse.NewExcuse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExcuse")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	exc, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating excuse")
	}
	return ctx.JSON(http.StatusCreated, exc)
}

func (api *excuseApi) updateStatus(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data StatusUpdate
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	exc, err := api.svc.UpdateStatus(ctx.Request().Context(), id, data.Status)
	if err != nil {
		return errors.Wrap(err, "updating excuse status")
	}
	return ctx.JSON(http.StatusOK, exc)
}
