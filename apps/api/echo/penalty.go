package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core/penalty"
	"github.com/trezcool/tawajud/core/records"
	"github.com/trezcool/tawajud/core/reward"
)

type (
	penaltyApi struct {
		svc      *penalty.Service
		validate *validator.Validate
	}

	// PenaltyQuery filters penalties on one field: student_id, then parent_id, then paid.
	PenaltyQuery struct {
		StudentID int    `query:"student_id" validate:"omitempty,min=1"`
		ParentID  int    `query:"parent_id" validate:"omitempty,min=1"`
		Paid      string `query:"paid" validate:"omitempty,oneof=Y N"`
	}

	rewardApi struct {
		svc      *reward.Service
		validate *validator.Validate
	}

	RewardQuery struct {
		StudentID int `query:"student_id" validate:"required,min=1"`
	}
)

func (pq PenaltyQuery) query() records.Query {
	switch {
	case pq.StudentID != 0:
		return records.Where("student_id", pq.StudentID)
	case pq.ParentID != 0:
		return records.Where("parent_id", pq.ParentID)
	case pq.Paid != "":
		return records.Where("paid", pq.Paid)
	}
	return records.Query{}
}

func registerPenaltyAPI(g *echo.Group, deps ServerDeps) {
	api := penaltyApi{
		svc:      deps.PenaltySvc,
		validate: deps.Validate,
	}

	pg := g.Group("/penalties")
	pg.GET("", api.query)
	pg.PATCH("/:id/pay", api.pay)
	pg.POST("/:id/settle-locally", api.settleLocally)
}

func registerRewardAPI(g *echo.Group, deps ServerDeps) {
	api := rewardApi{
		svc:      deps.RewardSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/rewards")
	rg.GET("", api.query)
	rg.POST("", api.create)
}

// Handlers

func (api *penaltyApi) query(ctx echo.Context) error {
	var q PenaltyQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return errors.Wrap(err, "binding to PenaltyQuery")
	}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.All(ctx.Request().Context(), q.query()))
}

func (api *penaltyApi) pay(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	p, err := api.svc.MarkPaid(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "paying penalty")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *penaltyApi) settleLocally(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	p, err := api.svc.SettleLocally(id)
	if err != nil {
		return errors.Wrap(err, "settling penalty")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *rewardApi) query(ctx echo.Context) error {
	var q RewardQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return errors.Wrap(err, "binding to RewardQuery")
	}
	if err := api.validate.Struct(q); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.svc.ForStudent(ctx.Request().Context(), q.StudentID))
}

func (api *rewardApi) create(ctx echo.Context) error {
	var data reward.NewReward
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReward")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	rw, err := api.svc.Issue(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "issuing reward")
	}
	return ctx.JSON(http.StatusCreated, rw)
}
