package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/filter"
)

var errIncompleteRange = errors.New("start and end go together")

// PeriodQuery selects the reporting period: an explicit start/end pair wins over the tab.
type PeriodQuery struct {
	Tab   string `query:"tab"`
	Start string `query:"start" validate:"omitempty,isodate"`
	End   string `query:"end" validate:"omitempty,isodate"`
}

// Range resolves the period; the Month tab is used when nothing is given.
func (pq PeriodQuery) Range(now time.Time) (calendar.Range, error) {
	if pq.Start != "" || pq.End != "" {
		if pq.Start == "" || pq.End == "" {
			return calendar.Range{}, core.NewValidationError(
				errIncompleteRange,
				core.FieldError{Field: "start", Error: errIncompleteRange.Error()},
			)
		}
		return calendar.NewRange(pq.Start, pq.End), nil
	}

	tab := calendar.TabMonth
	if pq.Tab != "" {
		var err error
		if tab, err = calendar.ParseTab(pq.Tab); err != nil {
			return calendar.Range{}, core.NewValidationError(
				err,
				core.FieldError{Field: "tab", Error: "tab must be one of [Day Month Year]"},
			)
		}
	}
	return calendar.TabPeriod(tab, now).Days(), nil
}

// StatsQuery is the query string of the dashboard statistics endpoints.
type StatsQuery struct {
	filter.Criteria
	PeriodQuery
	Lang string `query:"lang" validate:"omitempty,oneof=ar en"`
	By   string `query:"by"`
}

func (sq StatsQuery) language() dataset.Lang {
	return dataset.Lang(sq.Lang)
}

func (api *dashboardApi) bindStatsQuery(ctx echo.Context) (StatsQuery, calendar.Range, error) {
	var q StatsQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return q, calendar.Range{}, errors.Wrap(err, "binding to StatsQuery")
	}
	q.Criteria.Clean()
	if err := api.validate.Struct(q); err != nil {
		return q, calendar.Range{}, err
	}
	r, err := q.Range(api.clock())
	return q, r, err
}

// paramID reads a positive integer path parameter; anything else is a 404.
func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
