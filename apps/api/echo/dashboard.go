package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/calendar"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/filter"
	"github.com/trezcool/tawajud/core/penalty"
	"github.com/trezcool/tawajud/core/reward"
	"github.com/trezcool/tawajud/core/stats"
)

type (
	dashboardApi struct {
		store      dataset.Store
		filter     *filter.Engine
		stats      *stats.Engine
		penaltySvc *penalty.Service
		rewardSvc  *reward.Service
		validate   *validator.Validate
		clock      func() time.Time
	}

	StatsSummary struct {
		Range    calendar.Range      `json:"range"`
		Schools  int                 `json:"schools"`
		Students int                 `json:"students"`
		Filtered stats.FilteredStats `json:"filtered"`
		Totals   stats.Totals        `json:"totals"`
		// CheckIns counts IN_TIME and VIOLATION records alike.
		CheckIns       int             `json:"check_ins"`
		Penalties      decimal.Decimal `json:"penalties"`
		Rewards        int             `json:"rewards"`
		AttendanceRate int             `json:"attendance_rate"`
	}

	GroupStatResponse struct {
		Label         string `json:"label"`
		Students      int    `json:"students"`
		Attendance    int    `json:"attendance"`
		TotalPossible int    `json:"total_possible"`
		Rate          int    `json:"rate"`
	}

	StudentProfile struct {
		dataset.Student
		School    string                  `json:"school"`
		Region    string                  `json:"region"`
		Parents   []dataset.Parent        `json:"parents"`
		Penalties []dataset.ParentPenalty `json:"penalties"`
		Rewards   []dataset.Reward        `json:"rewards"`
	}
)

func registerDashboardAPI(g *echo.Group, deps ServerDeps) {
	api := dashboardApi{
		store:      deps.Store,
		filter:     deps.Filter,
		stats:      deps.Stats,
		penaltySvc: deps.PenaltySvc,
		rewardSvc:  deps.RewardSvc,
		validate:   deps.Validate,
		clock:      deps.Clock,
	}

	g.GET("/schools", api.schools)
	g.GET("/stats", api.summary)
	g.GET("/stats/groups", api.groups)
	g.GET("/regions/:id/stats", api.regionStats)
	g.GET("/regions/:id/daily", api.regionDaily)
	g.GET("/students/:id", api.student)
	g.GET("/parents/:id/students", api.parentStudents)
}

// Handlers

func (api *dashboardApi) schools(ctx echo.Context) error {
	q, _, err := api.bindStatsQuery(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.filter.FilterSchools(q.Criteria))
}

// population narrows the students down to the filtered schools and the requested sex.
func (api *dashboardApi) population(c filter.Criteria) ([]dataset.School, []int) {
	schools := api.filter.FilterSchools(c)
	ids := api.filter.StudentIDsInSchools(filter.SchoolIDs(schools))
	return schools, api.filter.FilterStudentIDsBySex(ids, c.Sex)
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	q, r, err := api.bindStatsQuery(ctx)
	if err != nil {
		return err
	}

	schools, ids := api.population(q.Criteria)
	totals := api.stats.AggregateForStudents(ctx.Request().Context(), ids, r)
	return ctx.JSON(http.StatusOK, StatsSummary{
		Range:          r,
		Schools:        len(schools),
		Students:       len(ids),
		Filtered:       api.stats.FilteredStats(filter.SchoolIDs(schools), r),
		Totals:         totals,
		CheckIns:       api.stats.AllCheckInEventCount(ids, r),
		Penalties:      api.stats.SumPenalties(ids, r),
		Rewards:        api.stats.CountRewards(ids, r),
		AttendanceRate: stats.Rate(totals.Attendance, totals.TotalPossibleAttendances),
	})
}

func (api *dashboardApi) groups(ctx echo.Context) error {
	q, r, err := api.bindStatsQuery(ctx)
	if err != nil {
		return err
	}
	by := stats.ByGender
	if q.By != "" {
		if by, err = stats.ParseGrouping(q.By); err != nil {
			return core.NewValidationError(err, core.FieldError{
				Field: "by",
				Error: "by must be one of [gender level school region]",
			})
		}
	}

	_, ids := api.population(q.Criteria)
	groups, err := stats.Group(api.store.Index(), ids, by, q.language())
	if err != nil {
		return err
	}
	gs := api.stats.GroupStats(groups, r)

	resp := make([]GroupStatResponse, 0, len(groups))
	for _, label := range stats.Labels(groups) {
		resp = append(resp, GroupStatResponse{
			Label:         label,
			Students:      len(groups[label]),
			Attendance:    gs[label].Attendance,
			TotalPossible: gs[label].TotalPossible,
			Rate:          gs[label].Rate(),
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *dashboardApi) region(ctx echo.Context) (int, calendar.Range, error) {
	id, err := paramID(ctx, "id")
	if err != nil {
		return 0, calendar.Range{}, err
	}
	if _, ok := api.store.Index().Region(id); !ok {
		return 0, calendar.Range{}, errHttpNotFound
	}
	_, r, err := api.bindStatsQuery(ctx)
	return id, r, err
}

func (api *dashboardApi) regionStats(ctx echo.Context) error {
	id, r, err := api.region(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.stats.RegionStats(id, r))
}

func (api *dashboardApi) regionDaily(ctx echo.Context) error {
	id, r, err := api.region(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.stats.DailyStats(id, r))
}

func (api *dashboardApi) student(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ix := api.store.Index()
	st, ok := ix.Student(id)
	if !ok {
		return errHttpNotFound
	}

	profile := StudentProfile{
		Student: st,
		School:  dataset.UnknownName,
		Region:  dataset.UnknownName,
		Parents: ix.ParentsOfStudent(id),
	}
	if sc, ok := ix.School(st.SchoolID); ok {
		profile.School = sc.NameEn
	}
	if regionID, ok := ix.StudentRegionID(id); ok {
		profile.Region = ix.RegionNameByID(regionID, dataset.LangEn)
	}
	profile.Penalties = api.penaltySvc.ForStudent(ctx.Request().Context(), id)
	profile.Rewards = api.rewardSvc.ForStudent(ctx.Request().Context(), id)
	return ctx.JSON(http.StatusOK, profile)
}

func (api *dashboardApi) parentStudents(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ix := api.store.Index()
	if _, ok := ix.Parent(id); !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, ix.StudentsOfParent(id))
}
