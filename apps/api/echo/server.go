package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/excuse"
	"github.com/trezcool/tawajud/core/filter"
	"github.com/trezcool/tawajud/core/penalty"
	"github.com/trezcool/tawajud/core/reward"
	"github.com/trezcool/tawajud/core/stats"
)

type (
	ServerDeps struct {
		Logger     core.Logger
		Store      dataset.Store
		Filter     *filter.Engine
		Stats      *stats.Engine
		ExcuseSvc  *excuse.Service
		PenaltySvc *penalty.Service
		RewardSvc  *reward.Service
		Validate   *validator.Validate
		Translator ut.Translator
		// Clock defaults to time.Now; period tabs are resolved against it.
		Clock func() time.Time
	}

	Server struct {
		conf     *core.Config
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(conf *core.Config, deps ServerDeps) *Server {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	s := &Server{
		conf:     conf,
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestIDMiddleware())
	if !s.conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)
	s.app.Debug = s.conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerDashboardAPI(v1, s.deps)
	registerExcuseAPI(v1, s.deps)
	registerPenaltyAPI(v1, s.deps)
	registerRewardAPI(v1, s.deps)
	registerSnapshotAPI(v1, s.deps)
}

// Start blocks serving requests; listen failures are sent to Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" API!")
}
