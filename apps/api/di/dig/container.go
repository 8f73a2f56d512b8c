package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/tawajud/apps/api/echo"
	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/dataset"
	"github.com/trezcool/tawajud/core/excuse"
	"github.com/trezcool/tawajud/core/filter"
	"github.com/trezcool/tawajud/core/penalty"
	"github.com/trezcool/tawajud/core/records"
	"github.com/trezcool/tawajud/core/reward"
	"github.com/trezcool/tawajud/core/stats"
	logsvc "github.com/trezcool/tawajud/services/logger"
	httprecords "github.com/trezcool/tawajud/storage/records/httpclient"
	inmemrecords "github.com/trezcool/tawajud/storage/records/inmem"
	snapshotstore "github.com/trezcool/tawajud/storage/snapshot"
)

type serverParams struct {
	dig.In

	Logger     core.Logger
	Store      dataset.Store
	Filter     *filter.Engine
	Stats      *stats.Engine
	ExcuseSvc  *excuse.Service
	PenaltySvc *penalty.Service
	RewardSvc  *reward.Service
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, logger core.Logger) dataset.Store {
	store := snapshotstore.New(logger, snapshotstore.Options{
		BundledPath:  conf.Data.SnapshotPath,
		OverridePath: conf.Data.OverridePath,
	})
	if err := store.Load(); err != nil {
		logger.Fatal(fmt.Sprintf("loading snapshot: %v", err), err)
	}
	return store
}

// newRecordsClient talks to the remote record store when one is configured,
// otherwise serves the remote collections of the snapshot from memory.
func newRecordsClient(conf *core.Config, store dataset.Store, logger core.Logger) records.Client {
	if conf.Records.BaseURL != "" {
		return httprecords.New(conf.Records.BaseURL, conf.Records.Timeout)
	}
	logger.Info("no remote record store configured, serving records from memory")
	return inmemrecords.Open(store.Index().Snapshot().Clone())
}

func splitRecordsClient(c records.Client) (records.ExcuseClient, records.PenaltyClient, records.RewardClient, stats.Remote) {
	return c, c, c, c
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	filter.InitValidators(validate, translator)
	return validate
}

func newServerDeps(p serverParams) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Logger:     p.Logger,
		Store:      p.Store,
		Filter:     p.Filter,
		Stats:      p.Stats,
		ExcuseSvc:  p.ExcuseSvc,
		PenaltySvc: p.PenaltySvc,
		RewardSvc:  p.RewardSvc,
		Validate:   p.Validate,
		Translator: p.Translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStore))
	must(c.Provide(newRecordsClient))
	must(c.Provide(splitRecordsClient))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(filter.NewEngine))
	must(c.Provide(stats.NewEngine))
	must(c.Provide(excuse.NewService))
	must(c.Provide(penalty.NewService))
	must(c.Provide(reward.NewService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
