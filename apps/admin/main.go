package main

import (
	"log"
	"os"
	"time"

	"github.com/trezcool/tawajud/apps"
	"github.com/trezcool/tawajud/core"
	"github.com/trezcool/tawajud/core/stats"
	logsvc "github.com/trezcool/tawajud/services/logger"
	inmemrecords "github.com/trezcool/tawajud/storage/records/inmem"
	snapshotstore "github.com/trezcool/tawajud/storage/snapshot"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false)

	// set up the snapshot store
	store := snapshotstore.New(appLogger, snapshotstore.Options{
		BundledPath:  conf.Data.SnapshotPath,
		OverridePath: conf.Data.OverridePath,
	})
	errAndDie(store.Load())

	// start CLI
	cli := commandLine{
		store:      store,
		stats:      stats.NewEngine(store, inmemrecords.Open(store.Index().Snapshot().Clone()), appLogger),
		out:        os.Stdout,
		now:        time.Now,
		persistent: conf.Data.OverridePath != "",
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		if apps.IsArgumentError(err) {
			cli.printUsage()
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
