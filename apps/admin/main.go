package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
	logsvc "github.com/trezcool/elimu/services/logger"
	"github.com/trezcool/elimu/storage/database"
	"github.com/trezcool/elimu/storage/kv"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up storage
	backend, err := kv.Open(conf)
	errAndDie(logger, err)

	ctx := context.Background()
	courses, err := course.NewStore(ctx, backend.Store, logger)
	errAndDie(logger, err)
	ledger, err := progress.NewLedger(ctx, backend.Store, courses, logger)
	errAndDie(logger, err)
	courses.Subscribe(ledger.CourseChanged)
	categories, err := category.NewRegistry(ctx, backend.Store, logger)
	errAndDie(logger, err)

	// start CLI
	cli := commandLine{
		courses:    courses,
		ledger:     ledger,
		categories: categories,
		in:         os.Stdin,
		out:        os.Stdout,
	}
	if backend.SQL != nil {
		errAndDie(logger, database.ConfigureMigrations())
		cli.db = backend.SQL.DB
	}

	err = cli.run(os.Args)
	if cErr := backend.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		logger.Wait()
		os.Exit(1)
	}
	logger.Wait()
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
