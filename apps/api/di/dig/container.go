package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/category"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/progress"
	logsvc "github.com/trezcool/elimu/services/logger"
	"github.com/trezcool/elimu/storage/kv"
)

type StorageLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storageLogger"`
}

type serverParams struct {
	dig.In
	Conf       *core.Config
	Logger     core.Logger
	Courses    *course.Store
	Ledger     *progress.Ledger
	Categories *category.Registry
	Validate   *validator.Validate
	Translator ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStorageLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORAGE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newBackend(conf *core.Config, loggerParam StorageLoggerParam) (*kv.Backend, core.KVStore) {
	backend, err := kv.Open(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening %s storage: %v", conf.Storage.Engine, err), err)
	}
	return backend, backend.Store
}

func newCourseStore(store core.KVStore, loggerParam StorageLoggerParam) (*course.Store, error) {
	return course.NewStore(context.Background(), store, loggerParam.Logger)
}

// newLedger also subscribes the ledger to course changes so cached percentages stay fresh.
func newLedger(store core.KVStore, courses *course.Store, loggerParam StorageLoggerParam) (*progress.Ledger, error) {
	ledger, err := progress.NewLedger(context.Background(), store, courses, loggerParam.Logger)
	if err != nil {
		return nil, err
	}
	courses.Subscribe(ledger.CourseChanged)
	return ledger, nil
}

func newCategoryRegistry(store core.KVStore, loggerParam StorageLoggerParam) (*category.Registry, error) {
	return category.NewRegistry(context.Background(), store, loggerParam.Logger)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Courses:    p.Courses,
		Ledger:     p.Ledger,
		Categories: p.Categories,
		Validate:   p.Validate,
		Translator: p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStorageLogger, dig.Name("storageLogger")))
	must(c.Provide(newBackend))
	must(c.Provide(newCourseStore))
	must(c.Provide(newLedger))
	must(c.Provide(newCategoryRegistry))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
