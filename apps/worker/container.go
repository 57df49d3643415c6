package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	emailsvc "github.com/trezcool/deadlines/services/email"
	logsvc "github.com/trezcool/deadlines/services/logger"
	plagiarismsvc "github.com/trezcool/deadlines/services/plagiarism"
	queuesvc "github.com/trezcool/deadlines/services/queue"
	"github.com/trezcool/deadlines/storage/database"
	sqlxrepos "github.com/trezcool/deadlines/storage/database/sqlx"
)

type InfraLoggerParam struct {
	dig.In
	Logger core.Logger `name:"infraLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "WORKER : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newInfraLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "INFRA : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam InfraLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
		// DEV / TEST setups provide admin credentials to bootstrap the app user and database
		if conf.Database.AdminUser != "" {
			if err := database.CreateIfNotExist(context.Background(), conf); err != nil {
				return nil, err
			}
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(context.Background(), db); err != nil {
			return nil, err
		}
		if conf.Database.Migrate {
			if err = database.Migrate(db); err != nil {
				return nil, err
			}
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newRedis(conf *core.Config, loggerParam InfraLoggerParam) *redis.Client {
	rdb, err := queuesvc.NewRedisClient(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
	}
	return rdb
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "MAIL : ", log.LstdFlags))
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newPlagiarismChecker(conf *core.Config, logger core.Logger) core.PlagiarismChecker {
	if conf.Debug || conf.Simicheck.APIKey == "" {
		return plagiarismsvc.NewConsoleService(logger)
	}
	return plagiarismsvc.NewSimicheckService(conf, logger)
}

func newRepository(db core.DB) deadline.Repository {
	return sqlxrepos.NewDeadlineRepository(db)
}

func newQueueServer(rdb *redis.Client, conf *core.Config, loggerParam InfraLoggerParam) *asynq.Server {
	return queuesvc.NewServer(rdb, conf, loggerParam.Logger)
}

func newHealth(conf *core.Config, db core.DB, rdb *redis.Client) *healthServer {
	return newHealthServer(conf,
		pinger{name: "database", ping: db.PingContext},
		pinger{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)
}

// newContainer returns the worker's dependency injection dig.Container
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newInfraLogger, dig.Name("infraLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newRedis))
	must(c.Provide(newEmailService))
	must(c.Provide(newPlagiarismChecker))
	must(c.Provide(newRepository))
	must(c.Provide(deadline.NewService, dig.As(new(deadline.Dispatcher))))
	must(c.Provide(queuesvc.NewHandler))
	must(c.Provide(newQueueServer))
	must(c.Provide(newHealth))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
