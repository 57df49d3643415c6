package main

import (
	"context"
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	emailsvc "github.com/trezcool/deadlines/services/email"
	logsvc "github.com/trezcool/deadlines/services/logger"
	plagiarismsvc "github.com/trezcool/deadlines/services/plagiarism"
	queuesvc "github.com/trezcool/deadlines/services/queue"
	"github.com/trezcool/deadlines/storage/database"
	sqlxrepos "github.com/trezcool/deadlines/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(context.Background(), db))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, appLogger)
	}
	var checker core.PlagiarismChecker
	if conf.Debug || conf.Simicheck.APIKey == "" {
		checker = plagiarismsvc.NewConsoleService(appLogger)
	} else {
		checker = plagiarismsvc.NewSimicheckService(conf, appLogger)
	}
	svc := deadline.NewService(sqlxrepos.NewDeadlineRepository(db), mailSvc, checker, appLogger, conf)

	queue := &lazyQueue{conf: conf}
	defer queue.Close()

	// start CLI
	cli := commandLine{
		conf:  conf,
		db:    db,
		svc:   svc,
		queue: queue,
		out:   os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		queue.Close()
		db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// lazyQueue connects to Redis on the first enqueue only.
type lazyQueue struct {
	conf   *core.Config
	rdb    *redis.Client
	client *asynq.Client
}

func (q *lazyQueue) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.client == nil {
		rdb, err := queuesvc.NewRedisClient(ctx, q.conf)
		if err != nil {
			return nil, err
		}
		q.rdb = rdb
		q.client = queuesvc.NewClient(rdb)
	}
	return q.client.EnqueueContext(ctx, task, opts...)
}

func (q *lazyQueue) Close() {
	if q.rdb != nil {
		_ = q.rdb.Close()
		q.rdb = nil
		q.client = nil
	}
}
