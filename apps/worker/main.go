package main

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/deadlines/core"
	queuesvc "github.com/trezcool/deadlines/services/queue"
)

func main() {
	c := newContainer()

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		infraLoggerParam InfraLoggerParam,
		db *sqlx.DB,
		rdb *redis.Client,
		handler *queuesvc.Handler,
		queue *asynq.Server,
		health *healthServer,
	) {
		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Worker initializing : version %q, queue %q", conf.Build, conf.Queue.Name))

		infraLogger := infraLoggerParam.Logger
		defer func() {
			if err := db.Close(); err != nil {
				infraLogger.Error("failed to close database", err)
			}
			if err := rdb.Close(); err != nil {
				infraLogger.Error("failed to close redis", err)
			}
		}()
		defer logger.Info("Worker stopped")

		// =========================================================================
		// Start Queue Consumer

		if err := queue.Start(queuesvc.NewServeMux(handler)); err != nil {
			logger.Fatal(fmt.Sprintf("starting queue server: %v", err), err)
		}

		// =========================================================================
		// Start Health Service

		go health.Start()

		// =========================================================================
		// Shutdown

		select {
		case err := <-health.Errors():
			logger.Error(fmt.Sprintf("health server error: %v", err), err)

		case sig := <-health.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		}

		// stop fetching new tasks, then wait for the running ones
		queue.Stop()
		queue.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := health.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop health server gracefully: %v", err), err)
		}
	}))
}
