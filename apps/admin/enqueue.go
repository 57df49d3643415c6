package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	queuesvc "github.com/trezcool/deadlines/services/queue"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func (cli *commandLine) enqueue(task deadline.Task, at, taskID string) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if typ, ok := deadline.SuggestCategory(task.DeadlineType); ok {
		fmt.Fprintf(cli.out, "warning: %q will be sent as a reminder; did you mean %q?\n", task.DeadlineType, typ)
	}
	if taskID == "" {
		taskID = queuesvc.TaskID(task)
	}

	opts := []asynq.Option{
		asynq.Queue(cli.conf.Queue.Name),
		asynq.MaxRetry(cli.conf.Queue.MaxRetry),
		asynq.TaskID(taskID),
	}
	if at != "" {
		processAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "at", Error: "at must be an RFC3339 date"})
		}
		opts = append(opts, asynq.ProcessAt(processAt))
	}

	t, err := queuesvc.NewDeadlineTask(task)
	if err != nil {
		return err
	}
	info, err := cli.queue.EnqueueContext(context.Background(), t, opts...)
	if err != nil {
		return errors.Wrapf(err, "enqueuing task %s", taskID)
	}
	fmt.Fprintf(cli.out, "enqueued %s on %q, next run at %s\n", info.ID, info.Queue, info.NextProcessAt.Format(time.RFC3339))
	return nil
}
