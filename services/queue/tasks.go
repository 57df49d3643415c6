package queuesvc

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/trezcool/deadlines/core/deadline"
)

// TypeDeadline is the asynq type of deadline tasks.
const TypeDeadline = "deadline:run"

// NewDeadlineTask encodes a deadline task for the queue.
func NewDeadlineTask(task deadline.Task, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, errors.Wrap(err, "encoding deadline task")
	}
	return asynq.NewTask(TypeDeadline, payload, opts...), nil
}

// TaskID identifies a deadline occurrence; enqueuing the same one twice is rejected by the queue.
func TaskID(task deadline.Task) string {
	return fmt.Sprintf("deadline:%d:%s:%s", task.AssignmentID, task.DeadlineType, task.DueAt)
}

func decodeDeadlineTask(t *asynq.Task) (deadline.Task, error) {
	var task deadline.Task
	if t.Type() != TypeDeadline {
		return task, errors.Errorf("unexpected task type %q", t.Type())
	}
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return task, errors.Wrap(err, "decoding deadline task")
	}
	return task, nil
}
