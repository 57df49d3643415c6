package queuesvc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
)

// Handler runs deadline tasks pulled from the queue.
type Handler struct {
	svc    deadline.Dispatcher
	logger core.Logger
}

func NewHandler(svc deadline.Dispatcher, logger core.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// HandleDeadlineTask dispatches one deadline task.
// Malformed tasks and data errors are not retried; any other failure is.
func (h *Handler) HandleDeadlineTask(ctx context.Context, t *asynq.Task) error {
	task, err := decodeDeadlineTask(t)
	if err != nil {
		h.logger.Error(err.Error(), err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	runID := uuid.NewString()
	fields := map[string]interface{}{"run_id": runID}
	h.logger.Info(fmt.Sprintf("running deadline task %s", task.DeadlineType), task, fields)

	report, err := h.svc.Dispatch(ctx, task)
	if err != nil {
		h.logger.Error(err.Error(), err, task, fields)
		if isPermanent(err) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}

	h.logger.Info(fmt.Sprintf("deadline task %s done", task.DeadlineType), task, fields, reportFields(report))
	return nil
}

// isPermanent reports whether retrying err could only fail again, resending the reminders
// already delivered on the way.
func isPermanent(err error) bool {
	if core.IsValidationError(err) {
		return true
	}
	switch errors.Cause(err) {
	case deadline.ErrAssignmentNotFound, deadline.ErrDuplicateEmail, deadline.ErrParticipantNotFound:
		return true
	}
	return false
}

func reportFields(r deadline.Report) map[string]interface{} {
	return map[string]interface{}{
		"category":        r.Category.String(),
		"topics_dropped":  r.TopicsDropped,
		"reviews_dropped": r.ReviewsDropped,
		"reminders_sent":  len(r.Reminders.Sent),
	}
}
