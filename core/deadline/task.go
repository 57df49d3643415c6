package deadline

import (
	"strconv"

	"github.com/trezcool/deadlines/core"
)

// Task is one deadline invocation as received from the job queue.
// DueAt is kept verbatim: it is only ever embedded into email bodies.
type Task struct {
	AssignmentID int64  `json:"assignment_id" validate:"gt=0"`
	DeadlineType string `json:"deadline_type" validate:"notblank"`
	DueAt        string `json:"due_at"`
}

func (t Task) Validate() error {
	return core.TranslateValidationErrors(core.Validate.Struct(t))
}

func (t Task) Category() Category {
	return ParseCategory(t.DeadlineType)
}

// LogFields returns the task as extra log fields.
func (t Task) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"assignment_id": strconv.FormatInt(t.AssignmentID, 10),
		"deadline_type": t.DeadlineType,
		"due_at":        t.DueAt,
	}
}
