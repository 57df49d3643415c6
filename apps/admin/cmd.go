package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf  *core.Config
	db    *sqlx.DB
	svc   deadline.Dispatcher
	queue enqueuer
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  enqueue -assignment ID -type TYPE [-due DUE] [-at RFC3339] [-id TASK_ID] - queue a deadline task")
	fmt.Fprintln(cli.out, "  dispatch -assignment ID -type TYPE [-due DUE] - run a deadline task now")
}

// taskFlags registers the flags describing a deadline task on fs.
func taskFlags(fs *flag.FlagSet) (assignmentID *int64, deadlineType, dueAt *string) {
	assignmentID = fs.Int64("assignment", 0, "The assignment ID.")
	deadlineType = fs.String("type", "", "The deadline type (e.g. submission, review, drop_outstanding_reviews).")
	dueAt = fs.String("due", "", "The due date, as shown in reminder emails.")
	return
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	enqueueCmd := flag.NewFlagSet("enqueue", flag.ContinueOnError)
	enqueueAsg, enqueueType, enqueueDue := taskFlags(enqueueCmd)
	enqueueAt := enqueueCmd.String("at", "", "When to run the task (RFC3339). Runs as soon as possible if empty.")
	enqueueID := enqueueCmd.String("id", "", "The task ID. Derived from the task if empty.")

	dispatchCmd := flag.NewFlagSet("dispatch", flag.ContinueOnError)
	dispatchAsg, dispatchType, dispatchDue := taskFlags(dispatchCmd)

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "enqueue":
		if err := enqueueCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enqueueAsg <= 0 || *enqueueType == "" {
			enqueueCmd.Usage()
			return errHelp
		}
		task := deadline.Task{AssignmentID: *enqueueAsg, DeadlineType: *enqueueType, DueAt: *enqueueDue}
		return cli.enqueue(task, *enqueueAt, *enqueueID)

	case "dispatch":
		if err := dispatchCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *dispatchAsg <= 0 || *dispatchType == "" {
			dispatchCmd.Usage()
			return errHelp
		}
		task := deadline.Task{AssignmentID: *dispatchAsg, DeadlineType: *dispatchType, DueAt: *dispatchDue}
		return cli.dispatch(task)

	default:
		cli.printUsage()
		return errHelp
	}
}
