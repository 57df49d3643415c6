package main

import (
	"context"
	"fmt"

	"github.com/trezcool/deadlines/core/deadline"
)

func (cli *commandLine) dispatch(task deadline.Task) error {
	report, err := cli.svc.Dispatch(context.Background(), task)
	if report.Category != nil {
		cli.printReport(report)
	}
	return err
}

func (cli *commandLine) printReport(r deadline.Report) {
	fmt.Fprintf(cli.out, "category: %s\n", r.Category)
	fmt.Fprintf(cli.out, "topics dropped: %d\n", r.TopicsDropped)
	fmt.Fprintf(cli.out, "reviews dropped: %d\n", r.ReviewsDropped)
	fmt.Fprintf(cli.out, "reminders sent: %d\n", len(r.Reminders.Sent))
	for _, d := range r.Reminders.Failed {
		fmt.Fprintf(cli.out, "reminder failed: %s: %v\n", d.Email, d.Err)
	}
}
