package deadline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/deadlines/core"
)

type (
	// Dispatcher runs deadline tasks.
	Dispatcher interface {
		Dispatch(ctx context.Context, task Task) (Report, error)
	}

	// Report summarises what a Dispatch did.
	Report struct {
		Category       Category
		TopicsDropped  int
		ReviewsDropped int
		Reminders      DeliveryReport
	}

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		plagiarism core.PlagiarismChecker
		logger     core.Logger
		conf       *core.Config
	}
)

var _ Dispatcher = (*Service)(nil)

func NewService(
	repo Repository,
	mailSvc core.EmailService,
	checker core.PlagiarismChecker,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		repo:       repo,
		mailSvc:    mailSvc,
		plagiarism: checker,
		logger:     logger,
		conf:       conf,
	}
}

// Dispatch runs the action selected by task.DeadlineType against task.AssignmentID.
// It fails when the assignment does not exist, whatever the category.
func (svc *Service) Dispatch(ctx context.Context, task Task) (Report, error) {
	if err := task.Validate(); err != nil {
		return Report{}, err
	}

	asg, err := svc.repo.GetAssignment(ctx, task.AssignmentID)
	if err != nil {
		return Report{}, errors.Wrapf(err, "finding assignment %d", task.AssignmentID)
	}

	report := Report{Category: task.Category()}

	switch cat := report.Category.(type) {
	case DropOneMemberTopics:
		// not scoped to the assignment
		report.TopicsDropped, err = svc.dropOneMemberTopics(ctx)

	case DropOutstandingReviews:
		if asg.IsTeamAssignment {
			if report.TopicsDropped, err = svc.dropOneMemberTopics(ctx); err != nil {
				break
			}
		}
		report.ReviewsDropped, err = svc.dropOutstandingReviews(ctx, asg.ID)

	case CompareFiles:
		err = errors.Wrapf(svc.plagiarism.Run(ctx, task.AssignmentID), "comparing files of assignment %d", task.AssignmentID)

	case Reminder:
		if typ, ok := SuggestCategory(task.DeadlineType); ok {
			svc.logger.Warn(fmt.Sprintf("deadline type %q handled as a reminder; did you mean %q?", task.DeadlineType, typ), task)
		}
		var emails []string
		if emails, err = svc.findParticipantEmails(ctx, asg.ID); err != nil {
			break
		}
		if len(emails) == 0 {
			svc.logger.Info(fmt.Sprintf("no participant to remind for assignment %d", asg.ID), task)
			break
		}
		report.Reminders, err = svc.emailReminders(ctx, asg, cat, task.DueAt, emails)

	default:
		err = errors.Errorf("unhandled deadline category %T", cat)
	}

	return report, err
}
