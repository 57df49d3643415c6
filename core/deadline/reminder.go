package deadline

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/deadlines/core"
)

const reminderTemplate = "deadline_reminder"

type (
	// ReminderData is the email template data of a reminder.
	ReminderData struct {
		Label          string
		AssignmentName string
		ParticipantID  int64
		DueAt          string
	}

	// Delivery is the outcome of one reminder send.
	Delivery struct {
		Email         string
		ParticipantID int64
		Err           error
	}

	DeliveryReport struct {
		Sent   []Delivery
		Failed []Delivery
	}

	// DeliveryError is returned when at least one reminder could not be sent.
	DeliveryError struct {
		Report DeliveryReport
	}
)

func (r DeliveryReport) Total() int { return len(r.Sent) + len(r.Failed) }

func (e *DeliveryError) Error() string {
	msgs := make([]string, 0, len(e.Report.Failed))
	for _, d := range e.Report.Failed {
		msgs = append(msgs, fmt.Sprintf("%s: %v", d.Email, d.Err))
	}
	return fmt.Sprintf("%d of %d reminders failed: %s", len(e.Report.Failed), e.Report.Total(), strings.Join(msgs, "; "))
}

// ReminderSubject is the subject line of a reminder email.
func ReminderSubject(label, assignmentName string) string {
	return fmt.Sprintf("Message regarding %s for assignment %s", label, assignmentName)
}

// findParticipantEmails collects the emails of the assignment's participants.
// Participants without a user (or whose user has no email) are skipped.
func (svc *Service) findParticipantEmails(ctx context.Context, assignmentID int64) ([]string, error) {
	participants, err := svc.repo.QueryParticipants(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrapf(err, "querying participants of assignment %d", assignmentID)
	}

	emails := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.UserID == 0 {
			continue
		}
		usr, err := svc.repo.GetUser(ctx, p.UserID)
		if err != nil {
			if errors.Cause(err) == ErrUserNotFound {
				continue
			}
			return nil, errors.Wrapf(err, "finding user of participant %d", p.ID)
		}
		if email := core.CleanString(usr.Email); email != "" {
			emails = append(emails, email)
		}
	}
	return emails, nil
}

// emailReminders sends one reminder per email.
// Unless the config says otherwise, the first failure aborts the remaining sends.
func (svc *Service) emailReminders(ctx context.Context, asg Assignment, rem Reminder, dueAt string, emails []string) (DeliveryReport, error) {
	var report DeliveryReport
	label := rem.Label()
	subject := ReminderSubject(label, asg.Name)

	for _, email := range emails {
		msg, participantID, err := svc.buildReminder(ctx, asg, label, subject, dueAt, email)
		if err != nil {
			// no task link without a participant record
			report.Failed = append(report.Failed, Delivery{Email: email, Err: err})
			return report, err
		}

		d := Delivery{Email: email, ParticipantID: participantID}
		if d.Err = svc.mailSvc.SendMessage(ctx, msg); d.Err != nil {
			d.Err = errors.Wrapf(d.Err, "sending %s reminder to %s", label, email)
			report.Failed = append(report.Failed, d)
			svc.logger.Error(d.Err.Error(), d.Err)
			if !svc.conf.ContinueOnMailError {
				return report, d.Err
			}
			continue
		}
		report.Sent = append(report.Sent, d)
		svc.logger.Info(email)
	}

	if len(report.Failed) > 0 {
		return report, &DeliveryError{Report: report}
	}
	return report, nil
}

func (svc *Service) buildReminder(ctx context.Context, asg Assignment, label, subject, dueAt, email string) (*core.EmailMessage, int64, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "finding user by email %s", email)
	}
	participant, err := svc.repo.GetParticipant(ctx, usr.ID, asg.ID)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "finding participant of user %d in assignment %d", usr.ID, asg.ID)
	}

	msg := core.NewTemplatedMessage(svc.conf, reminderTemplate, subject, ReminderData{
		Label:          label,
		AssignmentName: asg.Name,
		ParticipantID:  participant.ID,
		DueAt:          dueAt,
	})
	msg.Bcc = []mail.Address{{Name: usr.Name, Address: email}}
	return msg, participant.ID, nil
}
