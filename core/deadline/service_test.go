package deadline_test

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	"github.com/trezcool/deadlines/tests"
)

var ctx = context.Background()

func TestService_Dispatch_dropOneMemberTopics(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Wiki", IsTeamAssignment: true})

	solo := testutil.CreateTeam(f.DB, 1, 1, 10)
	pair := testutil.CreateTeam(f.DB, 2, 2, 20)
	testutil.CreateTeam(f.DB, 3, 1, 0) // no topic

	report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: deadline.DropOneMemberTopicsType})
	require.NoError(t, err)

	assert.Equal(t, deadline.DropOneMemberTopics{}, report.Category)
	assert.Equal(t, 1, report.TopicsDropped)
	assert.False(t, f.DB.HasSignedUpTeam(solo.ID))
	assert.True(t, f.DB.HasSignedUpTeam(pair.ID))
	assert.Empty(t, f.Mail.SentMessages())
}

func TestService_Dispatch_dropOutstandingReviews(t *testing.T) {
	tests := []struct {
		name            string
		team            bool
		wantTopicsDrops int
	}{
		{name: "individual assignment", team: false, wantTopicsDrops: 0},
		{name: "team assignment", team: true, wantTopicsDrops: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixture(t)
			asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Wiki", IsTeamAssignment: tt.team})
			other := f.DB.InsertAssignment(deadline.Assignment{Name: "Other"})

			solo := testutil.CreateTeam(f.DB, 1, 1, 10)
			pending := f.DB.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: asg.ID, ReviewerID: 1, RevieweeID: 2})
			done := f.DB.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: asg.ID, ReviewerID: 2, RevieweeID: 1})
			f.DB.InsertResponse(deadline.Response{MapID: done.ID})
			otherPending := f.DB.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: other.ID})

			report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: deadline.DropOutstandingReviewsType})
			require.NoError(t, err)

			assert.Equal(t, 1, report.ReviewsDropped)
			assert.Equal(t, tt.wantTopicsDrops, report.TopicsDropped)
			assert.False(t, f.DB.HasResponseMap(pending.ID))
			assert.True(t, f.DB.HasResponseMap(done.ID))
			assert.True(t, f.DB.HasResponseMap(otherPending.ID))
			assert.Equal(t, !tt.team, f.DB.HasSignedUpTeam(solo.ID))
		})
	}
}

func TestService_Dispatch_idempotent(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Wiki", IsTeamAssignment: true})
	testutil.CreateTeam(f.DB, 1, 1, 10)
	testutil.CreateTeam(f.DB, 2, 2, 20)
	f.DB.InsertResponseMap(deadline.ResponseMap{ReviewedObjectID: asg.ID})
	task := deadline.Task{AssignmentID: asg.ID, DeadlineType: deadline.DropOutstandingReviewsType}

	first, err := f.Service().Dispatch(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TopicsDropped)
	assert.Equal(t, 1, first.ReviewsDropped)

	second, err := f.Service().Dispatch(ctx, task)
	require.NoError(t, err)
	assert.Zero(t, second.TopicsDropped)
	assert.Zero(t, second.ReviewsDropped)
}

func TestService_Dispatch_compareFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
	testutil.CreateParticipant(f.DB, asg.ID, "Ann", "ann@test.edu")

	report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: deadline.CompareFilesType})
	require.NoError(t, err)

	assert.Equal(t, deadline.CompareFiles{}, report.Category)
	assert.Equal(t, []int64{asg.ID}, f.Plagiarism.Runs())
	assert.Empty(t, f.Mail.SentMessages())
}

func TestService_Dispatch_reminders(t *testing.T) {
	tests := []struct {
		typ         string
		wantSubject string
	}{
		{typ: "submission", wantSubject: "Message regarding submission for assignment Essay"},
		{typ: "review", wantSubject: "Message regarding review for assignment Essay"},
		{typ: "metareview", wantSubject: "Message regarding teammate review for assignment Essay"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			f := testutil.NewFixture(t)
			asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
			ann, annP := testutil.CreateParticipant(f.DB, asg.ID, "Ann", "ann@test.edu")
			bob, bobP := testutil.CreateParticipant(f.DB, asg.ID, "Bob", "bob@test.edu")
			f.DB.InsertParticipant(deadline.Participant{ParentID: asg.ID})              // no user
			f.DB.InsertParticipant(deadline.Participant{ParentID: asg.ID, UserID: 999}) // dangling user
			testutil.CreateParticipant(f.DB, asg.ID+100, "Cid", "cid@test.edu")         // other assignment

			report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: tt.typ, DueAt: "2024-05-01 23:59"})
			require.NoError(t, err)

			msgs := f.Mail.SentMessages()
			require.Len(t, msgs, 2)
			assert.Len(t, report.Reminders.Sent, 2)
			assert.Empty(t, report.Reminders.Failed)

			for i, want := range []struct {
				usr deadline.User
				p   deadline.Participant
			}{{ann, annP}, {bob, bobP}} {
				msg := msgs[i]
				assert.Equal(t, tt.wantSubject, msg.Subject)
				assert.Equal(t, []mail.Address{{Name: want.usr.Name, Address: want.usr.Email}}, msg.Bcc)
				assert.Empty(t, msg.To)
				assert.Contains(t, msg.TextContent, "http://expertiza.ncsu.edu/student_task/view?id="+itoa(want.p.ID))
				assert.Equal(t, deadline.Delivery{Email: want.usr.Email, ParticipantID: want.p.ID}, report.Reminders.Sent[i])
			}
		})
	}
}

func TestService_Dispatch_reminderBody(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{ID: 7, Name: "Essay"})
	f.DB.InsertUser(deadline.User{ID: 3, Name: "Ann", Email: "ann@test.edu"})
	f.DB.InsertParticipant(deadline.Participant{ID: 42, ParentID: asg.ID, UserID: 3})

	_, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: "metareview", DueAt: "2024-05-01 23:59"})
	require.NoError(t, err)

	msgs := f.Mail.SentMessages()
	require.Len(t, msgs, 1)

	want := "This is a reminder to complete teammate review for assignment Essay.\n" +
		"Please follow the link: http://expertiza.ncsu.edu/student_task/view?id=42\n" +
		"Deadline is 2024-05-01 23:59. If you have already done the teammate review, then please ignore this mail.\n"
	if got := msgs[0].TextContent; got != want {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(want),
			B:        difflib.SplitLines(got),
			FromFile: "want",
			ToFile:   "got",
			Context:  1,
		})
		t.Errorf("reminder body mismatch:\n%s", diff)
	}
	assert.Contains(t, msgs[0].HTMLContent, "student_task/view?id=42")
}

func TestService_Dispatch_noParticipants(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
	f.DB.InsertParticipant(deadline.Participant{ParentID: asg.ID}) // no user

	report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: "submission"})
	require.NoError(t, err)

	assert.Zero(t, report.Reminders.Total())
	assert.Empty(t, f.Mail.SentMessages())
}

func TestService_Dispatch_assignmentNotFound(t *testing.T) {
	types := []string{
		deadline.DropOneMemberTopicsType,
		deadline.DropOutstandingReviewsType,
		deadline.CompareFilesType,
		"submission",
	}
	for _, typ := range types {
		t.Run(typ, func(t *testing.T) {
			f := testutil.NewFixture(t)
			solo := testutil.CreateTeam(f.DB, 1, 1, 10)

			_, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: 404, DeadlineType: typ})
			assert.Equal(t, deadline.ErrAssignmentNotFound, errors.Cause(err))
			assert.True(t, f.DB.HasSignedUpTeam(solo.ID))
			assert.Empty(t, f.Plagiarism.Runs())
		})
	}
}

func TestService_Dispatch_invalidTask(t *testing.T) {
	f := testutil.NewFixture(t)

	_, err := f.Service().Dispatch(ctx, deadline.Task{DeadlineType: "submission"})
	assert.True(t, core.IsValidationError(err), "got %v", err)

	_, err = f.Service().Dispatch(ctx, deadline.Task{AssignmentID: 1})
	assert.True(t, core.IsValidationError(err), "got %v", err)
}

func TestService_Dispatch_duplicateEmail(t *testing.T) {
	f := testutil.NewFixture(t)
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
	testutil.CreateParticipant(f.DB, asg.ID, "Ann", "ann@test.edu")
	f.DB.InsertUser(deadline.User{Name: "Ann Again", Email: "ANN@test.edu"})

	report, err := f.Service().Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: "submission"})
	assert.Equal(t, deadline.ErrDuplicateEmail, errors.Cause(err))
	assert.Len(t, report.Reminders.Failed, 1)
	assert.Empty(t, f.Mail.SentMessages())
}

// noParticipantRepo loses track of every participant record looked up by user.
type noParticipantRepo struct {
	deadline.Repository
}

func (noParticipantRepo) GetParticipant(context.Context, int64, int64) (deadline.Participant, error) {
	return deadline.Participant{}, deadline.ErrParticipantNotFound
}

func TestService_Dispatch_participantNotFound(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Conf.ContinueOnMailError = true
	asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
	testutil.CreateParticipant(f.DB, asg.ID, "Ann", "ann@test.edu")
	testutil.CreateParticipant(f.DB, asg.ID, "Bob", "bob@test.edu")

	svc := deadline.NewService(noParticipantRepo{f.Repo}, f.Mail, f.Plagiarism, f.Logger, f.Conf)
	report, err := svc.Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: "submission"})

	assert.Equal(t, deadline.ErrParticipantNotFound, errors.Cause(err))
	assert.Len(t, report.Reminders.Failed, 1)
	assert.Empty(t, f.Mail.SentMessages())
}

// failingMail refuses to deliver to the given addresses.
type failingMail struct {
	core.EmailService
	refused map[string]bool
}

func (m failingMail) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	for _, addr := range msg.Bcc {
		if m.refused[addr.Address] {
			return errors.New("mailbox unavailable")
		}
	}
	return m.EmailService.SendMessage(ctx, msg)
}

func TestService_Dispatch_mailFailure(t *testing.T) {
	tests := []struct {
		name            string
		continueOnError bool
		wantSent        int
	}{
		{name: "abort on first failure", continueOnError: false, wantSent: 0},
		{name: "continue on error", continueOnError: true, wantSent: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixture(t)
			f.Conf.ContinueOnMailError = tt.continueOnError
			asg := f.DB.InsertAssignment(deadline.Assignment{Name: "Essay"})
			testutil.CreateParticipant(f.DB, asg.ID, "Ann", "ann@test.edu")
			testutil.CreateParticipant(f.DB, asg.ID, "Bob", "bob@test.edu")

			mailSvc := failingMail{EmailService: f.Mail, refused: map[string]bool{"ann@test.edu": true}}
			svc := deadline.NewService(f.Repo, mailSvc, f.Plagiarism, f.Logger, f.Conf)
			report, err := svc.Dispatch(ctx, deadline.Task{AssignmentID: asg.ID, DeadlineType: "submission"})
			require.Error(t, err)

			assert.Len(t, report.Reminders.Sent, tt.wantSent)
			assert.Len(t, f.Mail.SentMessages(), tt.wantSent)
			require.Len(t, report.Reminders.Failed, 1)
			assert.Equal(t, "ann@test.edu", report.Reminders.Failed[0].Email)

			var dErr *deadline.DeliveryError
			isDeliveryErr := errors.As(err, &dErr)
			assert.Equal(t, tt.continueOnError, isDeliveryErr)
			if isDeliveryErr {
				assert.True(t, strings.HasPrefix(dErr.Error(), "1 of 2 reminders failed"), dErr.Error())
			}
		})
	}
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
