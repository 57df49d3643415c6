package emailsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/deadlines/core"
	"github.com/trezcool/deadlines/core/deadline"
	logsvc "github.com/trezcool/deadlines/services/logger"
)

func newReminder(conf *core.Config) *core.EmailMessage {
	msg := core.NewTemplatedMessage(conf, "deadline_reminder", "Message regarding review for assignment Essay", deadline.ReminderData{
		Label:          "review",
		AssignmentName: "Essay",
		ParticipantID:  42,
		DueAt:          "2024-05-01",
	})
	msg.Bcc = []mail.Address{{Name: "Ann", Address: "ann@test.edu"}}
	return msg
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func TestConsoleService_SendMessage(t *testing.T) {
	conf := core.NewTestConfig()
	var out bytes.Buffer
	svc := NewConsoleService(conf, log.New(&out, "", 0))

	require.NoError(t, svc.SendMessage(context.Background(), newReminder(conf)))

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "http://expertiza.ncsu.edu/student_task/view?id=42")
	assert.Contains(t, out.String(), "Subject: [Expertiza] Message regarding review for assignment Essay")
	assert.Contains(t, out.String(), `BCC: "Ann" <ann@test.edu>`)
	assert.Contains(t, out.String(), "Content-Type: text/html")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestConsoleService_SendMessage_skipsEmpty(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf)

	noRecipient := newReminder(conf)
	noRecipient.Bcc = nil
	require.NoError(t, svc.SendMessage(context.Background(), noRecipient))
	require.NoError(t, svc.SendMessage(context.Background(), &core.EmailMessage{Subject: "empty", To: []mail.Address{{Address: "a@b.c"}}}))
	assert.Empty(t, svc.SentMessages())

	err := svc.SendMessage(context.Background(), core.NewTemplatedMessage(conf, "nope", "subject", nil))
	assert.Error(t, err)
}

func TestSendgridService_SendMessage(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewSendgridService(conf, newLogger(conf))
	defer func(orig func(rest.Request) (*rest.Response, error)) { apiFunc = orig }(apiFunc)

	tests := []struct {
		name    string
		res     *rest.Response
		err     error
		wantErr bool
	}{
		{name: "accepted", res: &rest.Response{StatusCode: 202}},
		{name: "rejected", res: &rest.Response{StatusCode: 400, Body: "bad request"}, wantErr: true},
		{name: "network error", err: errors.New("connection reset"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got rest.Request
			apiFunc = func(req rest.Request) (*rest.Response, error) {
				got = req
				return tt.res, tt.err
			}

			err := svc.SendMessage(context.Background(), newReminder(conf))
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)

			assert.Equal(t, "https://api.sendgrid.com/v3/mail/send", got.BaseURL)
			var body struct {
				Personalizations []struct {
					Subject string `json:"subject"`
					Bcc     []struct {
						Email string `json:"email"`
					} `json:"bcc"`
				} `json:"personalizations"`
				From struct {
					Email string `json:"email"`
				} `json:"from"`
			}
			require.NoError(t, json.Unmarshal(got.Body, &body))
			require.Len(t, body.Personalizations, 1)
			assert.Equal(t, "[Expertiza] Message regarding review for assignment Essay", body.Personalizations[0].Subject)
			require.Len(t, body.Personalizations[0].Bcc, 1)
			assert.Equal(t, "ann@test.edu", body.Personalizations[0].Bcc[0].Email)
			assert.Equal(t, "noreply@expertiza.test", body.From.Email)
		})
	}
}
