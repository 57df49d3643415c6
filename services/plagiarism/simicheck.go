package plagiarismsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/deadlines/core"
)

type comparisonRequest struct {
	AssignmentID int64 `json:"assignment_id"`
}

// SimicheckService asks SimiCheck to compare the submissions of an assignment.
type SimicheckService struct {
	baseURL string
	apiKey  string
	logger  core.Logger
	send    func(rest.Request) (*rest.Response, error)
}

var _ core.PlagiarismChecker = (*SimicheckService)(nil)

func NewSimicheckService(conf *core.Config, logger core.Logger) *SimicheckService {
	client := &rest.Client{HTTPClient: &http.Client{Timeout: conf.Simicheck.Timeout}}
	return &SimicheckService{
		baseURL: conf.Simicheck.BaseURL,
		apiKey:  conf.Simicheck.APIKey,
		logger:  logger,
		send:    client.Send,
	}
}

func (svc *SimicheckService) Run(ctx context.Context, assignmentID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(comparisonRequest{AssignmentID: assignmentID})
	if err != nil {
		return errors.Wrap(err, "encoding comparison request")
	}
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: svc.baseURL + "/comparisons",
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"simicheck_api_key": svc.apiKey,
		},
		Body: body,
	}

	res, err := svc.send(req)
	if err != nil {
		return errors.Wrap(err, "requesting comparison")
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("requesting comparison - status: %d - body: %s", res.StatusCode, res.Body)
	}
	svc.logger.Info(fmt.Sprintf("simicheck comparison requested for assignment %d", assignmentID))
	return nil
}
