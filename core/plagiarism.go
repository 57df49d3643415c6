package core

import "context"

// PlagiarismChecker starts a plagiarism comparison pass over an assignment's submissions.
type PlagiarismChecker interface {
	Run(ctx context.Context, assignmentID int64) error
}
