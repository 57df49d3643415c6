package plagiarismsvc

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/deadlines/core"
)

// ConsoleService only logs comparison requests; used in DEV and TEST.
type ConsoleService struct {
	logger core.Logger

	mu   sync.Mutex
	runs []int64
}

var _ core.PlagiarismChecker = (*ConsoleService)(nil)

func NewConsoleService(logger core.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

func (svc *ConsoleService) Run(_ context.Context, assignmentID int64) error {
	svc.logger.Info(fmt.Sprintf("plagiarism comparison requested for assignment %d", assignmentID))
	svc.mu.Lock()
	svc.runs = append(svc.runs, assignmentID)
	svc.mu.Unlock()
	return nil
}

// Runs returns the assignment ids comparisons were requested for.
func (svc *ConsoleService) Runs() []int64 {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]int64(nil), svc.runs...)
}
