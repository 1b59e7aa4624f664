package service

import (
	"context"

	"github.com/remiehneppo/research-assistant/types"
)

// TaskExecutor is one downstream task of the research pipeline. Executors
// share the same shape: guard against empty docs, build a prompt, invoke
// the model (the citation task skips it), and shape the output. Failures
// are recorded in the request state, never returned, so one failed task
// cannot take the pipeline down.
type TaskExecutor interface {
	Name() string
	Execute(ctx context.Context, state *types.ResearchState)
}
