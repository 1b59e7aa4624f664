package service

import (
	"context"

	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

// Retriever fills the request state's Docs before a task executes.
type Retriever interface {
	Retrieve(ctx context.Context, state *types.ResearchState) error
}

// ResearchService is the task router: a single-shot pipeline that runs
// retrieval exactly once, then dispatches to exactly one task executor
// selected by the requested mode. Unknown modes fall through to answer
// generation with a logged warning; they never fail the run.
type ResearchService struct {
	retriever Retriever
	executors map[types.ResearchMode]TaskExecutor
	logger    *zap.Logger
}

func NewResearchService(
	retriever Retriever,
	answer, summarize, compare, cite TaskExecutor,
	logger *zap.Logger,
) *ResearchService {
	return &ResearchService{
		retriever: retriever,
		executors: map[types.ResearchMode]TaskExecutor{
			types.ModeStandardQA:          answer,
			types.ModeLiteratureReview:    summarize,
			types.ModeComparativeAnalysis: compare,
			types.ModeGenerateCitations:   cite,
		},
		logger: logger,
	}
}

// Run executes one pipeline pass over the given state and returns it.
// Retrieval failures are recorded in the state and short-circuit the task;
// executor failures are recorded by the executors themselves. The returned
// state always carries a human-readable outcome.
func (s *ResearchService) Run(ctx context.Context, state *types.ResearchState) *types.ResearchState {
	if err := s.retriever.Retrieve(ctx, state); err != nil {
		state.Err = err
		s.logger.Error("retrieval failed", zap.Error(err))
		return state
	}

	executor := s.route(state)
	s.logger.Debug("dispatching research task",
		zap.String("task", executor.Name()),
		zap.String("file", state.CurrentFile),
		zap.Int("docs", len(state.Docs)))
	executor.Execute(ctx, state)
	return state
}

func (s *ResearchService) route(state *types.ResearchState) TaskExecutor {
	mode, known := types.ParseResearchMode(state.Params.Mode)
	if !known {
		s.logger.Warn("unknown research mode, defaulting to standard Q&A",
			zap.String("mode", state.Params.Mode))
	}
	return s.executors[mode]
}
