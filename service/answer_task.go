package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/remiehneppo/research-assistant/types"
	"go.uber.org/zap"
)

const answerPromptTemplate = `You are a research assistant. Answer the question using only the provided context.
If the context doesn't contain relevant information, say so.
Include inline citations like [1] and list all sources at the end.

Question: %s
Context:
%s`

// AnswerTask produces a grounded answer with inline positional citations
// and an appended source list.
type AnswerTask struct {
	ai     AIService
	logger *zap.Logger
}

func NewAnswerTask(ai AIService, logger *zap.Logger) *AnswerTask {
	return &AnswerTask{ai: ai, logger: logger}
}

func (t *AnswerTask) Name() string { return "generate_answer" }

func (t *AnswerTask) Execute(ctx context.Context, state *types.ResearchState) {
	if len(state.Docs) == 0 {
		state.Err = &types.NoDocumentsError{Operation: "answering"}
		return
	}

	prompt := AnswerPrompt(state.Query, state.Docs)
	res, err := t.ai.Invoke(ctx, prompt)
	if err != nil {
		state.Err = &types.LLMInvocationError{Err: err}
		t.logger.Error("answer generation failed", zap.Error(err))
		return
	}

	state.Answer = res + "\n\nSources:\n" + SourceList(state.Docs)
}

// AnswerPrompt builds the grounded-QA prompt from the query and the
// retrieved chunks. Shared with the streaming websocket path.
func AnswerPrompt(query string, docs []types.DocumentChunk) string {
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	return fmt.Sprintf(answerPromptTemplate, query, strings.Join(contents, "\n\n"))
}

// SourceList renders one numbered line per retrieved chunk, naming its
// source document.
func SourceList(docs []types.DocumentChunk) string {
	lines := make([]string, len(docs))
	for i, doc := range docs {
		source := doc.Metadata.Source
		if source == "" {
			source = "unknown"
		}
		lines[i] = fmt.Sprintf("[%d] Source: %s", i+1, source)
	}
	return strings.Join(lines, "\n")
}
