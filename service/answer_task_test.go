package service

import (
	"context"
	"errors"
	"testing"

	"github.com/remiehneppo/research-assistant/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAnswerTaskNoDocuments(t *testing.T) {
	ai := &fakeAI{response: "should not be called"}
	task := NewAnswerTask(ai, zap.NewNop())

	state := &types.ResearchState{Query: "what is X?"}
	task.Execute(context.Background(), state)

	var noDocs *types.NoDocumentsError
	require.ErrorAs(t, state.Err, &noDocs)
	assert.Empty(t, state.Answer)
	assert.Empty(t, ai.prompts, "the model must not be invoked without context")
}

func TestAnswerTaskAppendsSources(t *testing.T) {
	ai := &fakeAI{response: "X is a thing [1]."}
	task := NewAnswerTask(ai, zap.NewNop())

	state := &types.ResearchState{
		Query: "what is X?",
		Docs: []types.DocumentChunk{
			testChunk("c1", "X is a thing.", "paper.pdf"),
			testChunk("c2", "More about X.", ""),
		},
	}
	task.Execute(context.Background(), state)

	require.NoError(t, state.Err)
	assert.Contains(t, state.Answer, "X is a thing [1].")
	assert.Contains(t, state.Answer, "Sources:")
	assert.Contains(t, state.Answer, "[1] Source: paper.pdf")
	assert.Contains(t, state.Answer, "[2] Source: unknown")
}

func TestAnswerTaskPromptContainsQueryAndContext(t *testing.T) {
	ai := &fakeAI{response: "ok"}
	task := NewAnswerTask(ai, zap.NewNop())

	state := &types.ResearchState{
		Query: "what is X?",
		Docs:  []types.DocumentChunk{testChunk("c1", "X is a thing.", "paper.pdf")},
	}
	task.Execute(context.Background(), state)

	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "what is X?")
	assert.Contains(t, ai.prompts[0], "X is a thing.")
}

func TestAnswerTaskLLMFailure(t *testing.T) {
	ai := &fakeAI{err: errors.New("model overloaded")}
	task := NewAnswerTask(ai, zap.NewNop())

	state := &types.ResearchState{
		Query: "what is X?",
		Docs:  []types.DocumentChunk{testChunk("c1", "X is a thing.", "paper.pdf")},
	}
	task.Execute(context.Background(), state)

	var llmErr *types.LLMInvocationError
	require.ErrorAs(t, state.Err, &llmErr)
	assert.Empty(t, state.Answer)
}
