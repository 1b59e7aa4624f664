package service

import (
	"context"
	"fmt"

	"github.com/remiehneppo/research-assistant/types"
)

// fakeAI records every prompt it receives and returns a canned response or
// error.
type fakeAI struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAI) Invoke(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeAI) InvokeStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return f.err
	}
	handler(f.response)
	return nil
}

func testChunk(id, content, source string) types.DocumentChunk {
	return types.DocumentChunk{
		ID:      id,
		Content: content,
		Metadata: types.DocumentMetadata{
			Source: source,
		},
	}
}

func testChunks(source string, n int) []types.DocumentChunk {
	chunks := make([]types.DocumentChunk, n)
	for i := range chunks {
		chunks[i] = testChunk(
			fmt.Sprintf("%s-chunk-%d", source, i),
			fmt.Sprintf("content of chunk %d from %s", i, source),
			source,
		)
	}
	return chunks
}
