package service

import (
	"context"

	"github.com/remiehneppo/research-assistant/types"
)

// AIService is the language-model contract the task executors depend on:
// one prompt in, generated text out, synchronously. Streaming changes
// delivery only and is used by the websocket surface.
type AIService interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	InvokeStream(ctx context.Context, prompt string, handler types.StreamHandler) error
}
