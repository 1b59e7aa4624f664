package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/remiehneppo/research-assistant/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService implements AIService on Google's generative AI API. It
// rotates through the configured API keys once when a call fails, which
// covers per-key quota exhaustion.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	modelName  string
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no gemini API keys provided")
	}
	s := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
	}
	if err := s.initClient(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) model() *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.GenerativeModel(s.modelName)
}

func (s *GeminiService) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if rotateErr := s.rotateAPIKey(); rotateErr != nil {
			return "", rotateErr
		}
		resp, err = s.model().GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", err
		}
	}
	return collectText(resp)
}

func (s *GeminiService) InvokeStream(ctx context.Context, prompt string, handler types.StreamHandler) error {
	iter := s.model().GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					handler(string(text))
				}
			}
		}
	}
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}
