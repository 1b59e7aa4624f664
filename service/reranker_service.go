package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/remiehneppo/research-assistant/types"
)

// Reranker scores (query, passage) pairs with a cross-encoder relevance
// model. It may be unavailable; callers degrade per the retrieval fallback
// and never surface the failure.
type Reranker interface {
	Rerank(ctx context.Context, query string, passages []string) ([]float64, error)
}

type rerankRequest struct {
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// HTTPReranker calls an external cross-encoder scoring service
// (POST {endpoint}/v1/rerank). The model runs out of process; this client
// only moves pairs in and scores out.
type HTTPReranker struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPReranker(endpoint string) *HTTPReranker {
	return &HTTPReranker{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	if r.endpoint == "" {
		return nil, &types.RerankerUnavailableError{Err: fmt.Errorf("no reranker endpoint configured")}
	}

	body, err := json.Marshal(rerankRequest{Query: query, Passages: passages})
	if err != nil {
		return nil, &types.RerankerUnavailableError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/v1/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, &types.RerankerUnavailableError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &types.RerankerUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.RerankerUnavailableError{
			Err: fmt.Errorf("rerank request failed with status %d: %s", resp.StatusCode, msg),
		}
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &types.RerankerUnavailableError{Err: err}
	}
	if len(parsed.Scores) != len(passages) {
		return nil, &types.RerankerUnavailableError{
			Err: fmt.Errorf("reranker returned %d scores for %d passages", len(parsed.Scores), len(passages)),
		}
	}
	return parsed.Scores, nil
}
